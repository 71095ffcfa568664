package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(columns []string, values ...string) ImportRow {
	r := ImportRow{Line: 2, Columns: columns, Values: map[string]string{}}
	for i, c := range columns {
		r.Values[c] = values[i]
	}
	return r
}

func TestApplyToOverwriteCopiesBlanks(t *testing.T) {
	l := Lead{ID: "1", FirstName: "Alex", Phone: "412-555-0101", CreatedAt: "2026-10-01"}
	r := row([]string{"firstName", "phone"}, "Alexander", "")

	r.ApplyTo(&l, MergeOverwrite)

	assert.Equal(t, "Alexander", l.FirstName)
	assert.Equal(t, "", l.Phone)
}

func TestApplyToNonEmptyKeepsExisting(t *testing.T) {
	l := Lead{ID: "1", FirstName: "Alex", Phone: "412-555-0101"}
	r := row([]string{"firstName", "phone"}, "Alexander", "")

	r.ApplyTo(&l, MergeNonEmpty)

	assert.Equal(t, "Alexander", l.FirstName)
	assert.Equal(t, "412-555-0101", l.Phone)
}

func TestApplyToNeverReplacesIdentity(t *testing.T) {
	l := Lead{ID: "1", CreatedAt: "2026-10-01"}
	r := row([]string{"id", "createdAt", "notes"}, "2", "2020-01-01", "hello")

	r.ApplyTo(&l, MergeOverwrite)

	assert.Equal(t, "1", l.ID)
	assert.Equal(t, "2026-10-01", l.CreatedAt)
	assert.Equal(t, "hello", l.Notes)
}

func TestApplyToFillsIdentityOnNewLead(t *testing.T) {
	var l Lead
	r := row([]string{"id", "createdAt"}, "7", "2026-09-30")

	r.ApplyTo(&l, MergeOverwrite)

	assert.Equal(t, "7", l.ID)
	assert.Equal(t, "2026-09-30", l.CreatedAt)
}

func TestUnknownColumns(t *testing.T) {
	r := row([]string{"email", "utm_source", "", "stage"}, "a@x.com", "google", "", "Lead")

	assert.Equal(t, []string{"utm_source"}, r.UnknownColumns())

	var l Lead
	r.ApplyTo(&l, MergeOverwrite)
	assert.Equal(t, "a@x.com", l.Email)
	assert.Equal(t, StageLead, l.Stage)
}

func TestMergeModeIsValid(t *testing.T) {
	assert.True(t, MergeOverwrite.IsValid())
	assert.True(t, MergeNonEmpty.IsValid())
	assert.False(t, MergeMode("merge").IsValid())
}
