package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLeadDefaults(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)

	l := NewLead("", LeadFields{FirstName: "Alex", Email: "alex@example.com"}, now)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, StageLead, l.Stage)
	assert.Equal(t, TemperatureWarm, l.Temperature)
	assert.Equal(t, "2026-10-19", l.CreatedAt)
	assert.Equal(t, "Alex", l.FirstName)
}

func TestNewLeadKeepsGivenValues(t *testing.T) {
	l := NewLead("abc", LeadFields{Stage: StageApplied, Temperature: TemperatureHot}, time.Now())

	assert.Equal(t, "abc", l.ID)
	assert.Equal(t, StageApplied, l.Stage)
	assert.Equal(t, TemperatureHot, l.Temperature)
}

func TestStageAndTemperatureSets(t *testing.T) {
	assert.Len(t, Stages, 7)
	assert.Equal(t, StageLead, Stages[0])
	assert.True(t, StageDeclined.IsValid())
	assert.False(t, Stage("Enrolled").IsValid())
	assert.False(t, Stage("").IsValid())

	assert.Len(t, Temperatures, 4)
	assert.True(t, TemperatureNonresponsive.IsValid())
	assert.False(t, Temperature("hot").IsValid())
}

func TestFieldsRoundTrip(t *testing.T) {
	l := Lead{
		ID: "1", FirstName: "Dana", LastName: "Khan", Email: "dana@example.com",
		Stage: StageAccepted, Temperature: TemperatureWarm, CreatedAt: "2026-10-04", Notes: "n",
	}

	var other Lead
	other.Apply(l.Fields())

	other.ID, other.CreatedAt = l.ID, l.CreatedAt
	assert.Equal(t, l, other)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Chris O'Neil", Lead{FirstName: "Chris", LastName: "O'Neil"}.FullName())
	assert.Equal(t, "Chris", Lead{FirstName: "Chris"}.FullName())
	assert.Equal(t, "O'Neil", Lead{LastName: "O'Neil"}.FullName())
}

func TestValueAndSetCoverEveryField(t *testing.T) {
	var l Lead
	for _, f := range LeadFieldNames {
		require.True(t, l.Set(f, "v-"+f), f)
	}
	for _, f := range LeadFieldNames {
		v, ok := l.Value(f)
		require.True(t, ok, f)
		assert.Equal(t, "v-"+f, v)
	}

	assert.False(t, l.Set("shoeSize", "9"))
	_, ok := l.Value("shoeSize")
	assert.False(t, ok)
	assert.False(t, IsLeadField("shoeSize"))
}

func TestLeadValuesNeverHoldCRLF(t *testing.T) {
	l := NewLead("1", LeadFields{Notes: "line1\r\nline2", Address: "a\r\r\nb"}, time.Now())
	assert.Equal(t, "line1\nline2", l.Notes)
	assert.Equal(t, "a\nb", l.Address)

	l.Set(FieldNotes, "x\r\ny")
	assert.Equal(t, "x\ny", l.Notes)

	loaded := Lead{ID: "2", CreatedAt: "2026-10-19", Notes: "p\r\nq"}
	loaded.Normalize()
	assert.Equal(t, "p\nq", loaded.Notes)
	assert.Equal(t, "2026-10-19", loaded.CreatedAt)
}
