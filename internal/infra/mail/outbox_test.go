package mail

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/hecms/internal/entity"
)

func dispatch() entity.Dispatch {
	return entity.Dispatch{
		LeadID:        "lead/1",
		Name:          "Brianna Ng",
		FirstName:     "Brianna",
		LastName:      "Ng",
		Email:         "bri.ng@example.com",
		Program:       "RN to BSN (Online)",
		Template:      "Follow Up",
		PreviousStage: entity.StageInterested,
		Stage:         entity.StageApplied,
		Trigger:       entity.TriggerStageChange,
		At:            time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC),
	}
}

func render(t *testing.T, s *OutboxSender, d entity.Dispatch) string {
	t.Helper()
	m, err := s.Render(d)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestRenderDefaultBody(t *testing.T) {
	s := &OutboxSender{From: "admissions@example.edu"}

	out := render(t, s, dispatch())

	assert.Contains(t, out, "From: admissions@example.edu")
	assert.Contains(t, out, "bri.ng@example.com")
	assert.Contains(t, out, "Subject: Follow Up")
	assert.Contains(t, out, "Hi Brianna,")
	assert.Contains(t, out, "status is now Applied")
}

func TestRenderSavedTemplate(t *testing.T) {
	s := &OutboxSender{From: "admissions@example.edu"}
	d := dispatch()
	d.Subject = "Next steps for {{.Program}}"
	d.Body = "Dear {{.Name}}, welcome to {{.Program}}."

	out := render(t, s, d)

	assert.Contains(t, out, "Dear Brianna Ng, welcome to RN to BSN (Online).")
}

func TestRenderErrors(t *testing.T) {
	s := &OutboxSender{From: "admissions@example.edu"}

	d := dispatch()
	d.Email = ""
	_, err := s.Render(d)
	assert.Error(t, err)

	d = dispatch()
	d.Body = "{{.Broken"
	_, err = s.Render(d)
	assert.Error(t, err)
}

func TestDeliverWritesOutboxFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	s, err := NewOutboxSender(dir, "admissions@example.edu")
	require.NoError(t, err)

	require.NoError(t, s.Deliver(context.Background(), dispatch()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20261019T093000.000000000-lead_1.eml", entries[0].Name())

	content, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Hi Brianna,")
}
