package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/hecms/internal/entity"
)

func newTestAutomation(blobs entity.BlobStore) *AutomationEngine {
	events := NewEventLog(blobs, nil)
	events.now = fixedNow
	a := NewAutomationEngine(blobs, entity.EmailState{}, events)
	a.now = fixedNow
	return a
}

func TestUpsertRuleReplaces(t *testing.T) {
	a := newTestAutomation(newMemStore())
	ctx := context.Background()

	_, err := a.UpsertRule(ctx, entity.TriggerStageChange, "Welcome")
	require.NoError(t, err)
	_, err = a.UpsertRule(ctx, entity.TriggerStageChange, "Follow Up")
	require.NoError(t, err)

	rules := a.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "Follow Up", rules[0].Template)
}

func TestUpsertRuleRequiresTypeAndTemplate(t *testing.T) {
	a := newTestAutomation(newMemStore())

	_, err := a.UpsertRule(context.Background(), " ", "")

	require.True(t, IsValidation(err))
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Len(t, de.Fields, 2)
	assert.Empty(t, a.Rules())
}

func TestOnStageChange(t *testing.T) {
	lead := entity.Lead{ID: "1", FirstName: "Brianna", LastName: "Ng", Email: "bri@example.com", Stage: entity.StageApplied}

	t.Run("no rule, no event", func(t *testing.T) {
		a := newTestAutomation(newMemStore())

		d, err := a.OnStageChange(context.Background(), lead, entity.StageLead)

		require.NoError(t, err)
		assert.Nil(t, d)
		assert.Equal(t, 0, a.events.Len())
	})

	t.Run("same stage, no event", func(t *testing.T) {
		a := newTestAutomation(newMemStore())
		_, err := a.UpsertRule(context.Background(), entity.TriggerStageChange, "Follow Up")
		require.NoError(t, err)

		d, err := a.OnStageChange(context.Background(), lead, entity.StageApplied)

		require.NoError(t, err)
		assert.Nil(t, d)
		assert.Equal(t, 0, a.events.Len())
	})

	t.Run("fires once with template content", func(t *testing.T) {
		a := newTestAutomation(newMemStore())
		ctx := context.Background()
		_, err := a.UpsertRule(ctx, entity.TriggerStageChange, "Follow Up")
		require.NoError(t, err)
		_, err = a.SaveTemplate(ctx, "Follow Up", "Hi {{.FirstName}}")
		require.NoError(t, err)

		d, err := a.OnStageChange(ctx, lead, entity.StageLead)

		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "Brianna Ng", d.Name)
		assert.Equal(t, "Hi {{.FirstName}}", d.Body)
		assert.Equal(t, entity.StageLead, d.PreviousStage)
		assert.Equal(t, testNow, d.At)

		events := a.events.List()
		require.Len(t, events, 1)
		assert.Equal(t, `Automation: Sent template "Follow Up" to bri@example.com (stage changed to Applied).`, events[0].Line)
	})

	t.Run("event save failure returns storage error", func(t *testing.T) {
		blobs := new(MockBlobStore)
		blobs.On("Save", mock.Anything, entity.KeyEmail, mock.Anything).Return(nil)
		blobs.On("Save", mock.Anything, entity.KeyEvents, mock.Anything).Return(errors.New("disk full"))
		a := newTestAutomation(blobs)
		_, err := a.UpsertRule(context.Background(), entity.TriggerStageChange, "Follow Up")
		require.NoError(t, err)

		d, err := a.OnStageChange(context.Background(), lead, entity.StageLead)

		assert.True(t, IsStorage(err))
		assert.Nil(t, d)
		assert.Equal(t, 0, a.events.Len())
	})
}

func TestTemplates(t *testing.T) {
	a := newTestAutomation(newMemStore())
	ctx := context.Background()

	untitled, err := a.SaveTemplate(ctx, "  ", "body")
	require.NoError(t, err)
	assert.Equal(t, "Untitled", untitled.Subject)

	_, err = a.SaveTemplate(ctx, "Welcome", "")
	require.NoError(t, err)
	assert.Len(t, a.Templates(), 2)

	require.NoError(t, a.DeleteTemplate(ctx, untitled.ID))
	assert.Len(t, a.Templates(), 1)
	assert.True(t, IsNotFound(a.DeleteTemplate(ctx, untitled.ID)))
}
