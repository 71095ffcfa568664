package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/hecms/internal/entity"
)

// AutomationEngine owns the email workspace: automation rules keyed by
// trigger type and the saved templates they refer to. It never delivers
// anything; a fired rule becomes an event log line and a Dispatch for
// whoever does delivery.
type AutomationEngine struct {
	blobs  entity.BlobStore
	state  entity.EmailState
	events *EventLog
	now    func() time.Time
}

func NewAutomationEngine(blobs entity.BlobStore, initial entity.EmailState, events *EventLog) *AutomationEngine {
	return &AutomationEngine{
		blobs:  blobs,
		state:  cloneEmailState(initial),
		events: events,
		now:    time.Now,
	}
}

// UpsertRule sets the template for trigger type, replacing any rule that
// was there.
func (a *AutomationEngine) UpsertRule(ctx context.Context, triggerType, template string) (entity.AutomationRule, error) {
	triggerType = strings.TrimSpace(triggerType)
	template = strings.TrimSpace(template)

	var errs []ValidationError
	if triggerType == "" {
		errs = append(errs, ValidationError{"type", "is required"})
	}
	if template == "" {
		errs = append(errs, ValidationError{"template", "is required"})
	}
	if len(errs) > 0 {
		return entity.AutomationRule{}, invalid(errs)
	}

	rule := entity.AutomationRule{Type: triggerType, Template: template}
	next := cloneEmailState(a.state)
	replaced := false
	for i, r := range next.Automations {
		if r.Type == triggerType {
			next.Automations[i] = rule
			replaced = true
			break
		}
	}
	if !replaced {
		next.Automations = append(next.Automations, rule)
	}

	if err := a.commit(ctx, next); err != nil {
		return entity.AutomationRule{}, err
	}
	return rule, nil
}

func (a *AutomationEngine) Rule(triggerType string) (entity.AutomationRule, bool) {
	for _, r := range a.state.Automations {
		if r.Type == triggerType {
			return r, true
		}
	}
	return entity.AutomationRule{}, false
}

func (a *AutomationEngine) Rules() []entity.AutomationRule {
	out := make([]entity.AutomationRule, len(a.state.Automations))
	copy(out, a.state.Automations)
	return out
}

func (a *AutomationEngine) SaveTemplate(ctx context.Context, subject, body string) (entity.EmailTemplate, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "Untitled"
	}
	t := entity.EmailTemplate{ID: uuid.New().String(), Subject: subject, Body: strings.TrimSpace(body)}

	next := cloneEmailState(a.state)
	next.Templates = append(next.Templates, t)
	if err := a.commit(ctx, next); err != nil {
		return entity.EmailTemplate{}, err
	}
	return t, nil
}

func (a *AutomationEngine) Templates() []entity.EmailTemplate {
	out := make([]entity.EmailTemplate, len(a.state.Templates))
	copy(out, a.state.Templates)
	return out
}

func (a *AutomationEngine) DeleteTemplate(ctx context.Context, id string) error {
	next := cloneEmailState(a.state)
	for i, t := range next.Templates {
		if t.ID == id {
			next.Templates = append(next.Templates[:i], next.Templates[i+1:]...)
			return a.commit(ctx, next)
		}
	}
	return notFound("template", id)
}

// OnStageChange fires the stage-change rule when lead left previous. It
// appends exactly one event log line and returns the dispatch, or returns
// nil with no effect when the stage is unchanged or no rule is configured.
func (a *AutomationEngine) OnStageChange(ctx context.Context, lead entity.Lead, previous entity.Stage) (*entity.Dispatch, error) {
	if previous == lead.Stage {
		return nil, nil
	}
	rule, ok := a.Rule(entity.TriggerStageChange)
	if !ok {
		return nil, nil
	}

	d := &entity.Dispatch{
		LeadID:        lead.ID,
		Name:          lead.FullName(),
		Email:         lead.Email,
		Phone:         lead.Phone,
		FirstName:     lead.FirstName,
		LastName:      lead.LastName,
		Program:       lead.Program,
		Template:      rule.Template,
		PreviousStage: previous,
		Stage:         lead.Stage,
		Trigger:       entity.TriggerStageChange,
		At:            a.now().UTC(),
	}
	if t, ok := a.templateBySubject(rule.Template); ok {
		d.Subject = t.Subject
		d.Body = t.Body
	}

	if _, err := a.events.Append(ctx, DispatchLine(*d)); err != nil {
		return nil, err
	}
	return d, nil
}

// DispatchLine is the event log text for a dispatch.
func DispatchLine(d entity.Dispatch) string {
	return fmt.Sprintf("Automation: Sent template \"%s\" to %s (stage changed to %s).", d.Template, d.Email, d.Stage)
}

func (a *AutomationEngine) templateBySubject(subject string) (entity.EmailTemplate, bool) {
	for _, t := range a.state.Templates {
		if t.Subject == subject {
			return t, true
		}
	}
	return entity.EmailTemplate{}, false
}

func (a *AutomationEngine) commit(ctx context.Context, next entity.EmailState) error {
	if err := saveBlob(ctx, a.blobs, entity.KeyEmail, next); err != nil {
		return err
	}
	a.state = next
	return nil
}

func cloneEmailState(s entity.EmailState) entity.EmailState {
	out := entity.EmailState{
		Templates:   make([]entity.EmailTemplate, len(s.Templates)),
		Automations: make([]entity.AutomationRule, len(s.Automations)),
	}
	copy(out.Templates, s.Templates)
	copy(out.Automations, s.Automations)
	return out
}
