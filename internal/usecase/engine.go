package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/leadcsv"
)

// DispatchPublisher hands fired automations to whoever delivers them.
type DispatchPublisher interface {
	PublishDispatch(ctx context.Context, d entity.Dispatch) error
}

type Options struct {
	// Strict rejects stage and temperature values outside the fixed sets.
	Strict bool
	// SeedDemo fills an empty lead collection with demo leads at startup.
	SeedDemo  bool
	Publisher DispatchPublisher
	Now       func() time.Time
	NewID     func() string
}

// Engine composes the lead record engine behind a single lock. Every
// mutation, including the automation and event log writes it cascades
// into, runs under the write lock; reads see either the state before or
// after a mutation.
type Engine struct {
	mu         sync.RWMutex
	blobs      entity.BlobStore
	leads      *LeadStore
	queries    *SavedQueryRegistry
	automation *AutomationEngine
	events     *EventLog
	publisher  DispatchPublisher
	now        func() time.Time
}

type UpdateLeadOutput struct {
	Lead          entity.Lead      `json:"lead"`
	PreviousStage entity.Stage     `json:"previous_stage"`
	Dispatch      *entity.Dispatch `json:"dispatch,omitempty"`
}

type PipelineCounts struct {
	Total         int                        `json:"total"`
	ByStage       map[entity.Stage]int       `json:"by_stage"`
	ByTemperature map[entity.Temperature]int `json:"by_temperature"`
}

// Open loads every core blob from blobs. A missing or corrupt blob falls
// back to its empty default; Open only fails without a store.
func Open(ctx context.Context, blobs entity.BlobStore, opts Options) (*Engine, error) {
	if blobs == nil {
		return nil, errors.New("engine needs a blob store")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	leads, _ := loadBlob[[]entity.Lead](ctx, blobs, entity.KeyLeads)
	queries, _ := loadBlob[[]entity.SavedQuery](ctx, blobs, entity.KeyReports)
	email, _ := loadBlob[entity.EmailState](ctx, blobs, entity.KeyEmail)
	events, _ := loadBlob[[]entity.Event](ctx, blobs, entity.KeyEvents)

	e := &Engine{
		blobs:     blobs,
		leads:     NewLeadStore(blobs, nil, opts.Strict),
		queries:   NewSavedQueryRegistry(blobs, queries),
		events:    NewEventLog(blobs, events),
		publisher: opts.Publisher,
		now:       now,
	}
	e.automation = NewAutomationEngine(blobs, email, e.events)

	e.leads.now = now
	e.events.now = now
	e.automation.now = now
	if opts.NewID != nil {
		e.leads.newID = opts.NewID
	}
	e.leads.leads = e.leads.normalize(leads)

	log.Printf("[ENGINE] loaded %d leads, %d saved queries, %d rules, %d events",
		len(e.leads.leads), len(queries), len(email.Automations), len(events))

	if opts.SeedDemo {
		if n, err := e.Seed(ctx); err != nil {
			log.Printf("[ENGINE] demo seed failed: %v", err)
		} else if n > 0 {
			log.Printf("[ENGINE] seeded %d demo leads", n)
		}
	}
	return e, nil
}

func (e *Engine) CreateLead(ctx context.Context, f entity.LeadFields) (entity.Lead, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leads.Create(ctx, f)
}

// UpdateLead replaces the lead's fields and fires the stage-change
// automation. If the automation's event cannot be saved, the lead write is
// undone and the storage error returned.
func (e *Engine) UpdateLead(ctx context.Context, id string, f entity.LeadFields) (UpdateLeadOutput, error) {
	out, err := e.updateLead(ctx, id, f)
	if err != nil {
		return UpdateLeadOutput{}, err
	}
	if out.Dispatch != nil {
		e.publish(ctx, *out.Dispatch)
	}
	return out, nil
}

func (e *Engine) updateLead(ctx context.Context, id string, f entity.LeadFields) (UpdateLeadOutput, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.leads.List()
	lead, previous, err := e.leads.Update(ctx, id, f)
	if err != nil {
		return UpdateLeadOutput{}, err
	}

	d, err := e.automation.OnStageChange(ctx, lead, previous)
	if err != nil {
		// The event save often failed because ctx was cancelled.
		if rerr := e.leads.replace(context.WithoutCancel(ctx), before); rerr != nil {
			e.leads.leads = before
			log.Printf("[ENGINE] CRITICAL: lead %s event not saved and durable restore failed, memory restored: %v", id, rerr)
		}
		return UpdateLeadOutput{}, err
	}
	return UpdateLeadOutput{Lead: lead, PreviousStage: previous, Dispatch: d}, nil
}

func (e *Engine) publish(ctx context.Context, d entity.Dispatch) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishDispatch(ctx, d); err != nil {
		log.Printf("[ENGINE] dispatch for lead %s logged but not published: %v", d.LeadID, err)
	}
}

func (e *Engine) DeleteLead(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.leads.Delete(ctx, id)
}

func (e *Engine) GetLead(id string) (entity.Lead, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.leads.Get(id)
}

func (e *Engine) ListLeads() []entity.Lead {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.leads.List()
}

func (e *Engine) QueryLeads(c Criteria, spec entity.SortSpec) []entity.Lead {
	return QueryLeads(e.ListLeads(), c, spec)
}

func (e *Engine) PipelineCounts() PipelineCounts {
	leads := e.ListLeads()
	counts := PipelineCounts{
		Total:         len(leads),
		ByStage:       make(map[entity.Stage]int, len(entity.Stages)),
		ByTemperature: make(map[entity.Temperature]int, len(entity.Temperatures)),
	}
	for _, s := range entity.Stages {
		counts.ByStage[s] = 0
	}
	for _, t := range entity.Temperatures {
		counts.ByTemperature[t] = 0
	}
	for _, l := range leads {
		counts.ByStage[l.Stage]++
		counts.ByTemperature[l.Temperature]++
	}
	return counts
}

// ExportCSV writes every lead in insertion order.
func (e *Engine) ExportCSV(w io.Writer) error {
	return leadcsv.Write(w, e.ListLeads())
}

// ImportCSV parses r and merges the rows. Lines that cannot be parsed or
// fail validation are skipped and listed in the result.
func (e *Engine) ImportCSV(ctx context.Context, r io.Reader, mode entity.MergeMode) (ImportResult, error) {
	if mode == "" {
		mode = entity.MergeOverwrite
	}
	if !mode.IsValid() {
		return ImportResult{}, invalid([]ValidationError{{"mode", "must be overwrite or non-empty"}})
	}

	rows, rowErrs, err := leadcsv.Decode(r)
	if err != nil {
		return ImportResult{}, parseError("read import file", err)
	}

	e.mu.Lock()
	result, err := e.leads.Merge(ctx, rows, mode)
	e.mu.Unlock()
	if err != nil {
		return ImportResult{}, err
	}

	result.Skipped = append(rowErrs, result.Skipped...)
	sort.SliceStable(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Line < result.Skipped[j].Line
	})
	return result, nil
}

// Seed adds the demo leads when the collection is empty and reports how
// many were added.
func (e *Engine) Seed(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.leads.Len() > 0 {
		return 0, nil
	}
	demo := DemoLeads(e.now())
	for i := range demo {
		demo[i].ID = e.leads.freshID(demo[:i])
	}
	if err := e.leads.replace(ctx, demo); err != nil {
		return 0, err
	}
	return len(demo), nil
}

func (e *Engine) SaveQuery(ctx context.Context, name string, snapshot entity.QuerySnapshot) (entity.SavedQuery, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.queries.Save(ctx, name, snapshot)
}

func (e *Engine) ListSavedQueries() []entity.SavedQuery {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queries.List()
}

func (e *Engine) GetSavedQuery(id string) (entity.SavedQuery, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queries.Get(id)
}

func (e *Engine) LoadSavedQuery(id string) (entity.QuerySnapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.queries.Load(id)
}

// RunSavedQuery applies a saved snapshot to the current leads.
func (e *Engine) RunSavedQuery(id string) ([]entity.Lead, error) {
	snapshot, err := e.LoadSavedQuery(id)
	if err != nil {
		return nil, err
	}
	return e.QueryLeads(CriteriaFromSnapshot(snapshot), snapshot.Sort), nil
}

func (e *Engine) UpsertAutomationRule(ctx context.Context, triggerType, template string) (entity.AutomationRule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.automation.UpsertRule(ctx, triggerType, template)
}

func (e *Engine) AutomationRule(triggerType string) (entity.AutomationRule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.automation.Rule(triggerType)
}

func (e *Engine) AutomationRules() []entity.AutomationRule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.automation.Rules()
}

func (e *Engine) SaveTemplate(ctx context.Context, subject, body string) (entity.EmailTemplate, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.automation.SaveTemplate(ctx, subject, body)
}

func (e *Engine) Templates() []entity.EmailTemplate {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.automation.Templates()
}

func (e *Engine) DeleteTemplate(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.automation.DeleteTemplate(ctx, id)
}

func (e *Engine) Events() []entity.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.events.List()
}

// TrackEvent logs a tracking event fired from the tracking page.
func (e *Engine) TrackEvent(ctx context.Context, name string, payload map[string]any) (entity.Event, error) {
	if name == "" {
		name = "lead_submit"
	}
	if payload == nil {
		payload = map[string]any{"ts": e.now().UnixMilli()}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return entity.Event{}, invalid([]ValidationError{{"payload", err.Error()}})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.events.Append(ctx, fmt.Sprintf("Fired %s with payload %s", name, body))
}

// Ping checks that the blob store answers.
func (e *Engine) Ping(ctx context.Context) error {
	_, err := e.blobs.Load(ctx, entity.KeyLeads)
	if err != nil && !errors.Is(err, entity.ErrBlobNotFound) {
		return err
	}
	return nil
}
