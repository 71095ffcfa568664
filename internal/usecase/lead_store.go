package usecase

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/hecms/internal/entity"
)

// LeadStore is the record store. It is not safe for concurrent use; Engine
// serializes access to it.
//
// Every mutation builds the next collection, saves it, and only then swaps
// it in, so a failed save leaves memory equal to the last durable snapshot.
type LeadStore struct {
	blobs  entity.BlobStore
	leads  []entity.Lead
	strict bool
	now    func() time.Time
	newID  func() string
}

func NewLeadStore(blobs entity.BlobStore, initial []entity.Lead, strict bool) *LeadStore {
	return &LeadStore{
		blobs:  blobs,
		leads:  cloneLeads(initial),
		strict: strict,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
}

// ImportResult summarizes a merge.
type ImportResult struct {
	Created        int               `json:"created"`
	Updated        int               `json:"updated"`
	Skipped        []entity.RowError `json:"skipped"`
	UnknownColumns []string          `json:"unknown_columns,omitempty"`
}

// Merged is the number of rows that created or updated a lead.
func (r ImportResult) Merged() int {
	return r.Created + r.Updated
}

func (s *LeadStore) Create(ctx context.Context, f entity.LeadFields) (entity.Lead, error) {
	if f.Stage == "" {
		f.Stage = entity.Stages[0]
	}
	if f.Temperature == "" {
		f.Temperature = entity.DefaultTemperature
	}
	if s.strict {
		if errs := ValidateLeadFields(f); len(errs) > 0 {
			return entity.Lead{}, invalid(errs)
		}
	}

	lead := entity.NewLead(s.freshID(s.leads), f, s.now())

	next := append(cloneLeads(s.leads), lead)
	if err := s.commit(ctx, next); err != nil {
		return entity.Lead{}, err
	}
	return lead, nil
}

// Update replaces the mutable fields of lead id and returns the stage it
// had before, so callers can detect a transition.
func (s *LeadStore) Update(ctx context.Context, id string, f entity.LeadFields) (entity.Lead, entity.Stage, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, "", notFound("lead", id)
	}
	if s.strict {
		if errs := ValidateLeadFields(f); len(errs) > 0 {
			return entity.Lead{}, "", invalid(errs)
		}
	}

	next := cloneLeads(s.leads)
	previous := next[idx].Stage
	next[idx].Apply(f)
	if err := s.commit(ctx, next); err != nil {
		return entity.Lead{}, "", err
	}
	return next[idx], previous, nil
}

func (s *LeadStore) Delete(ctx context.Context, id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return notFound("lead", id)
	}

	next := make([]entity.Lead, 0, len(s.leads)-1)
	next = append(next, s.leads[:idx]...)
	next = append(next, s.leads[idx+1:]...)
	return s.commit(ctx, next)
}

func (s *LeadStore) Get(id string) (entity.Lead, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return entity.Lead{}, notFound("lead", id)
	}
	return s.leads[idx], nil
}

// List returns a copy of the collection in insertion order.
func (s *LeadStore) List() []entity.Lead {
	return cloneLeads(s.leads)
}

func (s *LeadStore) Len() int {
	return len(s.leads)
}

// Merge reconciles import rows with the collection. A row matches the lead
// with the same id, or failing that the first lead with the same non-empty
// email. Matched leads take the row's columns according to mode; unmatched
// rows become new leads. The batch is saved once and rolled back whole on a
// storage failure.
func (s *LeadStore) Merge(ctx context.Context, rows []entity.ImportRow, mode entity.MergeMode) (ImportResult, error) {
	if mode == "" {
		mode = entity.MergeOverwrite
	}

	var result ImportResult
	unknown := make(map[string]bool)

	next := cloneLeads(s.leads)
	byID := make(map[string]int, len(next))
	for i, l := range next {
		byID[l.ID] = i
	}
	today := s.now().Format(entity.DateLayout)

	for _, row := range rows {
		for _, c := range row.UnknownColumns() {
			if !unknown[c] {
				unknown[c] = true
				result.UnknownColumns = append(result.UnknownColumns, c)
			}
		}

		idx := -1
		if id := row.ID(); id != "" {
			if i, ok := byID[id]; ok {
				idx = i
			}
		}
		if idx < 0 && row.Email() != "" {
			idx = indexByEmail(next, row.Email())
		}

		if idx >= 0 {
			candidate := next[idx]
			row.ApplyTo(&candidate, mode)
			if s.strict {
				if errs := ValidateLeadChange(next[idx], candidate); len(errs) > 0 {
					result.Skipped = append(result.Skipped, entity.RowError{Line: row.Line, Reason: invalid(errs).Error()})
					continue
				}
			}
			next[idx] = candidate
			result.Updated++
			continue
		}

		var candidate entity.Lead
		row.ApplyTo(&candidate, mode)
		if candidate.ID == "" {
			candidate.ID = s.freshID(next)
		}
		if candidate.Stage == "" {
			candidate.Stage = entity.Stages[0]
		}
		if candidate.Temperature == "" {
			candidate.Temperature = entity.DefaultTemperature
		}
		if candidate.CreatedAt == "" {
			candidate.CreatedAt = today
		}
		if s.strict {
			if errs := ValidateLead(candidate); len(errs) > 0 {
				result.Skipped = append(result.Skipped, entity.RowError{Line: row.Line, Reason: invalid(errs).Error()})
				continue
			}
		}
		byID[candidate.ID] = len(next)
		next = append(next, candidate)
		result.Created++
	}

	if result.Merged() == 0 {
		return result, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// replace swaps in a whole collection, used to undo a committed write.
func (s *LeadStore) replace(ctx context.Context, leads []entity.Lead) error {
	return s.commit(ctx, cloneLeads(leads))
}

func (s *LeadStore) commit(ctx context.Context, next []entity.Lead) error {
	if err := saveBlob(ctx, s.blobs, entity.KeyLeads, next); err != nil {
		return err
	}
	s.leads = next
	return nil
}

func (s *LeadStore) indexOf(id string) int {
	for i, l := range s.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// freshID draws ids until one is absent from leads.
func (s *LeadStore) freshID(leads []entity.Lead) string {
	for {
		id := s.newID()
		if id != "" && !containsID(leads, id) {
			return id
		}
	}
}

func containsID(leads []entity.Lead, id string) bool {
	for _, l := range leads {
		if l.ID == id {
			return true
		}
	}
	return false
}

func indexByEmail(leads []entity.Lead, email string) int {
	for i, l := range leads {
		if l.Email == email {
			return i
		}
	}
	return -1
}

func cloneLeads(leads []entity.Lead) []entity.Lead {
	out := make([]entity.Lead, len(leads))
	copy(out, leads)
	return out
}

// normalize gives a fresh id to loaded leads whose id is empty or already
// taken, so the collection starts out with unique ids.
func (s *LeadStore) normalize(leads []entity.Lead) []entity.Lead {
	out := make([]entity.Lead, 0, len(leads))
	seen := make(map[string]bool, len(leads))
	for _, l := range leads {
		l.Normalize()
		if l.ID == "" || seen[l.ID] {
			old := l.ID
			for {
				id := s.newID()
				if id != "" && !seen[id] && !containsID(leads, id) {
					l.ID = id
					break
				}
			}
			log.Printf("[ENGINE] lead %q re-keyed to %s on load", old, l.ID)
		}
		seen[l.ID] = true
		out = append(out, l)
	}
	return out
}
