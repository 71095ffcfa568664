package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/xavierca1/hecms/internal/entity"
)

// SavedQueryRegistry keeps named report snapshots. Entries are never
// updated or removed.
type SavedQueryRegistry struct {
	blobs   entity.BlobStore
	queries []entity.SavedQuery
}

func NewSavedQueryRegistry(blobs entity.BlobStore, initial []entity.SavedQuery) *SavedQueryRegistry {
	queries := make([]entity.SavedQuery, len(initial))
	copy(queries, initial)
	return &SavedQueryRegistry{blobs: blobs, queries: queries}
}

func (r *SavedQueryRegistry) Save(ctx context.Context, name string, snapshot entity.QuerySnapshot) (entity.SavedQuery, error) {
	if errs := ValidateSortSpec(snapshot.Sort); len(errs) > 0 {
		return entity.SavedQuery{}, invalid(errs)
	}
	if strings.TrimSpace(name) == "" {
		name = "Untitled"
	}
	if snapshot.Sort.Key == "" {
		snapshot.Sort = entity.DefaultSort
	}

	q := entity.SavedQuery{ID: uuid.New().String(), Name: name, Filters: snapshot}

	next := make([]entity.SavedQuery, len(r.queries), len(r.queries)+1)
	copy(next, r.queries)
	next = append(next, q)
	if err := saveBlob(ctx, r.blobs, entity.KeyReports, next); err != nil {
		return entity.SavedQuery{}, err
	}
	r.queries = next
	return q, nil
}

// List returns the saved queries in creation order.
func (r *SavedQueryRegistry) List() []entity.SavedQuery {
	out := make([]entity.SavedQuery, len(r.queries))
	copy(out, r.queries)
	return out
}

func (r *SavedQueryRegistry) Get(id string) (entity.SavedQuery, error) {
	for _, q := range r.queries {
		if q.ID == id {
			return q, nil
		}
	}
	return entity.SavedQuery{}, notFound("saved query", id)
}

func (r *SavedQueryRegistry) Load(id string) (entity.QuerySnapshot, error) {
	q, err := r.Get(id)
	if err != nil {
		return entity.QuerySnapshot{}, err
	}
	return q.Filters, nil
}
