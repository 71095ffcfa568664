package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/hecms/internal/entity"
)

// EventLog is the append-only audit trail. List order is insertion order;
// showing newest first is up to the reader.
type EventLog struct {
	blobs  entity.BlobStore
	events []entity.Event
	now    func() time.Time
}

func NewEventLog(blobs entity.BlobStore, initial []entity.Event) *EventLog {
	events := make([]entity.Event, len(initial))
	copy(events, initial)
	return &EventLog{blobs: blobs, events: events, now: time.Now}
}

func (l *EventLog) Append(ctx context.Context, line string) (entity.Event, error) {
	e := entity.Event{Line: line, At: l.now().UTC()}

	next := make([]entity.Event, len(l.events), len(l.events)+1)
	copy(next, l.events)
	next = append(next, e)
	if err := saveBlob(ctx, l.blobs, entity.KeyEvents, next); err != nil {
		return entity.Event{}, err
	}
	l.events = next
	return e, nil
}

func (l *EventLog) List() []entity.Event {
	out := make([]entity.Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *EventLog) Len() int {
	return len(l.events)
}
