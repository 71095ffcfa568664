package main

import (
	"context"

	"github.com/xavierca1/hecms/internal/entity"
	"github.com/xavierca1/hecms/internal/infra/http/middleware"
	"github.com/xavierca1/hecms/internal/infra/queue"
)

// directPublisher delivers in-process when no broker is configured.
type directPublisher struct {
	deliverer queue.Deliverer
}

func (p directPublisher) PublishDispatch(ctx context.Context, d entity.Dispatch) error {
	err := p.deliverer.Deliver(ctx, d)
	recordDelivery(d, err)
	return err
}

func recordDelivery(d entity.Dispatch, err error) {
	status := "delivered"
	if err != nil {
		status = "failed"
	}
	middleware.RecordDispatch(d.Trigger, status)
}
