package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/hecms/internal/entity"
)

// Deliverer turns a dispatch into a message on some channel.
type Deliverer interface {
	Deliver(ctx context.Context, d entity.Dispatch) error
}

// ErrMalformed marks a message body that is not a dispatch.
var ErrMalformed = errors.New("malformed dispatch")

type Worker struct {
	Channel   *amqp.Channel
	Deliverer Deliverer
	// OnResult, when set, is told how each message ended.
	OnResult func(d entity.Dispatch, err error)
}

func NewWorker(ch *amqp.Channel, deliverer Deliverer) *Worker {
	return &Worker{
		Channel:   ch,
		Deliverer: deliverer,
	}
}

// Start consumes queueName until ctx is done or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	log.Printf("[WORKER] waiting for dispatches on %s", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[WORKER] stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("dispatch channel closed")
			}
			if err := w.Process(ctx, d.Body); err != nil {
				log.Printf("[WORKER] dispatch rejected: %v", err)
				// Malformed or undeliverable: dead-letter instead of looping
				d.Nack(false, false)
				continue
			}
			d.Ack(false)
		}
	}
}

// Process decodes one message body and delivers it.
func (w *Worker) Process(ctx context.Context, body []byte) error {
	var d entity.Dispatch
	if err := json.Unmarshal(body, &d); err != nil {
		w.report(d, err)
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if d.Email == "" && d.Phone == "" {
		err := fmt.Errorf("%w: lead %s has no contact", ErrMalformed, d.LeadID)
		w.report(d, err)
		return err
	}

	log.Printf("[WORKER] delivering %q to lead %s (%s -> %s)", d.Template, d.LeadID, d.PreviousStage, d.Stage)
	err := w.Deliverer.Deliver(ctx, d)
	w.report(d, err)
	if err != nil {
		return fmt.Errorf("deliver to lead %s: %w", d.LeadID, err)
	}
	return nil
}

func (w *Worker) report(d entity.Dispatch, err error) {
	if w.OnResult != nil {
		w.OnResult(d, err)
	}
}
