package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/hecms/internal/entity"
)

// Publisher is the part of *amqp.Channel the producer needs.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

// PublishDispatch sends d to the automations exchange as persistent JSON.
func (p *RabbitMQProducer) PublishDispatch(ctx context.Context, d entity.Dispatch) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode dispatch: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    d.LeadID + "/" + d.At.Format("20060102T150405.000000000"),
			Type:         d.Trigger,
		},
	)
	if err != nil {
		return fmt.Errorf("publish dispatch: %w", err)
	}
	return nil
}
