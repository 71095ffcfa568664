package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/hecms/internal/entity"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockDeliverer struct {
	mock.Mock
}

func (m *MockDeliverer) Deliver(ctx context.Context, d entity.Dispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func sampleDispatch() entity.Dispatch {
	return entity.Dispatch{
		LeadID:        "lead-1",
		Name:          "Brianna Ng",
		Email:         "bri.ng@example.com",
		Template:      "Welcome Email",
		PreviousStage: entity.StageLead,
		Stage:         entity.StageApplied,
		Trigger:       entity.TriggerStageChange,
		At:            time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublishDispatch(t *testing.T) {
	pub := new(MockPublisher)
	d := sampleDispatch()

	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got entity.Dispatch
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.ContentType == "application/json" &&
				msg.DeliveryMode == amqp.Persistent &&
				got.LeadID == d.LeadID && got.Template == d.Template && got.Stage == d.Stage
		})).Return(nil)

	err := NewProducer(pub).PublishDispatch(context.Background(), d)

	assert.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestPublishDispatchError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := NewProducer(pub).PublishDispatch(context.Background(), sampleDispatch())

	assert.ErrorContains(t, err, "channel closed")
}

func TestWorkerProcessDelivers(t *testing.T) {
	deliverer := new(MockDeliverer)
	d := sampleDispatch()
	deliverer.On("Deliver", mock.Anything, d).Return(nil)

	var results []error
	w := &Worker{Deliverer: deliverer, OnResult: func(_ entity.Dispatch, err error) { results = append(results, err) }}

	body, err := json.Marshal(d)
	require.NoError(t, err)

	assert.NoError(t, w.Process(context.Background(), body))
	deliverer.AssertExpectations(t)
	assert.Equal(t, []error{nil}, results)
}

func TestWorkerProcessRejectsMalformed(t *testing.T) {
	deliverer := new(MockDeliverer)
	w := &Worker{Deliverer: deliverer}

	err := w.Process(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)

	body, _ := json.Marshal(entity.Dispatch{LeadID: "x", Template: "t"})
	err = w.Process(context.Background(), body)
	assert.ErrorIs(t, err, ErrMalformed)

	deliverer.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestWorkerProcessDeliveryError(t *testing.T) {
	deliverer := new(MockDeliverer)
	deliverer.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	w := &Worker{Deliverer: deliverer}

	body, _ := json.Marshal(sampleDispatch())
	err := w.Process(context.Background(), body)

	assert.ErrorContains(t, err, "disk full")
	assert.NotErrorIs(t, err, ErrMalformed)
}
