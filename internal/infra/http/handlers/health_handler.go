package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Pinger is anything whose storage can be checked.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store       Pinger
	StoreDriver string
	RabbitMQ    *amqp091.Connection
	StartTime   time.Time
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store Pinger, storeDriver string, rabbitMQ *amqp091.Connection) *HealthHandler {
	return &HealthHandler{
		Store:       store,
		StoreDriver: storeDriver,
		RabbitMQ:    rabbitMQ,
		StartTime:   time.Now(),
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deps := make(map[string]string)

	// Check store
	if h.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.Store.Ping(ctx)
		cancel()
		if err != nil {
			deps["store"] = fmt.Sprintf("unhealthy: %v", err)
		} else {
			deps["store"] = "healthy"
		}
	} else {
		deps["store"] = "not configured"
	}

	// Check RabbitMQ
	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	status := "healthy"
	for _, v := range deps {
		if v != "healthy" && v != "not configured" {
			status = "degraded"
			break
		}
	}

	if h.StoreDriver != "" {
		deps["store_driver"] = h.StoreDriver
	}

	response := HealthResponse{
		Status:       status,
		Version:      "1.0.0",
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	}

	code := http.StatusOK
	if status == "degraded" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, response)
}
