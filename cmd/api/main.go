package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/hecms/internal/config"
	"github.com/xavierca1/hecms/internal/infra/database"
	"github.com/xavierca1/hecms/internal/infra/http/handlers"
	"github.com/xavierca1/hecms/internal/infra/mail"
	"github.com/xavierca1/hecms/internal/infra/queue"
	"github.com/xavierca1/hecms/internal/infra/worker"
	"github.com/xavierca1/hecms/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	blobs, closer, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("store (%s): %v", cfg.StoreDriver, err)
	}
	defer closer.Close()

	// 2. Delivery
	outbox, err := mail.NewOutboxSender(cfg.OutboxDir, cfg.MailFrom)
	if err != nil {
		log.Fatalf("outbox: %v", err)
	}

	var publisher usecase.DispatchPublisher = directPublisher{deliverer: outbox}
	var rabbitConn *amqp091.Connection
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("rabbitmq: %v", err)
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)

		// 3. Worker (consumes dispatches and writes them to the outbox)
		dispatchWorker := queue.NewWorker(rabbitMQ.Ch, outbox)
		dispatchWorker.OnResult = recordDelivery
		go func() {
			if err := dispatchWorker.Start(ctx, queue.QueueName); err != nil {
				log.Printf("[WORKER] %v", err)
			}
		}()
	}

	// 4. Engine
	engine, err := usecase.Open(ctx, blobs, usecase.Options{
		Strict:    cfg.StrictEnums,
		SeedDemo:  cfg.SeedDemo,
		Publisher: publisher,
	})
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	go worker.NewPipelineGaugeWorker(engine, cfg.PipelineGaugeInterval).Start(ctx)

	// 5. Router
	r := handlers.NewRouter(engine, handlers.RouterConfig{
		AllowedOrigins:   cfg.AllowedOrigins,
		CaptureRateLimit: cfg.CaptureRateLimit,
		Health:           handlers.NewHealthHandler(engine, cfg.StoreDriver, rabbitConn),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[HTTP] lead engine listening on %s (store=%s)", cfg.HTTPAddr, cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[HTTP] %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("[HTTP] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[HTTP] shutdown: %v", err)
	}
}
