package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeremyjsx/portfolio/internal/config"
	"github.com/jeremyjsx/portfolio/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := config.Load()
	if cfg.RabbitMQURL == "" {
		logger.Error("RABBITMQ_URL is required")
		os.Exit(1)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", "error", err)
		os.Exit(1)
	}
	defer ch.Close()

	queue, err := events.DeclareViewQueue(ch)
	if err != nil {
		logger.Error("failed to declare queue", "error", err)
		os.Exit(1)
	}

	deliveries, err := ch.Consume(queue, "analytics-worker", false, false, false, false, nil)
	if err != nil {
		logger.Error("failed to start consuming", "error", err)
		os.Exit(1)
	}

	logger.Info("analytics worker started", "queue", queue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-quit:
			logger.Info("worker shutting down")
			return
		case d, ok := <-deliveries:
			if !ok {
				logger.Warn("delivery channel closed")
				return
			}
			handlePostViewed(logger, d)
		}
	}
}

func handlePostViewed(logger *slog.Logger, d amqp.Delivery) {
	e, err := events.DecodePostViewed(d.Body)
	if errors.Is(err, events.ErrUnexpectedType) {
		logger.Debug("ignoring event type", "type", d.Type)
		_ = d.Ack(false)
		return
	}
	if err != nil {
		logger.Error("invalid event body", "error", err)
		_ = d.Nack(false, false)
		return
	}

	logger.Info("post viewed", "event_id", e.ID, "post_id", e.Payload.PostID, "views", e.Payload.Views)
	if events.IsMilestone(e.Payload.Views) {
		logger.Info("view milestone reached", "post_id", e.Payload.PostID, "views", e.Payload.Views)
	}

	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack", "error", err)
	}
}
