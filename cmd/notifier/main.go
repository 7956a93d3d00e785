package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/internal/notifier"
	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	kafka_config "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/config"
	kafka_middleware "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/middleware"
	"github.com/KillerWBI/ToolsBackEnd/pkg/logger"
)

const (
	ServiceName     = "notifier"
	ConsumerGroupID = "notifier-group"
)

func main() {
	log := logger.New(logger.Config{
		Level:     os.Getenv("LOG_LEVEL"),
		Format:    logger.JSON,
		AddSource: true,
		Service:   ServiceName,
	})

	log.Info("Starting Notifier service")

	handler := notifier.New(log)
	consumer, err := kafka.NewConsumer(
		kafka_config.Load(),
		events.TopicRentalEvents,
		ConsumerGroupID,
		events.TopicRentalEventsDLQ,
		handler.HandleMessage,
	)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Consuming rental events", "topic", events.TopicRentalEvents, "group_id", ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}
	log.Info("Notifier stopped gracefully")
}
