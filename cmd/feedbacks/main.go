package main

import (
	"os"

	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/handler"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/service"
	"github.com/KillerWBI/ToolsBackEnd/internal/feedbacks/validator"
	"github.com/KillerWBI/ToolsBackEnd/pkg/app"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	kafka_config "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/config"
	kafka_middleware "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/middleware"
)

const ServiceName = "feedbacks"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Feedbacks service")

	publisher := initPublisher(cfg)
	defer publisher.Close()

	feedbackService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewFeedbackHandler(feedbackService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.FeedbackService {
	feedbackRepo := repository.NewMongoFeedbackRepository(cfg)
	toolRepo := repository.NewToolRatingRepository(cfg)
	feedbackValidator := validator.NewFeedbackValidator(cfg.Log)

	feedbackService := service.NewFeedbackService(
		feedbackRepo,
		toolRepo,
		feedbackValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Feedback service initialized", "database", cfg.MongoDatabaseName)
	return feedbackService
}

func initPublisher(cfg *config.Config) events.Publisher {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Warn("KAFKA_BROKERS not set, rental events will not be published")
		return events.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), events.TopicRentalEvents, events.TopicRentalEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", events.TopicRentalEvents)
	return events.NewPublisher(producer, ServiceName, cfg.Log)
}
