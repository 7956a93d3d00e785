package main

import (
	"os"

	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/availability"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/handler"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/service"
	"github.com/KillerWBI/ToolsBackEnd/internal/bookings/validator"
	"github.com/KillerWBI/ToolsBackEnd/internal/events"
	"github.com/KillerWBI/ToolsBackEnd/pkg/app"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
	"github.com/KillerWBI/ToolsBackEnd/pkg/kafka"
	kafka_config "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/config"
	kafka_middleware "github.com/KillerWBI/ToolsBackEnd/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher := initPublisher(cfg)
	defer publisher.Close()

	bookingService := initServices(cfg, publisher)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	toolRepo := repository.NewToolReservationRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)

	guard := availability.NewGuard(toolRepo, lockRepo, cfg)
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxBookingDays)

	bookingService := service.NewBookingService(
		bookingRepo,
		toolRepo,
		guard,
		bookingValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

// initPublisher falls back to a no-op publisher when no broker is
// configured, so the service runs without Kafka in local setups.
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
