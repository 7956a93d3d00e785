package main

import (
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/handler"
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/repository"
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/service"
	"github.com/KillerWBI/ToolsBackEnd/internal/tools/validator"
	"github.com/KillerWBI/ToolsBackEnd/pkg/app"
	"github.com/KillerWBI/ToolsBackEnd/pkg/config"
)

const ServiceName = "tools"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Tools service")

	toolService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewToolHandler(toolService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ToolService {
	toolRepo := repository.NewMongoToolRepository(cfg)
	bookingCounter := repository.NewBookingCounter(cfg)
	toolValidator := validator.NewToolValidator(cfg.Log)

	toolService := service.NewToolService(
		toolRepo,
		bookingCounter,
		toolValidator,
		cfg,
	)

	cfg.Log.Info("Tool service initialized", "database", cfg.MongoDatabaseName)
	return toolService
}
