package main

import (
	"courtfinder/internal/courts/handler"
	"courtfinder/internal/courts/overpass"
	"courtfinder/internal/courts/repository"
	"courtfinder/internal/courts/service"
	"courtfinder/internal/courts/validator"
	"courtfinder/pkg/app"
	"courtfinder/pkg/config"
)

const ServiceName = "courts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Courts service")
	courtService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewCourtHandler(courtService, cfg.Log))
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.CourtService {
	courtValidator := validator.NewCourtValidator(cfg.Log)
	courtRepo := repository.NewMongoCourtRepository(cfg)
	geoIndex := repository.NewRedisGeoIndex(cfg)
	upstream := overpass.NewClient(cfg.OverpassBaseURL, cfg.OverpassTimeout, cfg.Log)

	courtService := service.NewCourtService(
		courtRepo,
		geoIndex,
		upstream,
		courtValidator,
		cfg,
	)

	cfg.Log.Info("Court service initialized", "database", cfg.MongoDatabaseName)
	return courtService
}
