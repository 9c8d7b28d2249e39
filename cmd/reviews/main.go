package main

import (
	"courtfinder/internal/reviews/handler"
	"courtfinder/internal/reviews/repository"
	"courtfinder/internal/reviews/service"
	"courtfinder/internal/reviews/validator"
	"courtfinder/pkg/app"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	"courtfinder/pkg/kafka"
	kafka_config "courtfinder/pkg/kafka/config"
	kafka_middleware "courtfinder/pkg/kafka/middleware"
)

const ServiceName = "reviews"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reviews service")

	producer := initProducer(cfg)
	reviewService, voteService := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAPI(
		handler.NewReviewHandler(reviewService, cfg.Log),
		handler.NewVoteHandler(voteService, cfg.Log),
	))
	serverApp.OnShutdown(func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Warn("Failed to close Kafka producer", "error", err)
		}
		cfg.GracefulShutdown()
	})
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, contracts.TopicReviewEvents, contracts.TopicReviewEventsDLQ)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(kafka_middleware.NewMetrics()))

	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) (service.ReviewService, service.VoteService) {
	reviewValidator := validator.NewReviewValidator(cfg.Log)
	reviewRepo := repository.NewMongoReviewRepository(cfg)
	voteRepo := repository.NewMongoVoteRepository(cfg)
	userRepo := repository.NewMongoUserRepository(cfg)

	reviewService := service.NewReviewService(
		reviewRepo,
		voteRepo,
		userRepo,
		producer,
		reviewValidator,
		cfg,
	)
	voteService := service.NewVoteService(
		reviewRepo,
		voteRepo,
		producer,
		cfg,
	)

	cfg.Log.Info("Review services initialized", "database", cfg.MongoDatabaseName)
	return reviewService, voteService
}
