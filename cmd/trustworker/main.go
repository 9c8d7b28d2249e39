package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"courtfinder/internal/trust"
	"courtfinder/internal/trust/repository"
	"courtfinder/pkg/config"
	"courtfinder/pkg/contracts"
	"courtfinder/pkg/kafka"
	kafka_config "courtfinder/pkg/kafka/config"
	kafka_middleware "courtfinder/pkg/kafka/middleware"
)

const ServiceName = "trust-worker"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting trust worker")

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	worker := trust.NewWorker(repository.NewMongoTrustRepository(cfg), cfg)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		contracts.TopicReviewEvents,
		trust.ConsumerGroup,
		contracts.TopicReviewEventsDLQ,
		worker.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(kafka_middleware.MetricsConsumerMiddleware(kafka_middleware.NewMetrics()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Warn("Failed to close Kafka consumer", "error", err)
	}

	cfg.Log.Info("Trust worker stopped")
}
