package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/infra/postgres"
	"storefront/infra/rabbitmq"
	"storefront/internal/consumers"
	"storefront/pkg/config"
	"storefront/pkg/events"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	zapConfig := zap.NewDevelopmentConfig()
	zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, _ := zapConfig.Build()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	zap.L().Info("Storefront activity worker starting...")

	appConfig := config.Read()
	zap.L().Info("Worker config loaded", zap.String("serviceName", appConfig.ServiceName))

	if appConfig.RabbitMQURL == "" {
		zap.L().Fatal("RABBITMQ_URL is required for worker service")
	}

	pgRepository := postgres.NewPgRepository(
		appConfig.PostgresHost,
		appConfig.PostgresDatabase,
		appConfig.PostgresUsername,
		appConfig.PostgresPassword,
		appConfig.PostgresPort,
		appConfig.PostgresSSLMode,
	)
	defer pgRepository.Close()

	activityHandler := consumers.NewProductActivityHandler(pgRepository)

	// Queue name: {service}.{domain}.{purpose}.{version}
	consumerConfig := rabbitmq.ConsumerConfig{
		Exchange:       events.ProductExchange,
		QueueName:      appConfig.ServiceName + ".product.activity.v1",
		RoutingKeys:    []string{"product.*." + events.EventVersionV1},
		ServiceName:    appConfig.ServiceName,
		PrefetchCount:  10,
		WorkerPoolSize: 4,
	}

	consumer, err := rabbitmq.NewConsumer(appConfig.RabbitMQURL, consumerConfig)
	if err != nil {
		zap.L().Fatal("Failed to create product consumer", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := runConsumer(ctx, consumer, activityHandler.HandleEvent)

	go monitorPool(ctx, pgRepository)

	zap.L().Info("Worker service started successfully. Waiting for events...",
		zap.String("exchange", consumerConfig.Exchange),
		zap.String("queue", consumerConfig.QueueName),
	)

	<-sigChan
	zap.L().Info("Shutdown signal received, stopping worker service...")
	cancel()

	if !awaitConsumer(done, drainTimeout) {
		zap.L().Warn("Consumer did not stop in time, closing connections anyway",
			zap.Duration("timeout", drainTimeout))
	}

	zap.L().Info("Worker service stopped gracefully")
}

// drainTimeout covers one in-flight delivery finishing after shutdown starts.
const drainTimeout = 35 * time.Second

type eventConsumer interface {
	Consume(ctx context.Context, handler rabbitmq.EventHandler) error
}

// runConsumer consumes in the background. The returned channel is closed
// once Consume has returned and every in-flight delivery is settled.
func runConsumer(ctx context.Context, consumer eventConsumer, handler rabbitmq.EventHandler) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		zap.L().Info("Starting product event consumer...")
		if err := consumer.Consume(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				zap.L().Error("Product consumer error", zap.Error(err))
			}
		}
	}()

	return done
}

// awaitConsumer reports whether done closed within timeout.
func awaitConsumer(done <-chan struct{}, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

func monitorPool(ctx context.Context, pgRepository *postgres.PgRepository) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := pgRepository.GetPoolStats()
			zap.L().Info("Connection pool stats",
				zap.Int("max_open", stats["max_open_connections"].(int)),
				zap.Int("open", stats["open_connections"].(int)),
				zap.Int("in_use", stats["in_use"].(int)),
				zap.Int("idle", stats["idle"].(int)),
				zap.Int64("wait_count", stats["wait_count"].(int64)),
				zap.Int64("wait_duration_ms", stats["wait_duration_ms"].(int64)),
			)
		}
	}
}
