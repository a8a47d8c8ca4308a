package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"storefront/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const handleTimeout = 30 * time.Second

// EventHandler processes one decoded event. A returned error dead-letters the message.
type EventHandler func(ctx context.Context, event *events.Event) error

type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queueName   string
	serviceName string
	workers     int
}

type ConsumerConfig struct {
	Exchange       string   // e.g., "storefront.product"
	QueueName      string   // e.g., "storefront.product.activity.v1"
	RoutingKeys    []string // e.g., ["product.*.v1"]
	ServiceName    string   // consumer tag
	PrefetchCount  int      // 0 = 10
	WorkerPoolSize int      // 0 = 1
}

func NewConsumer(url string, config ConsumerConfig) (*Consumer, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(channel, config); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	zap.L().Info("RabbitMQ consumer created",
		zap.String("queue", config.QueueName),
		zap.String("exchange", config.Exchange),
		zap.Strings("routingKeys", config.RoutingKeys),
	)

	return &Consumer{
		conn:        conn,
		channel:     channel,
		queueName:   config.QueueName,
		serviceName: config.ServiceName,
		workers:     max(config.WorkerPoolSize, 1),
	}, nil
}

// declareTopology sets QoS and declares the exchange, the queue and a
// dead-letter exchange/queue pair bound with the same routing keys.
func declareTopology(ch *amqp.Channel, config ConsumerConfig) error {
	prefetch := config.PrefetchCount
	if prefetch == 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	dlx := config.Exchange + ".dlx"
	dlq := config.QueueName + ".dlq"

	for _, exchange := range []string{config.Exchange, dlx} {
		if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
		}
	}

	queueArgs := amqp.Table{"x-dead-letter-exchange": dlx}
	if _, err := ch.QueueDeclare(config.QueueName, true, false, false, false, queueArgs); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if _, err := ch.QueueDeclare(dlq, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare DLQ: %w", err)
	}

	for _, key := range config.RoutingKeys {
		if err := ch.QueueBind(dlq, key, dlx, false, nil); err != nil {
			return fmt.Errorf("failed to bind DLQ: %w", err)
		}
		if err := ch.QueueBind(config.QueueName, key, config.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue: %w", err)
		}
	}

	return nil
}

// Consume dispatches deliveries to a pool of workers until ctx is cancelled
// or the delivery channel closes.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	msgs, err := c.channel.Consume(
		c.queueName,
		c.serviceName,
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	zap.L().Info("Started consuming messages",
		zap.String("queue", c.queueName),
		zap.Int("workers", c.workers),
	)

	errs := make(chan error, c.workers)
	var wg sync.WaitGroup

	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.work(ctx, msgs, handler)
		}()
	}

	wg.Wait()
	close(errs)

	return <-errs
}

func (c *Consumer) work(ctx context.Context, msgs <-chan amqp.Delivery, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				zap.L().Warn("Message channel closed")
				return fmt.Errorf("message channel closed")
			}

			c.handleMessage(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, handler EventHandler) {
	traceID, _ := msg.Headers["x-trace-id"].(string)
	service, _ := msg.Headers["x-service"].(string)

	logger := zap.L().With(
		zap.String("queue", c.queueName),
		zap.String("routingKey", msg.RoutingKey),
		zap.String("traceId", traceID),
		zap.String("sourceService", service),
	)

	var event events.Event
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.Error("Failed to unmarshal event", zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	// A delivery already taken off the queue is finished even during
	// shutdown; handleTimeout still bounds it.
	processCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
	defer cancel()

	if err := handler(processCtx, &event); err != nil {
		logger.Error("Failed to process event", zap.String("event", event.Event), zap.Error(err))
		_ = msg.Nack(false, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		logger.Error("Failed to acknowledge message", zap.Error(err))
		return
	}

	logger.Debug("Processed event", zap.String("event", event.Event))
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ consumer closed")
	return nil
}
