package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/pkg/events"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// confirmation is the broker's answer for one published message.
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// Publisher implements events.Publisher over a single confirm-mode channel.
// Every message carries its own deferred confirmation, so a confirm that
// arrives after its publish timed out can never be read as another
// message's answer.
type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	service string
	timeout time.Duration

	declare func(exchange string) error
	send    func(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error)

	mu       sync.Mutex
	declared map[string]bool
}

func NewPublisher(url, service string) (*Publisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Confirm(false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	zap.L().Info("RabbitMQ publisher connected", zap.String("service", service))

	p := &Publisher{
		conn:     conn,
		channel:  channel,
		service:  service,
		timeout:  publishTimeout,
		declared: make(map[string]bool),
	}
	p.declare = p.declareExchange
	p.send = p.publishDeferred

	return p, nil
}

// dial retries a few times with linear backoff; the broker often starts after us.
func dial(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		zap.L().Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i+1),
			zap.Error(err))
		time.Sleep(time.Second * time.Duration(i+1))
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
}

func (p *Publisher) declareExchange(exchange string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.declared[exchange] {
		return nil
	}

	err := p.channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	p.declared[exchange] = true
	return nil
}

func (p *Publisher) publishDeferred(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) (confirmation, error) {
	deferred, err := p.channel.PublishWithDeferredConfirmWithContext(ctx, exchange, routingKey, false, false, msg)
	if err != nil {
		return nil, err
	}
	if deferred == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return deferred, nil
}

// Publish sends the event persistently and waits for the broker's ack of
// that message.
func (p *Publisher) Publish(ctx context.Context, exchange string, event *events.Event, headers events.Headers) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.Timestamp,
		Headers: amqp.Table{
			"x-trace-id":       headers.TraceID,
			"x-correlation-id": headers.CorrelationID,
			"x-service":        p.service,
		},
	}

	if err := p.declare(exchange); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	routingKey := event.GetRoutingKey()
	confirm, err := p.send(publishCtx, exchange, routingKey, msg)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	acked, err := confirm.WaitContext(publishCtx)
	if err != nil {
		return fmt.Errorf("publish confirmation timeout: %w", err)
	}
	if !acked {
		return errors.New("message was not acknowledged by broker")
	}

	zap.L().Info("Event published",
		zap.String("exchange", exchange),
		zap.String("routingKey", routingKey),
		zap.String("traceId", headers.TraceID),
	)

	return nil
}

func (p *Publisher) IsHealthy() bool {
	if p == nil || p.conn == nil || p.channel == nil {
		return false
	}
	return !p.conn.IsClosed() && !p.channel.IsClosed()
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			zap.L().Error("Failed to close channel", zap.Error(err))
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			zap.L().Error("Failed to close connection", zap.Error(err))
			return err
		}
	}
	zap.L().Info("RabbitMQ publisher closed")
	return nil
}
