package consumers

import (
	"context"
	"errors"
	"fmt"

	"storefront/domain"
	"storefront/pkg/events"

	"go.uber.org/zap"
)

var ErrMalformedEvent = errors.New("malformed product event")

type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity domain.ProductActivity) error
}

// ProductActivityHandler turns product lifecycle events into activity rows.
// Redelivered events are absorbed by the (trace_id, event) uniqueness.
type ProductActivityHandler struct {
	recorder ActivityRecorder
}

func NewProductActivityHandler(recorder ActivityRecorder) *ProductActivityHandler {
	return &ProductActivityHandler{
		recorder: recorder,
	}
}

func (h *ProductActivityHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	zap.L().Info("Product event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.ProductCreatedEvent, events.ProductUpdatedEvent, events.ProductDeletedEvent:
	default:
		zap.L().Warn("Unknown product event type", zap.String("event", event.Event))
		return nil
	}

	var ref events.ProductRef
	if err := event.DecodePayload(&ref); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ref.ID <= 0 {
		return fmt.Errorf("%w: product id missing or invalid", ErrMalformedEvent)
	}
	if event.TraceID == "" {
		return fmt.Errorf("%w: trace id missing", ErrMalformedEvent)
	}

	activity := domain.ProductActivity{
		ProductID:  ref.ID,
		Event:      event.Event,
		TraceID:    event.TraceID,
		OccurredAt: event.Timestamp,
	}

	if err := h.recorder.RecordActivity(ctx, activity); err != nil {
		return fmt.Errorf("failed to record activity for product %d: %w", ref.ID, err)
	}

	zap.L().Info("Product activity recorded",
		zap.Int64("productId", ref.ID),
		zap.String("event", event.Event),
		zap.String("traceId", event.TraceID),
	)

	return nil
}
