package admin

import (
	"context"

	"storefront/pkg/events"

	"go.uber.org/zap"
)

// publishProductEvent is best-effort: a broker failure is logged and never
// fails the request that caused it.
func publishProductEvent(ctx context.Context, publisher events.Publisher, service, name string, productID int64, payload any) {
	if publisher == nil {
		return
	}

	headers := events.NewHeaders(service)
	event := events.NewEvent(name, events.EventVersionV1, payload, headers)

	if err := publisher.Publish(ctx, events.ProductExchange, event, headers); err != nil {
		zap.L().Error("Failed to publish product event",
			zap.String("event", name),
			zap.Int64("productId", productID),
			zap.Error(err),
		)
	}
}
