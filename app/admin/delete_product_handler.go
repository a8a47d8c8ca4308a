package admin

import (
	"context"
	"time"

	"storefront/pkg/events"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"

	"go.uber.org/zap"
)

type DeleteProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	service        string
}

func NewDeleteProductHandler(repository Repository, eventPublisher events.Publisher, service string) *DeleteProductHandler {
	return &DeleteProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

type DeleteProductRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

// Handle soft-deletes: the product leaves the storefront but stays in the
// admin listing and analytics.
func (h DeleteProductHandler) Handle(ctx context.Context, req *DeleteProductRequest) (*SuccessResponse, error) {
	if err := validation.Struct("admin.product.delete", req); err != nil {
		return nil, err
	}

	found, err := h.repository.DeactivateProduct(ctx, req.ID)
	if err != nil {
		zap.L().Error("Failed to deactivate product", zap.Int64("productId", req.ID), zap.Error(err))
		return nil, httperror.InternalServerError(
			"admin.product.delete.failed",
			"An error occurred while deleting the product",
			nil,
		)
	}

	if found {
		publishProductEvent(ctx, h.eventPublisher, h.service, events.ProductDeletedEvent, req.ID, events.ProductDeletedPayload{
			ID:        req.ID,
			DeletedAt: time.Now().UTC(),
		})
	}

	return &SuccessResponse{Success: true}, nil
}
