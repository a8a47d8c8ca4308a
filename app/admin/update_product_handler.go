package admin

import (
	"context"
	"time"

	"storefront/pkg/events"
	"storefront/pkg/httperror"

	"go.uber.org/zap"
)

type UpdateProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	service        string
}

func NewUpdateProductHandler(repository Repository, eventPublisher events.Publisher, service string) *UpdateProductHandler {
	return &UpdateProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

type UpdateProductRequest struct {
	ID int64 `params:"id" json:"-" validate:"gt=0"`
	ProductForm
}

// Handle overwrites every editable field. An unknown id is reported as
// success, matching the delete route; only real changes emit an event.
func (h UpdateProductHandler) Handle(ctx context.Context, req *UpdateProductRequest) (*SuccessResponse, error) {
	if err := validateForm("admin.product.update", req, req.ProductForm); err != nil {
		return nil, err
	}

	draft := req.Draft()

	found, err := h.repository.UpdateProduct(ctx, req.ID, draft)
	if err != nil {
		if badInput, ok := productWriteFailure("admin.product.update", err); ok {
			return nil, badInput
		}
		zap.L().Error("Failed to update product", zap.Int64("productId", req.ID), zap.Error(err))
		return nil, httperror.InternalServerError(
			"admin.product.update.failed",
			"An error occurred while updating the product",
			nil,
		)
	}

	if !found {
		zap.L().Info("Update targeted a missing product", zap.Int64("productId", req.ID))
		return &SuccessResponse{Success: true}, nil
	}

	publishProductEvent(ctx, h.eventPublisher, h.service, events.ProductUpdatedEvent, req.ID, events.ProductUpdatedPayload{
		ID:         req.ID,
		Name:       draft.Name,
		Price:      draft.Price,
		CategoryID: draft.CategoryID,
		Brand:      draft.Brand,
		UpdatedAt:  time.Now().UTC(),
	})

	return &SuccessResponse{Success: true}, nil
}
