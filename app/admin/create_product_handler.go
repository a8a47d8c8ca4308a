package admin

import (
	"context"

	"storefront/pkg/events"
	"storefront/pkg/httperror"

	"go.uber.org/zap"
)

type CreateProductHandler struct {
	repository     Repository
	eventPublisher events.Publisher
	service        string
}

func NewCreateProductHandler(repository Repository, eventPublisher events.Publisher, service string) *CreateProductHandler {
	return &CreateProductHandler{
		repository:     repository,
		eventPublisher: eventPublisher,
		service:        service,
	}
}

type CreateProductRequest struct {
	ProductForm
}

type CreateProductResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

func (h CreateProductHandler) Handle(ctx context.Context, req *CreateProductRequest) (*CreateProductResponse, error) {
	if err := validateForm("admin.product.create", req, req.ProductForm); err != nil {
		return nil, err
	}

	product, err := h.repository.CreateProduct(ctx, req.Draft())
	if err != nil {
		if badInput, ok := productWriteFailure("admin.product.create", err); ok {
			return nil, badInput
		}
		zap.L().Error("Failed to insert product", zap.Error(err))
		return nil, httperror.InternalServerError(
			"admin.product.create.failed",
			"An error occurred while creating the product",
			nil,
		)
	}

	publishProductEvent(ctx, h.eventPublisher, h.service, events.ProductCreatedEvent, product.ID, events.ProductCreatedPayload{
		ID:         product.ID,
		Name:       product.Name,
		Price:      product.Price,
		CategoryID: product.CategoryID,
		Brand:      product.Brand,
		CreatedAt:  product.CreatedAt,
	})

	return &CreateProductResponse{
		Success: true,
		ID:      product.ID,
	}, nil
}
