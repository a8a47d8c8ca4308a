package admin

import (
	"context"

	"storefront/domain"
	"storefront/pkg/httperror"
)

type GetProductsHandler struct {
	repository Repository
}

func NewGetProductsHandler(repository Repository) *GetProductsHandler {
	return &GetProductsHandler{
		repository: repository,
	}
}

type GetProductsRequest struct{}

// GetProductsResponse includes soft-deleted products.
type GetProductsResponse []domain.Product

func (h GetProductsHandler) Handle(ctx context.Context, _ *GetProductsRequest) (*GetProductsResponse, error) {
	products, err := h.repository.GetAllProducts(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"admin.product.index.failed",
			"Failed to retrieve products",
			nil,
		)
	}

	res := GetProductsResponse(products)
	return &res, nil
}
