package catalog

import (
	"context"
	"database/sql"
	"errors"

	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"
)

type GetProductHandler struct {
	repository Repository
}

func NewGetProductHandler(repository Repository) *GetProductHandler {
	return &GetProductHandler{
		repository: repository,
	}
}

type GetProductRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

type GetProductResponse = domain.Product

func (h GetProductHandler) Handle(ctx context.Context, req *GetProductRequest) (*GetProductResponse, error) {
	if err := validation.Struct("product.show", req); err != nil {
		return nil, err
	}

	product, err := h.repository.GetActiveProduct(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"product.show.not_found",
				"Product not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"product.show.failed",
			"Failed to retrieve product",
			nil,
		)
	}

	return &product, nil
}
