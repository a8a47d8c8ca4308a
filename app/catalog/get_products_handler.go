package catalog

import (
	"context"
	"strings"

	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"

	"github.com/shopspring/decimal"
)

type GetProductsHandler struct {
	repository Repository
}

func NewGetProductsHandler(repository Repository) *GetProductsHandler {
	return &GetProductsHandler{
		repository: repository,
	}
}

type GetProductsRequest struct {
	Category string `query:"category" validate:"omitempty,max=120"`
	MinPrice string `query:"minPrice" validate:"omitempty,numeric"`
	MaxPrice string `query:"maxPrice" validate:"omitempty,numeric"`
	Brand    string `query:"brand" validate:"omitempty,max=120"`
}

type GetProductsResponse []domain.Product

func (r GetProductsRequest) filter() (domain.ProductFilter, error) {
	f := domain.ProductFilter{
		Category: strings.TrimSpace(r.Category),
		Brand:    r.Brand,
	}

	bounds := []struct {
		field string
		raw   string
		dst   **decimal.Decimal
	}{
		{"minPrice", r.MinPrice, &f.MinPrice},
		{"maxPrice", r.MaxPrice, &f.MaxPrice},
	}

	for _, b := range bounds {
		if b.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(b.raw)
		if err != nil {
			return f, httperror.BadRequest(
				"product.index.validation_failed",
				"Validation failed for the request",
				map[string]string{b.field: "numeric"},
			)
		}
		*b.dst = &d
	}

	return f, nil
}

func (h GetProductsHandler) Handle(ctx context.Context, req *GetProductsRequest) (*GetProductsResponse, error) {
	if err := validation.Struct("product.index", req); err != nil {
		return nil, err
	}

	filter, err := req.filter()
	if err != nil {
		return nil, err
	}

	products, err := h.repository.GetProducts(ctx, filter)
	if err != nil {
		return nil, httperror.InternalServerError(
			"product.index.failed",
			"Failed to retrieve products",
			nil,
		)
	}

	res := GetProductsResponse(products)
	return &res, nil
}
