package catalog

import (
	"context"

	"storefront/pkg/httperror"
)

type GetBrandsHandler struct {
	repository Repository
}

func NewGetBrandsHandler(repository Repository) *GetBrandsHandler {
	return &GetBrandsHandler{
		repository: repository,
	}
}

type GetBrandsRequest struct{}

type GetBrandsResponse []string

func (h GetBrandsHandler) Handle(ctx context.Context, _ *GetBrandsRequest) (*GetBrandsResponse, error) {
	brands, err := h.repository.GetBrands(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"brand.index.failed",
			"Failed to retrieve brands",
			nil,
		)
	}

	res := GetBrandsResponse(brands)
	return &res, nil
}
