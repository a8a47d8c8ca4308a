package catalog

import (
	"context"

	"storefront/domain"
	"storefront/pkg/httperror"
)

type GetCategoriesHandler struct {
	repository Repository
}

func NewGetCategoriesHandler(repository Repository) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		repository: repository,
	}
}

type GetCategoriesRequest struct{}

// GetCategoriesResponse lists top-level categories with their children.
type GetCategoriesResponse []domain.Category

func (h GetCategoriesHandler) Handle(ctx context.Context, _ *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	categories, err := h.repository.GetTopLevelCategories(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.index.failed",
			"Failed to retrieve categories",
			nil,
		)
	}

	res := GetCategoriesResponse(categories)
	return &res, nil
}
