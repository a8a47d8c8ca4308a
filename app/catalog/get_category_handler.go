package catalog

import (
	"context"
	"database/sql"
	"errors"

	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"
)

type GetCategoryHandler struct {
	repository Repository
}

func NewGetCategoryHandler(repository Repository) *GetCategoryHandler {
	return &GetCategoryHandler{
		repository: repository,
	}
}

type GetCategoryRequest struct {
	Slug string `params:"slug" validate:"required,max=120"`
}

type GetCategoryResponse = domain.Category

func (h GetCategoryHandler) Handle(ctx context.Context, req *GetCategoryRequest) (*GetCategoryResponse, error) {
	if err := validation.Struct("category.show", req); err != nil {
		return nil, err
	}

	category, err := h.repository.GetCategoryBySlug(ctx, req.Slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"category.show.not_found",
				"Category not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.show.failed",
			"Failed to retrieve category",
			nil,
		)
	}

	return &category, nil
}
