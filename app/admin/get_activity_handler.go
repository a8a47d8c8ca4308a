package admin

import (
	"context"

	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"
)

const defaultActivityLimit = 50

type GetActivityHandler struct {
	repository Repository
}

func NewGetActivityHandler(repository Repository) *GetActivityHandler {
	return &GetActivityHandler{
		repository: repository,
	}
}

type GetActivityRequest struct {
	Limit int `query:"limit" validate:"omitempty,gte=1,lte=200"`
}

type GetActivityResponse []domain.ProductActivity

func (h GetActivityHandler) Handle(ctx context.Context, req *GetActivityRequest) (*GetActivityResponse, error) {
	if err := validation.Struct("admin.activity.index", req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = defaultActivityLimit
	}

	activity, err := h.repository.GetActivity(ctx, limit)
	if err != nil {
		return nil, httperror.InternalServerError(
			"admin.activity.index.failed",
			"Failed to retrieve activity",
			nil,
		)
	}

	res := GetActivityResponse(activity)
	return &res, nil
}
