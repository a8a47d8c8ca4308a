package admin

import (
	"context"

	"storefront/domain"
	"storefront/pkg/httperror"
)

const topClickedLimit = 10

type GetAnalyticsHandler struct {
	repository Repository
}

func NewGetAnalyticsHandler(repository Repository) *GetAnalyticsHandler {
	return &GetAnalyticsHandler{
		repository: repository,
	}
}

type GetAnalyticsRequest struct{}

type GetAnalyticsResponse = domain.Analytics

func (h GetAnalyticsHandler) Handle(ctx context.Context, _ *GetAnalyticsRequest) (*GetAnalyticsResponse, error) {
	clicks, err := h.repository.GetTopClickedProducts(ctx, topClickedLimit)
	if err != nil {
		return nil, analyticsFailed("admin.analytics.clicks_failed")
	}

	totalProducts, err := h.repository.CountActiveProducts(ctx)
	if err != nil {
		return nil, analyticsFailed("admin.analytics.count_products_failed")
	}

	totalCategories, err := h.repository.CountTopLevelCategories(ctx)
	if err != nil {
		return nil, analyticsFailed("admin.analytics.count_categories_failed")
	}

	return &GetAnalyticsResponse{
		ProductClicks:   clicks,
		TotalProducts:   totalProducts,
		TotalCategories: totalCategories,
	}, nil
}

func analyticsFailed(code string) error {
	return httperror.InternalServerError(code, "Failed to compute analytics", nil)
}
