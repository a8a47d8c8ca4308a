package catalog

import (
	"context"

	"storefront/domain"
)

type Repository interface {
	GetTopLevelCategories(ctx context.Context) ([]domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error)
	GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetActiveProduct(ctx context.Context, id int64) (domain.Product, error)
	IncrementClickCount(ctx context.Context, id int64) error
	GetBrands(ctx context.Context) ([]string, error)
}
