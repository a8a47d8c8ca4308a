package checkout

import (
	"context"

	"storefront/domain"
)

type Repository interface {
	GetActiveProduct(ctx context.Context, id int64) (domain.Product, error)
}
