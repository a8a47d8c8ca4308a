package admin

import (
	"context"

	"storefront/domain"
)

type Repository interface {
	GetAdminUserByEmail(ctx context.Context, email string) (domain.AdminUser, error)
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, draft domain.ProductDraft) (bool, error)
	DeactivateProduct(ctx context.Context, id int64) (bool, error)
	GetTopClickedProducts(ctx context.Context, limit int) ([]domain.ProductClick, error)
	CountActiveProducts(ctx context.Context) (int, error)
	CountTopLevelCategories(ctx context.Context) (int, error)
	GetActivity(ctx context.Context, limit int) ([]domain.ProductActivity, error)
}

type TokenIssuer interface {
	Issue(email string) (string, error)
}

// ImageStore keeps uploaded product images and knows their public URL.
type ImageStore interface {
	Upload(key string, data []byte) error
	URL(key string) string
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
