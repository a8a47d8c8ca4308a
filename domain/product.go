package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ImageURL    *string         `db:"image_url" json:"image_url"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	Brand       *string         `db:"brand" json:"brand"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	ClickCount  int64           `db:"click_count" json:"click_count"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`

	CategoryName *string `db:"category_name" json:"category_name,omitempty"`
	CategorySlug *string `db:"category_slug" json:"category_slug,omitempty"`
}

// ProductDraft holds the admin-editable fields of a product.
type ProductDraft struct {
	Name        string          `db:"name"`
	Description *string         `db:"description"`
	Price       decimal.Decimal `db:"price"`
	ImageURL    *string         `db:"image_url"`
	CategoryID  int64           `db:"category_id"`
	Brand       *string         `db:"brand"`
}

// ProductFilter narrows the public product listing. Zero values mean "no filter".
// Category matches the product's own category slug or its parent's slug.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Brand    string
}
