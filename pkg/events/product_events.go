package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductDomain   = "product"
	ProductExchange = "storefront.product"
)

const (
	ProductCreatedEvent = "product.created"
	ProductUpdatedEvent = "product.updated"
	ProductDeletedEvent = "product.deleted"
)

const (
	EventVersionV1 = "v1"
)

// ProductCreatedPayload represents the payload for product.created event
type ProductCreatedPayload struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"categoryId"`
	Brand      *string         `json:"brand"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ProductUpdatedPayload represents the payload for product.updated event
type ProductUpdatedPayload struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"categoryId"`
	Brand      *string         `json:"brand"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type ProductDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

// ProductRef is the part every product payload shares; consumers decode into it.
type ProductRef struct {
	ID int64 `json:"id"`
}
