package checkout

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"storefront/pkg/httperror"
	"storefront/pkg/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WhatsAppCheckoutHandler struct {
	repository Repository
	phone      string
}

func NewWhatsAppCheckoutHandler(repository Repository, phone string) *WhatsAppCheckoutHandler {
	return &WhatsAppCheckoutHandler{
		repository: repository,
		phone:      phone,
	}
}

type CheckoutItem struct {
	ProductID int64 `json:"product_id" validate:"gt=0"`
	Quantity  int   `json:"quantity" validate:"gte=1,lte=999"`
}

type WhatsAppCheckoutRequest struct {
	Items []CheckoutItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type WhatsAppCheckoutResponse struct {
	Success bool            `json:"success"`
	URL     string          `json:"url"`
	Message string          `json:"message"`
	Total   decimal.Decimal `json:"total"`
}

// Handle prices the cart from the store, never from the client.
func (h WhatsAppCheckoutHandler) Handle(ctx context.Context, req *WhatsAppCheckoutRequest) (*WhatsAppCheckoutResponse, error) {
	if err := validation.Struct("checkout.whatsapp", req); err != nil {
		return nil, err
	}

	cart := NewCart()
	for _, item := range req.Items {
		product, err := h.repository.GetActiveProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, httperror.NotFound(
					"checkout.whatsapp.product_not_found",
					"Product not found",
					map[string]string{"product_id": strconv.FormatInt(item.ProductID, 10)},
				)
			}

			zap.L().Error("Failed to load product for checkout", zap.Int64("productId", item.ProductID), zap.Error(err))
			return nil, httperror.InternalServerError(
				"checkout.whatsapp.failed",
				"Failed to build checkout link",
				nil,
			)
		}

		cart.Add(product, item.Quantity)
	}

	message := OrderMessage(cart)

	return &WhatsAppCheckoutResponse{
		Success: true,
		URL:     WhatsAppLink(h.phone, message),
		Message: message,
		Total:   cart.Total(),
	}, nil
}
