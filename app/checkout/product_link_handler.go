package checkout

import (
	"context"
	"database/sql"
	"errors"

	"storefront/pkg/httperror"
	"storefront/pkg/validation"
)

type ProductLinkHandler struct {
	repository Repository
	phone      string
}

func NewProductLinkHandler(repository Repository, phone string) *ProductLinkHandler {
	return &ProductLinkHandler{
		repository: repository,
		phone:      phone,
	}
}

type ProductLinkRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

type ProductLinkResponse struct {
	URL string `json:"url"`
}

func (h ProductLinkHandler) Handle(ctx context.Context, req *ProductLinkRequest) (*ProductLinkResponse, error) {
	if err := validation.Struct("checkout.product_link", req); err != nil {
		return nil, err
	}

	product, err := h.repository.GetActiveProduct(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"checkout.product_link.not_found",
				"Product not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"checkout.product_link.failed",
			"Failed to build product link",
			nil,
		)
	}

	return &ProductLinkResponse{
		URL: WhatsAppLink(h.phone, ProductMessage(product.Name)),
	}, nil
}
