package admin

import (
	"errors"
	"strings"

	"storefront/domain"
	"storefront/pkg/httperror"
	"storefront/pkg/validation"

	"github.com/shopspring/decimal"
)

// priceScale matches the NUMERIC(12, 2) price column.
const priceScale = 2

// ProductForm is the body of product create and update requests.
type ProductForm struct {
	Name        string          `json:"name" validate:"notblank,max=200"`
	Description *string         `json:"description" validate:"omitempty,max=5000"`
	Price       decimal.Decimal `json:"price" validate:"required,gt=0,lte=9999999999.99"`
	ImageURL    *string         `json:"image_url" validate:"omitempty,url,max=2048"`
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Brand       *string         `json:"brand" validate:"omitempty,max=120"`
}

// Draft normalizes the form; blank optional strings are stored as NULL.
func (f ProductForm) Draft() domain.ProductDraft {
	return domain.ProductDraft{
		Name:        strings.TrimSpace(f.Name),
		Description: nullable(f.Description),
		Price:       f.Price,
		ImageURL:    nullable(f.ImageURL),
		CategoryID:  f.CategoryID,
		Brand:       nullable(f.Brand),
	}
}

// validateForm runs the struct rules on req and rejects prices with more
// decimal places than the store keeps, so a price is never silently rounded.
func validateForm(scope string, req any, form ProductForm) error {
	err := validation.Struct(scope, req)
	if form.Price.Equal(form.Price.Truncate(priceScale)) {
		return err
	}

	details := map[string]string{}
	if err != nil {
		var herr *httperror.Error
		if !errors.As(err, &herr) {
			return err
		}
		fields, ok := herr.Details.(map[string]string)
		if !ok {
			return err
		}
		details = fields
	}
	if _, reported := details["price"]; !reported {
		details["price"] = "max_scale"
	}

	return httperror.BadRequest(
		scope+".validation_failed",
		"Validation failed for the request",
		details,
	)
}

// productWriteFailure turns repository errors caused by bad input into a 400.
func productWriteFailure(scope string, err error) (*httperror.Error, bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownCategory):
		return httperror.BadRequest(
			scope+".unknown_category",
			"Category does not exist",
			map[string]string{"category_id": "exists"},
		), true
	case errors.Is(err, domain.ErrInvalidProduct):
		return httperror.BadRequest(
			scope+".invalid_product",
			"Product values were rejected by the store",
			nil,
		), true
	}
	return nil, false
}

func nullable(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
