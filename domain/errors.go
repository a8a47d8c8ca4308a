package domain

import "errors"

var (
	// ErrUnknownCategory is returned when a product references a category that does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidProduct is returned when the store rejects product values, such as a price it cannot hold.
	ErrInvalidProduct = errors.New("invalid product")
)
