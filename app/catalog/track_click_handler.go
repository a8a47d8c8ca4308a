package catalog

import (
	"context"

	"storefront/pkg/httperror"
	"storefront/pkg/validation"
)

type TrackClickHandler struct {
	repository Repository
}

func NewTrackClickHandler(repository Repository) *TrackClickHandler {
	return &TrackClickHandler{
		repository: repository,
	}
}

type TrackClickRequest struct {
	ID int64 `params:"id" validate:"gt=0"`
}

type TrackClickResponse struct {
	Success bool `json:"success"`
}

// Handle counts a click. Unknown or inactive ids are not an error.
func (h TrackClickHandler) Handle(ctx context.Context, req *TrackClickRequest) (*TrackClickResponse, error) {
	if err := validation.Struct("product.click", req); err != nil {
		return nil, err
	}

	if err := h.repository.IncrementClickCount(ctx, req.ID); err != nil {
		return nil, httperror.InternalServerError(
			"product.click.failed",
			"Failed to track click",
			nil,
		)
	}

	return &TrackClickResponse{Success: true}, nil
}
