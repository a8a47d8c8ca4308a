package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"storefront/domain"
	"storefront/pkg/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validForm() ProductForm {
	return ProductForm{
		Name:        "  Colar Pérola  ",
		Description: ptr(""),
		Price:       decimal.RequireFromString("129.90"),
		ImageURL:    ptr("https://cdn.example.com/colar.jpg"),
		CategoryID:  1,
		Brand:       ptr("Rommanel"),
	}
}

func TestProductFormDraftNormalizesBlankStrings(t *testing.T) {
	draft := validForm().Draft()

	assert.Equal(t, "Colar Pérola", draft.Name)
	assert.Nil(t, draft.Description)
	require.NotNil(t, draft.Brand)
	assert.Equal(t, "Rommanel", *draft.Brand)
}

func TestCreateProduct(t *testing.T) {
	repo := newMemoryRepository()
	publisher := &recordingPublisher{}
	h := NewCreateProductHandler(repo, publisher, "storefront")

	res, err := h.Handle(context.Background(), &CreateProductRequest{ProductForm: validForm()})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, int64(1), res.ID)

	created := repo.products[0]
	assert.True(t, created.IsActive)
	assert.Zero(t, created.ClickCount)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("129.9")))
	assert.Equal(t, []string{events.ProductCreatedEvent}, publisher.names())
}

func TestCreateProductValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProductForm)
		field  string
		rule   string
	}{
		{name: "blank name", mutate: func(f *ProductForm) { f.Name = "   " }, field: "name", rule: "notblank"},
		{name: "zero price", mutate: func(f *ProductForm) { f.Price = decimal.Zero }, field: "price", rule: "required"},
		{name: "negative price", mutate: func(f *ProductForm) { f.Price = decimal.NewFromInt(-3) }, field: "price", rule: "gt"},
		{name: "missing category", mutate: func(f *ProductForm) { f.CategoryID = 0 }, field: "category_id", rule: "required"},
		{name: "bad image url", mutate: func(f *ProductForm) { f.ImageURL = ptr("not a url") }, field: "image_url", rule: "url"},
		{name: "sub-cent price", mutate: func(f *ProductForm) { f.Price = decimal.RequireFromString("89.999") }, field: "price", rule: "max_scale"},
		{name: "tiny price", mutate: func(f *ProductForm) { f.Price = decimal.RequireFromString("0.001") }, field: "price", rule: "max_scale"},
		{name: "price beyond column", mutate: func(f *ProductForm) { f.Price = decimal.RequireFromString("10000000000") }, field: "price", rule: "lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			publisher := &recordingPublisher{}
			h := NewCreateProductHandler(repo, publisher, "storefront")

			form := validForm()
			tt.mutate(&form)

			_, err := h.Handle(context.Background(), &CreateProductRequest{ProductForm: form})
			httpErr := requireStatus(t, err, http.StatusBadRequest)

			details, ok := httpErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.rule, details[tt.field])
			assert.Empty(t, repo.products)
			assert.Empty(t, publisher.names())
		})
	}
}

func TestProductFormKeepsEveryFieldError(t *testing.T) {
	form := validForm()
	form.Name = ""
	form.Price = decimal.RequireFromString("12.345")

	err := validateForm("admin.product.create", &CreateProductRequest{ProductForm: form}, form)
	httpErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "admin.product.create.validation_failed", httpErr.Code)
	assert.Equal(t, map[string]string{"name": "notblank", "price": "max_scale"}, httpErr.Details)
}

func TestProductFormAcceptsTrailingZeros(t *testing.T) {
	form := validForm()
	form.Price = decimal.RequireFromString("129.900")

	assert.NoError(t, validateForm("admin.product.create", &CreateProductRequest{ProductForm: form}, form))
}

func TestProductWritesRejectedByStoreAreBadRequests(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "unknown category", err: fmt.Errorf("%w: products_category_id_fkey", domain.ErrUnknownCategory), code: "unknown_category"},
		{name: "constraint violation", err: fmt.Errorf("%w: numeric field overflow", domain.ErrInvalidProduct), code: "invalid_product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryRepository()
			publisher := &recordingPublisher{}
			repo.err = tt.err

			_, err := NewCreateProductHandler(repo, publisher, "storefront").
				Handle(context.Background(), &CreateProductRequest{ProductForm: validForm()})
			httpErr := requireStatus(t, err, http.StatusBadRequest)
			assert.Equal(t, "admin.product.create."+tt.code, httpErr.Code)

			_, err = NewUpdateProductHandler(repo, publisher, "storefront").
				Handle(context.Background(), &UpdateProductRequest{ID: 1, ProductForm: validForm()})
			httpErr = requireStatus(t, err, http.StatusBadRequest)
			assert.Equal(t, "admin.product.update."+tt.code, httpErr.Code)

			assert.Empty(t, publisher.names())
		})
	}
}

func TestCreateProductSurvivesPublisherFailure(t *testing.T) {
	repo := newMemoryRepository()
	h := NewCreateProductHandler(repo, &recordingPublisher{err: errors.New("broker down")}, "storefront")

	res, err := h.Handle(context.Background(), &CreateProductRequest{ProductForm: validForm()})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Len(t, repo.products, 1)
}

func TestCreateProductWithoutPublisher(t *testing.T) {
	h := NewCreateProductHandler(newMemoryRepository(), nil, "storefront")

	_, err := h.Handle(context.Background(), &CreateProductRequest{ProductForm: validForm()})
	require.NoError(t, err)
}

func TestCreateProductStoreFailure(t *testing.T) {
	repo := newMemoryRepository()
	repo.err = errStore
	h := NewCreateProductHandler(repo, nil, "storefront")

	_, err := h.Handle(context.Background(), &CreateProductRequest{ProductForm: validForm()})
	requireStatus(t, err, http.StatusInternalServerError)
}

func TestUpdateProduct(t *testing.T) {
	repo := newMemoryRepository()
	publisher := &recordingPublisher{}
	_, err := repo.CreateProduct(context.Background(), validForm().Draft())
	require.NoError(t, err)

	h := NewUpdateProductHandler(repo, publisher, "storefront")

	form := validForm()
	form.Name = "Colar Dourado"
	form.Brand = ptr("")

	res, err := h.Handle(context.Background(), &UpdateProductRequest{ID: 1, ProductForm: form})
	require.NoError(t, err)
	assert.True(t, res.Success)

	assert.Equal(t, "Colar Dourado", repo.products[0].Name)
	assert.Nil(t, repo.products[0].Brand)
	assert.Equal(t, []string{events.ProductUpdatedEvent}, publisher.names())
}

func TestUpdateMissingProductIsSilent(t *testing.T) {
	publisher := &recordingPublisher{}
	h := NewUpdateProductHandler(newMemoryRepository(), publisher, "storefront")

	res, err := h.Handle(context.Background(), &UpdateProductRequest{ID: 404, ProductForm: validForm()})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, publisher.names())
}

func TestUpdateProductRejectsInvalidID(t *testing.T) {
	h := NewUpdateProductHandler(newMemoryRepository(), nil, "storefront")

	_, err := h.Handle(context.Background(), &UpdateProductRequest{ID: 0, ProductForm: validForm()})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestDeleteProductIsSoft(t *testing.T) {
	repo := newMemoryRepository()
	publisher := &recordingPublisher{}
	_, err := repo.CreateProduct(context.Background(), validForm().Draft())
	require.NoError(t, err)

	h := NewDeleteProductHandler(repo, publisher, "storefront")

	res, err := h.Handle(context.Background(), &DeleteProductRequest{ID: 1})
	require.NoError(t, err)
	assert.True(t, res.Success)

	require.Len(t, repo.products, 1)
	assert.False(t, repo.products[0].IsActive)
	assert.Equal(t, []string{events.ProductDeletedEvent}, publisher.names())

	list, err := NewGetProductsHandler(repo).Handle(context.Background(), &GetProductsRequest{})
	require.NoError(t, err)
	assert.Len(t, *list, 1)
}

func TestDeleteMissingProductIsSilent(t *testing.T) {
	publisher := &recordingPublisher{}
	h := NewDeleteProductHandler(newMemoryRepository(), publisher, "storefront")

	res, err := h.Handle(context.Background(), &DeleteProductRequest{ID: 99})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, publisher.names())
}

func TestAnalytics(t *testing.T) {
	repo := newMemoryRepository()
	for i := 1; i <= 12; i++ {
		repo.products = append(repo.products, domain.Product{
			ID:         int64(i),
			Name:       "Produto",
			IsActive:   i != 12,
			ClickCount: int64(i - 1),
		})
	}

	res, err := NewGetAnalyticsHandler(repo).Handle(context.Background(), &GetAnalyticsRequest{})
	require.NoError(t, err)

	require.Len(t, res.ProductClicks, 10)
	assert.Equal(t, int64(12), res.ProductClicks[0].ID)
	for _, c := range res.ProductClicks {
		assert.Positive(t, c.ClickCount)
	}
	assert.Equal(t, 11, res.TotalProducts)
	assert.Equal(t, 3, res.TotalCategories)
}

func TestAnalyticsStoreFailure(t *testing.T) {
	repo := newMemoryRepository()
	repo.err = errStore

	_, err := NewGetAnalyticsHandler(repo).Handle(context.Background(), &GetAnalyticsRequest{})
	requireStatus(t, err, http.StatusInternalServerError)
}

func TestGetActivityLimits(t *testing.T) {
	repo := newMemoryRepository()
	for i := 0; i < 60; i++ {
		repo.activity = append(repo.activity, domain.ProductActivity{ID: int64(i + 1), ProductID: 1, Event: events.ProductUpdatedEvent})
	}
	h := NewGetActivityHandler(repo)

	res, err := h.Handle(context.Background(), &GetActivityRequest{})
	require.NoError(t, err)
	assert.Len(t, *res, defaultActivityLimit)

	res, err = h.Handle(context.Background(), &GetActivityRequest{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, *res, 5)

	_, err = h.Handle(context.Background(), &GetActivityRequest{Limit: 500})
	requireStatus(t, err, http.StatusBadRequest)
}
