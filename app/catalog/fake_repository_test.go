package catalog

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"storefront/domain"

	"github.com/shopspring/decimal"
)

// memoryRepository mimics the Postgres queries closely enough to check the
// handlers' contracts.
type memoryRepository struct {
	mu         sync.Mutex
	categories []domain.Category
	products   []domain.Product
	err        error
}

func ptr[T any](v T) *T { return &v }

func newCatalogFixture() *memoryRepository {
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	return &memoryRepository{
		categories: []domain.Category{
			{ID: 1, Name: "Semi Joias", Slug: "semi-joias", DisplayOrder: 1},
			{ID: 2, Name: "Perfumes", Slug: "perfumes", DisplayOrder: 2},
			{ID: 8, Name: "Anéis", Slug: "aneis", ParentID: ptr(int64(1)), DisplayOrder: 1},
			{ID: 9, Name: "Brincos", Slug: "brincos", ParentID: ptr(int64(1)), DisplayOrder: 2},
		},
		products: []domain.Product{
			{ID: 1, Name: "Colar Pérola", CategoryID: 1, Price: decimal.RequireFromString("120.00"), Brand: ptr("Rommanel"), IsActive: true, CreatedAt: base},
			{ID: 2, Name: "Anel Rose", CategoryID: 8, Price: decimal.RequireFromString("89.90"), Brand: ptr("Rommanel"), IsActive: true, CreatedAt: base.Add(time.Hour)},
			{ID: 3, Name: "Brinco Gota", CategoryID: 9, Price: decimal.RequireFromString("50.00"), Brand: ptr("Vivara"), IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
			{ID: 4, Name: "Anel Antigo", CategoryID: 8, Price: decimal.RequireFromString("70.00"), Brand: ptr("Antiga"), IsActive: false, CreatedAt: base.Add(3 * time.Hour)},
			{ID: 5, Name: "Perfume Flor", CategoryID: 2, Price: decimal.RequireFromString("100.00"), IsActive: true, CreatedAt: base.Add(4 * time.Hour)},
		},
	}
}

func (m *memoryRepository) category(id int64) (domain.Category, bool) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (m *memoryRepository) inTree(p domain.Product, slug string) bool {
	c, ok := m.category(p.CategoryID)
	if !ok {
		return false
	}
	if c.Slug == slug {
		return true
	}
	if c.ParentID == nil {
		return false
	}
	parent, ok := m.category(*c.ParentID)
	return ok && parent.Slug == slug
}

func (m *memoryRepository) GetTopLevelCategories(context.Context) ([]domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Category, 0)
	for _, c := range m.categories {
		if c.ParentID != nil {
			continue
		}
		c.Subcategories = []domain.Subcategory{}
		for _, child := range m.categories {
			if child.ParentID != nil && *child.ParentID == c.ID {
				c.Subcategories = append(c.Subcategories, domain.Subcategory{ID: child.ID, Name: child.Name, Slug: child.Slug})
			}
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *memoryRepository) GetCategoryBySlug(_ context.Context, slug string) (domain.Category, error) {
	if m.err != nil {
		return domain.Category{}, m.err
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return domain.Category{}, sql.ErrNoRows
}

func (m *memoryRepository) GetProducts(_ context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Product, 0)
	for _, p := range m.products {
		if !matchesFilter(f, p) {
			continue
		}
		if f.Category != "" && !m.inTree(p, f.Category) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepository) GetActiveProduct(_ context.Context, id int64) (domain.Product, error) {
	if m.err != nil {
		return domain.Product{}, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.products {
		if p.ID == id && p.IsActive {
			return p, nil
		}
	}
	return domain.Product{}, sql.ErrNoRows
}

func (m *memoryRepository) IncrementClickCount(_ context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.products {
		if m.products[i].ID == id {
			m.products[i].ClickCount++
		}
	}
	return nil
}

func (m *memoryRepository) GetBrands(context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, p := range m.products {
		if p.IsActive && p.Brand != nil && !seen[*p.Brand] {
			seen[*p.Brand] = true
			out = append(out, *p.Brand)
		}
	}
	sort.Strings(out)
	return out, nil
}

// matchesFilter applies every predicate except the category one, which needs
// the category tree.
func matchesFilter(f domain.ProductFilter, p domain.Product) bool {
	if !p.IsActive {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return f.Brand == "" || (p.Brand != nil && *p.Brand == f.Brand)
}
