package admin

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront/domain"
	"storefront/pkg/events"
)

var errStore = errors.New("connection refused")

type memoryRepository struct {
	mu       sync.Mutex
	admins   []domain.AdminUser
	products []domain.Product
	activity []domain.ProductActivity
	nextID   int64
	topLevel int
	err      error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{nextID: 1, topLevel: 3}
}

func (m *memoryRepository) GetAdminUserByEmail(_ context.Context, email string) (domain.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.AdminUser{}, m.err
	}
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.AdminUser{}, sql.ErrNoRows
}

func (m *memoryRepository) GetAllProducts(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]domain.Product{}, m.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memoryRepository) CreateProduct(_ context.Context, draft domain.ProductDraft) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Product{}, m.err
	}
	now := time.Now().UTC()
	p := domain.Product{
		ID:          m.nextID,
		Name:        draft.Name,
		Description: draft.Description,
		Price:       draft.Price,
		ImageURL:    draft.ImageURL,
		CategoryID:  draft.CategoryID,
		Brand:       draft.Brand,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.nextID++
	m.products = append(m.products, p)
	return p, nil
}

func (m *memoryRepository) find(id int64) *domain.Product {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i]
		}
	}
	return nil
}

func (m *memoryRepository) UpdateProduct(_ context.Context, id int64, draft domain.ProductDraft) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	p := m.find(id)
	if p == nil {
		return false, nil
	}
	p.Name = draft.Name
	p.Description = draft.Description
	p.Price = draft.Price
	p.ImageURL = draft.ImageURL
	p.CategoryID = draft.CategoryID
	p.Brand = draft.Brand
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *memoryRepository) DeactivateProduct(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	p := m.find(id)
	if p == nil {
		return false, nil
	}
	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *memoryRepository) GetTopClickedProducts(_ context.Context, limit int) ([]domain.ProductClick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.ProductClick, 0)
	for _, p := range m.products {
		if p.ClickCount > 0 {
			out = append(out, domain.ProductClick{ID: p.ID, Name: p.Name, ClickCount: p.ClickCount})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClickCount > out[j].ClickCount })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRepository) CountActiveProducts(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	n := 0
	for _, p := range m.products {
		if p.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memoryRepository) CountTopLevelCategories(context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.topLevel, nil
}

func (m *memoryRepository) GetActivity(_ context.Context, limit int) ([]domain.ProductActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := append([]domain.ProductActivity{}, m.activity...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, exchange string, event *events.Event, _ events.Headers) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if exchange != events.ProductExchange {
		return errors.New("unexpected exchange " + exchange)
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event)
	}
	return out
}

type memoryImageStore struct {
	objects map[string][]byte
	err     error
}

func (s *memoryImageStore) Upload(key string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.objects == nil {
		s.objects = map[string][]byte{}
	}
	s.objects[key] = data
	return nil
}

func (s *memoryImageStore) URL(key string) string {
	return "https://cdn.example.com/" + key
}

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(email string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + email, nil
}
