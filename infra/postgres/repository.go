package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(host, database, user, password, port, sslMode string) *PgRepository {
	db := sqlx.MustConnect("postgres", fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslMode,
	))

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PgRepository{db: db}
}

// NewPgRepositoryFromDB wraps an existing handle, e.g. a sqlmock connection.
func NewPgRepositoryFromDB(db *sqlx.DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// GetPoolStats returns current connection pool statistics
func (r *PgRepository) GetPoolStats() map[string]interface{} {
	stats := r.db.Stats()
	return map[string]interface{}{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		"max_idle_closed":      stats.MaxIdleClosed,
		"max_lifetime_closed":  stats.MaxLifetimeClosed,
	}
}

type childCategory struct {
	domain.Subcategory
	ParentID int64 `db:"parent_id"`
}

func (r *PgRepository) GetTopLevelCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories WHERE parent_id IS NULL ORDER BY display_order, id`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	var children []childCategory
	query = `SELECT id, name, slug, parent_id FROM categories WHERE parent_id IS NOT NULL ORDER BY display_order, id`

	if err := r.db.SelectContext(ctx, &children, query); err != nil {
		return nil, err
	}

	byParent := make(map[int64][]domain.Subcategory, len(categories))
	for _, child := range children {
		byParent[child.ParentID] = append(byParent[child.ParentID], child.Subcategory)
	}

	for i := range categories {
		categories[i].Subcategories = byParent[categories[i].ID]
		if categories[i].Subcategories == nil {
			categories[i].Subcategories = []domain.Subcategory{}
		}
	}

	return categories, nil
}

func (r *PgRepository) GetCategoryBySlug(ctx context.Context, slug string) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE slug = $1`

	if err := r.db.GetContext(ctx, &c, query, slug); err != nil {
		return c, err
	}

	c.Subcategories = make([]domain.Subcategory, 0)
	query = `SELECT id, name, slug FROM categories WHERE parent_id = $1 ORDER BY display_order, id`

	if err := r.db.SelectContext(ctx, &c.Subcategories, query, c.ID); err != nil {
		return c, err
	}

	return c, nil
}

func (r *PgRepository) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	query, args := NewProductQuery().ActiveOnly().Apply(filter).ToSQL()

	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *PgRepository) GetActiveProduct(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	query, args := NewProductQuery().ID(id).ActiveOnly().ToSQL()

	err := r.db.GetContext(ctx, &p, query, args...)

	return p, err
}

// IncrementClickCount is a single atomic UPDATE; an unknown id affects no rows.
func (r *PgRepository) IncrementClickCount(ctx context.Context, id int64) error {
	query := `UPDATE products SET click_count = click_count + 1, updated_at = NOW() WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)

	return err
}

func (r *PgRepository) GetBrands(ctx context.Context) ([]string, error) {
	brands := make([]string, 0)
	query := `SELECT DISTINCT brand FROM products WHERE brand IS NOT NULL AND is_active = TRUE ORDER BY brand`

	if err := r.db.SelectContext(ctx, &brands, query); err != nil {
		return nil, err
	}

	return brands, nil
}

func (r *PgRepository) GetAdminUserByEmail(ctx context.Context, email string) (domain.AdminUser, error) {
	var u domain.AdminUser
	query := `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`

	err := r.db.GetContext(ctx, &u, query, email)

	return u, err
}

// UpsertAdminUser is used by the migrate command to seed the administrator.
func (r *PgRepository) UpsertAdminUser(ctx context.Context, email, passwordHash string) error {
	query := `
		INSERT INTO admin_users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash`

	_, err := r.db.ExecContext(ctx, query, email, passwordHash)

	return err
}

func (r *PgRepository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	products := make([]domain.Product, 0)
	query := `
		SELECT p.*, c.name AS category_name
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.id
		ORDER BY p.created_at DESC, p.id DESC`

	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *PgRepository) CreateProduct(ctx context.Context, draft domain.ProductDraft) (domain.Product, error) {
	var p domain.Product
	query := `
		INSERT INTO products (
			name, description, price, image_url, category_id, brand,
			is_active, click_count, created_at, updated_at
		) VALUES (
			:name, :description, :price, :image_url, :category_id, :brand,
			TRUE, 0, NOW(), NOW()
		) RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, draft)
	if err != nil {
		return p, productWriteError(err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return p, productWriteError(err)
		}
		return p, fmt.Errorf("insert product: no row returned")
	}

	err = rows.StructScan(&p)

	return p, err
}

// UpdateProduct reports whether a row with the id existed.
func (r *PgRepository) UpdateProduct(ctx context.Context, id int64, draft domain.ProductDraft) (bool, error) {
	query := `
		UPDATE products SET
			name = :name,
			description = :description,
			price = :price,
			image_url = :image_url,
			category_id = :category_id,
			brand = :brand,
			updated_at = NOW()
		WHERE id = :id`

	params := map[string]interface{}{
		"id":          id,
		"name":        draft.Name,
		"description": draft.Description,
		"price":       draft.Price,
		"image_url":   draft.ImageURL,
		"category_id": draft.CategoryID,
		"brand":       draft.Brand,
	}

	res, err := r.db.NamedExecContext(ctx, query, params)
	if err != nil {
		return false, productWriteError(err)
	}

	return affected(res)
}

// productWriteError maps constraint violations on the products table to
// domain errors; anything else is returned unchanged.
func productWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code.Name() {
	case "foreign_key_violation":
		return fmt.Errorf("%w: %s", domain.ErrUnknownCategory, pqErr.Constraint)
	case "check_violation", "numeric_value_out_of_range":
		return fmt.Errorf("%w: %s", domain.ErrInvalidProduct, pqErr.Message)
	}

	return err
}

// DeactivateProduct soft-deletes; the row is kept for history and analytics.
func (r *PgRepository) DeactivateProduct(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	return affected(res)
}

func (r *PgRepository) GetTopClickedProducts(ctx context.Context, limit int) ([]domain.ProductClick, error) {
	clicks := make([]domain.ProductClick, 0)
	query := `
		SELECT id, name, click_count FROM products
		WHERE click_count > 0
		ORDER BY click_count DESC, id
		LIMIT $1`

	if err := r.db.SelectContext(ctx, &clicks, query, limit); err != nil {
		return nil, err
	}

	return clicks, nil
}

func (r *PgRepository) CountActiveProducts(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE is_active = TRUE`

	err := r.db.GetContext(ctx, &count, query)

	return count, err
}

func (r *PgRepository) CountTopLevelCategories(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM categories WHERE parent_id IS NULL`

	err := r.db.GetContext(ctx, &count, query)

	return count, err
}

// RecordActivity is idempotent per (trace_id, event) so redelivered messages
// are not counted twice.
func (r *PgRepository) RecordActivity(ctx context.Context, activity domain.ProductActivity) error {
	query := `
		INSERT INTO product_activity (product_id, event, trace_id, occurred_at, recorded_at)
		VALUES (:product_id, :event, :trace_id, :occurred_at, NOW())
		ON CONFLICT (trace_id, event) DO NOTHING`

	_, err := r.db.NamedExecContext(ctx, query, activity)

	return err
}

func (r *PgRepository) GetActivity(ctx context.Context, limit int) ([]domain.ProductActivity, error) {
	activity := make([]domain.ProductActivity, 0)
	query := `SELECT * FROM product_activity ORDER BY recorded_at DESC, id DESC LIMIT $1`

	if err := r.db.SelectContext(ctx, &activity, query, limit); err != nil {
		return nil, err
	}

	return activity, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func affected(res rowsAffecter) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
