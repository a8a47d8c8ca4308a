package postgres

import (
	"strings"

	"storefront/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const productSelect = `
	SELECT p.*, c.name AS category_name, c.slug AS category_slug
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.id`

type predicate struct {
	clause string
	args   []any
}

// ProductQuery accumulates AND-combined predicates over the product listing.
// Values are always bound; clauses use '?' and are rebound for Postgres.
type ProductQuery struct {
	base       string
	predicates []predicate
	orderBy    string
}

func NewProductQuery() *ProductQuery {
	return &ProductQuery{
		base:    productSelect,
		orderBy: "p.created_at DESC, p.id DESC",
	}
}

func (q *ProductQuery) where(clause string, args ...any) *ProductQuery {
	q.predicates = append(q.predicates, predicate{clause: clause, args: args})
	return q
}

func (q *ProductQuery) ActiveOnly() *ProductQuery {
	return q.where("p.is_active = TRUE")
}

func (q *ProductQuery) ID(id int64) *ProductQuery {
	return q.where("p.id = ?", id)
}

// InCategoryTree keeps products whose category has the slug, or whose
// category's parent has it.
func (q *ProductQuery) InCategoryTree(slug string) *ProductQuery {
	return q.where("(c.slug = ? OR c.parent_id = (SELECT id FROM categories WHERE slug = ?))", slug, slug)
}

func (q *ProductQuery) PriceAtLeast(lower decimal.Decimal) *ProductQuery {
	return q.where("p.price >= ?", lower)
}

func (q *ProductQuery) PriceAtMost(upper decimal.Decimal) *ProductQuery {
	return q.where("p.price <= ?", upper)
}

func (q *ProductQuery) Brand(brand string) *ProductQuery {
	return q.where("p.brand = ?", brand)
}

func (q *ProductQuery) Apply(f domain.ProductFilter) *ProductQuery {
	if f.Category != "" {
		q.InCategoryTree(f.Category)
	}
	if f.MinPrice != nil {
		q.PriceAtLeast(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.PriceAtMost(*f.MaxPrice)
	}
	if f.Brand != "" {
		q.Brand(f.Brand)
	}
	return q
}

func (q *ProductQuery) ToSQL() (string, []any) {
	var sb strings.Builder
	sb.WriteString(q.base)

	args := make([]any, 0, len(q.predicates))
	for i, p := range q.predicates {
		if i == 0 {
			sb.WriteString("\n\tWHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(p.clause)
		args = append(args, p.args...)
	}

	if q.orderBy != "" {
		sb.WriteString("\n\tORDER BY ")
		sb.WriteString(q.orderBy)
	}

	return sqlx.Rebind(sqlx.DOLLAR, sb.String()), args
}
