package domain

import "time"

type Category struct {
	ID            int64         `db:"id" json:"id"`
	Name          string        `db:"name" json:"name"`
	Slug          string        `db:"slug" json:"slug"`
	ParentID      *int64        `db:"parent_id" json:"parent_id"`
	DisplayOrder  int           `db:"display_order" json:"display_order"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
	Subcategories []Subcategory `db:"-" json:"subcategories"`
}

// Subcategory is the reduced form of a child category listed under its parent.
type Subcategory struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Slug string `db:"slug" json:"slug"`
}
