package domain

import "time"

// ProductActivity is one product lifecycle event as recorded by the worker.
type ProductActivity struct {
	ID         int64     `db:"id" json:"id"`
	ProductID  int64     `db:"product_id" json:"product_id"`
	Event      string    `db:"event" json:"event"`
	TraceID    string    `db:"trace_id" json:"trace_id"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}
