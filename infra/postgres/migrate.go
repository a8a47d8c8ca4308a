package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema.sql
var schema string

// Statements splits the embedded schema into individual DDL statements.
func Statements() []string {
	parts := strings.Split(strings.ReplaceAll(schema, "\r\n", "\n"), ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}

// Migrate applies the schema in a single transaction. Every statement is
// idempotent, so running it against an up-to-date database is a no-op.
func (r *PgRepository) Migrate(ctx context.Context) (int, error) {
	stmts := Statements()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return 0, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return len(stmts), nil
}
