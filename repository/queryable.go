package repository

import (
	"context"
	"errors"
	"fmt"

	"wordler/service"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Queryable is the part of pgx shared by the pool and a transaction, so a
// repository runs unchanged inside or outside a unit of work
type Queryable interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

// mapWriteError turns a unique violation into service.ErrConflict and wraps
// everything else
func mapWriteError(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %s", service.ErrConflict, action, pgErr.ConstraintName)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
