package repository

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql used by the repositories. It is
// satisfied by both *sql.DB and *sql.Tx, so the same repository code runs
// standalone or bound to a transaction scope.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
