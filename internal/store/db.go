package store

import (
	"context"
	"database/sql"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx, allowing store
// implementations to run either directly against a connection pool or
// inside a transaction managed by the caller.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
