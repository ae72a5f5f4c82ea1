// Package database provides database access for the Eventure API.
// It implements a connection pool, transaction management and health checks.
package database

import (
	"context"
	"database/sql"
)

// Executor is the subset of *sql.DB and *sql.Tx used by repositories.
// Repository methods that must join a caller's transaction accept it.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Transactor runs fn inside a transaction. *Pool implements it.
type Transactor interface {
	Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// HealthChecker reports whether the database is reachable. *Pool implements it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

var (
	_ Executor      = (*sql.DB)(nil)
	_ Executor      = (*sql.Tx)(nil)
	_ Transactor    = (*Pool)(nil)
	_ HealthChecker = (*Pool)(nil)
)
