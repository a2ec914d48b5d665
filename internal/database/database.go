// Package database provides the database abstraction layer for Settleline.
//
// It defines the Database interface that abstracts SurrealDB operations so
// repositories stay decoupled from the driver. Three query methods cover the
// access patterns:
//   - Query: multiple results (SELECT returning lists)
//   - QueryOne: single result (SELECT by id)
//   - Execute: no return value (CREATE/UPDATE/DELETE mutations)
//
// # Atomic batches
//
// Multi-statement writes (bulk order updates, notification fan-out) use
// AtomicBatch from transaction.go: statements accumulate in memory and are
// wrapped in BEGIN TRANSACTION / COMMIT TRANSACTION at execute time, so all
// of them succeed or fail together. There is no isolation between Add()
// calls before Execute().
//
// # Error handling
//
// Standard errors cover the common failure cases; check with errors.Is():
//
//	if errors.Is(err, database.ErrNotFound) {
//	    // handle missing record
//	}
package database

import (
	"context"
	"errors"
)

// Standard errors for database operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a unique constraint violation (e.g., duplicate email).
	ErrDuplicate = errors.New("duplicate record")

	// ErrConnection indicates a failure to connect to or communicate with the database.
	ErrConnection = errors.New("database connection error")

	// ErrQuery indicates a query execution failure (syntax error, invalid reference, etc.).
	ErrQuery = errors.New("query error")
)

// Database defines the interface for database operations
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Close() error
	Ping(ctx context.Context) error

	// Query executes a query and returns results
	Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error)

	// QueryOne executes a query and returns a single result
	QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error)

	// Execute runs a query without returning results (for mutations)
	Execute(ctx context.Context, query string, vars map[string]interface{}) error
}

// Config holds database configuration
type Config struct {
	Host      string
	Port      string
	User      string
	Password  string
	Namespace string
	Database  string
}
