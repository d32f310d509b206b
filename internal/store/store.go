// Package store persists recipe records in a single keyed collection.
//
// Every backend offers the same per-record operations: an unconditional put,
// a point lookup, a full unordered scan, an update of title and ingredients on
// an existing key, and an idempotent delete. No operation spans more than one
// record.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pageza/recipebox/backend/internal/model"
)

// ErrNotFound is returned by Get and Update when no record has the given id
var ErrNotFound = errors.New("recipe not found")

// RecipeStore is implemented by every storage backend
type RecipeStore interface {
	// Put writes the record, replacing any record with the same id
	Put(ctx context.Context, recipe *model.Recipe) error
	// Get returns the record with the given id or ErrNotFound
	Get(ctx context.Context, id string) (*model.Recipe, error)
	// Scan returns every record in backend order
	Scan(ctx context.Context) ([]model.Recipe, error)
	// Update sets title and ingredients of an existing record or returns ErrNotFound
	Update(ctx context.Context, id string, title string, ingredients []string) error
	// Delete removes the record; a missing id is not an error
	Delete(ctx context.Context, id string) error
	// Ping reports whether the backend is reachable
	Ping(ctx context.Context) error
}

// Backend names accepted by configuration
const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// DefaultTableName is used when no table name is configured
const DefaultTableName = "Recipes"

// nowFunc is replaced in tests
var nowFunc = func() time.Time { return time.Now().UTC() }
