// Package repository persists the portal's records as JSON documents grouped
// in collections, on an in-memory, SQLite or PostgreSQL backend.
package repository

import (
	"context"
	"fmt"
	"strings"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DocStore is a keyed JSON document store.
type DocStore interface {
	// Put creates or replaces a document. Replacing keeps its list position.
	Put(ctx context.Context, collection, id string, body []byte) error
	// Insert creates a document and fails with ErrConflict if id exists.
	Insert(ctx context.Context, collection, id string, body []byte) error
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) ([]byte, error)
	// Delete removes a document; deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error
	// List returns every document of a collection in creation order.
	List(ctx context.Context, collection string) ([][]byte, error)
	// Count returns the number of documents in a collection.
	Count(ctx context.Context, collection string) (int, error)
	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// Open connects the store selected by driver and instruments it.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (DocStore, error) {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		s   DocStore
		err error
	)
	switch strings.ToLower(driver) {
	case "", DriverMemory:
		s, driver = NewMemoryStore(), DriverMemory
	case DriverSQLite:
		s, err = NewSQLiteStore(ctx, dsn)
	case DriverPostgres:
		s, err = NewPostgresStore(ctx, dsn, cfg.maxConns)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, driver), nil
}

func notFound(collection, id string) error {
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

func conflict(collection, id string) error {
	return fmt.Errorf("%s/%s: %w", collection, id, ErrConflict)
}
