// Package history records per-generation fitness statistics of training runs.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"birdsim/internal/ga"
)

// Record is one finished generation of one run.
type Record struct {
	RunID      string
	Generation int
	Stats      ga.Statistics
	RecordedAt time.Time
}

// Store persists generation records.
type Store interface {
	Init(ctx context.Context) error
	Append(ctx context.Context, record Record) error
	List(ctx context.Context, runID string) ([]Record, error)
	Runs(ctx context.Context) ([]string, error)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// NewStore picks a backend by name.
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath), nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
