package ports

import (
	"context"

	"github.com/profitum/platform-api/internal/core/domain"
)

// RecordStore is uniform CRUD over named tables. A missing table or row is an
// empty result, never an error; driver failures wrap domain.ErrStoreFailure.
type RecordStore interface {
	// Find returns every row of table matching all filters.
	Find(ctx context.Context, table string, filters ...domain.Filter) ([]domain.Record, error)
	// Insert stores rec, assigning id and timestamps when absent.
	Insert(ctx context.Context, table string, rec domain.Record) (domain.Record, error)
	// Update merges patch into the row with the given id. It returns nil, nil
	// when no such row exists.
	Update(ctx context.Context, table, id string, patch domain.Record) (domain.Record, error)
	// Delete removes the row and reports whether one matched.
	Delete(ctx context.Context, table, id string) (bool, error)
	Ping(ctx context.Context) error
}
