package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.RecordStore = (*RecordStore)(nil)

// Postgres error codes the store translates.
const (
	codeUndefinedTable      = "42P01"
	codeUndefinedColumn     = "42703"
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRepr     = "22P02"
)

// RecordStore maps tables onto Postgres relations of the same name.
type RecordStore struct {
	db  *Connection
	now func() time.Time
}

func NewRecordStore(db *Connection) *RecordStore {
	return &RecordStore{db: db, now: time.Now}
}

func (s *RecordStore) Find(ctx context.Context, table string, filters ...domain.Filter) ([]domain.Record, error) {
	if err := domain.CheckIdentifiers(table, filters, nil); err != nil {
		return nil, err
	}

	query, args := buildSelect(table, filters)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		if isCode(err, codeUndefinedTable, codeUndefinedColumn) {
			return []domain.Record{}, nil
		}
		return nil, storeError("find", table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		if isCode(err, codeUndefinedTable, codeUndefinedColumn) {
			return []domain.Record{}, nil
		}
		return nil, storeError("find", table, err)
	}

	out := make([]domain.Record, len(maps))
	for i, m := range maps {
		out[i] = domain.Record(m)
	}
	return out, nil
}

func (s *RecordStore) Insert(ctx context.Context, table string, rec domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(table, nil, rec); err != nil {
		return nil, err
	}

	row := rec.Clone()
	if row == nil {
		row = domain.Record{}
	}
	if row.ID() == "" {
		row[domain.FieldID] = uuid.NewString()
	}
	now := s.now().UTC()
	row[domain.FieldCreatedAt] = now
	row[domain.FieldUpdatedAt] = now

	query, args := buildInsert(table, row)
	created, err := s.queryOne(ctx, query, args)
	if err != nil {
		return nil, storeError("insert", table, err)
	}
	return created, nil
}

func (s *RecordStore) Update(ctx context.Context, table, id string, patch domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(table, nil, patch); err != nil {
		return nil, err
	}

	changes := patch.Without(domain.FieldID, domain.FieldCreatedAt)
	changes[domain.FieldUpdatedAt] = s.now().UTC()

	query, args := buildUpdate(table, id, changes)
	updated, err := s.queryOne(ctx, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isCode(err, codeUndefinedTable) {
			return nil, nil
		}
		return nil, storeError("update", table, err)
	}
	return updated, nil
}

func (s *RecordStore) Delete(ctx context.Context, table, id string) (bool, error) {
	if err := domain.CheckIdentifiers(table, nil, nil); err != nil {
		return false, err
	}

	query, args := buildDelete(table, id)
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		if isCode(err, codeUndefinedTable) {
			return false, nil
		}
		return false, storeError("delete", table, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *RecordStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreFailure, err)
	}
	return nil
}

func (s *RecordStore) queryOne(ctx context.Context, query string, args []any) (domain.Record, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	return domain.Record(m), nil
}

func isCode(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, c := range codes {
		if pgErr.Code == c {
			return true
		}
	}
	return false
}

// storeError classifies a driver error. A unique violation is a conflict,
// other constraint and type violations are the caller's fault, everything
// else is a store failure. Rejections keep the driver error out of Error().
func storeError(op, table string, err error) error {
	switch {
	case isCode(err, codeUniqueViolation):
		return domain.Reject(domain.ErrConflict, op, table, err)
	case isCode(err, codeForeignKeyViolation, codeInvalidTextRepr, codeUndefinedColumn):
		return domain.Reject(domain.ErrInvalidInput, op, table, err)
	}
	return fmt.Errorf("%s %s: %w: %w", op, table, domain.ErrStoreFailure, err)
}
