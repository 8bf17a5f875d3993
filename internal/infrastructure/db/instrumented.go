package db

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.RecordStore = (*InstrumentedStore)(nil)

// InstrumentedStore times every call and logs store failures. Constraint
// rejections are logged with the driver cause, which never leaves the server.
type InstrumentedStore struct {
	next   ports.RecordStore
	logger zerolog.Logger
}

func Instrument(next ports.RecordStore, logger zerolog.Logger) *InstrumentedStore {
	return &InstrumentedStore{next: next, logger: logger}
}

func (s *InstrumentedStore) Find(ctx context.Context, table string, filters ...domain.Filter) ([]domain.Record, error) {
	start := time.Now()
	rows, err := s.next.Find(ctx, table, filters...)
	s.observe(table, "find", start, err)
	return rows, err
}

func (s *InstrumentedStore) Insert(ctx context.Context, table string, rec domain.Record) (domain.Record, error) {
	start := time.Now()
	row, err := s.next.Insert(ctx, table, rec)
	s.observe(table, "insert", start, err)
	return row, err
}

func (s *InstrumentedStore) Update(ctx context.Context, table, id string, patch domain.Record) (domain.Record, error) {
	start := time.Now()
	row, err := s.next.Update(ctx, table, id, patch)
	s.observe(table, "update", start, err)
	return row, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, table, id string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Delete(ctx, table, id)
	s.observe(table, "delete", start, err)
	return ok, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("", "ping", start, err)
	return err
}

func (s *InstrumentedStore) observe(table, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreOperationDuration.WithLabelValues(table, op, result).Observe(elapsed.Seconds())

	var rej *domain.StoreRejection
	if errors.As(err, &rej) {
		s.logger.Warn().Err(rej.Cause).
			Str("table", table).
			Str("op", op).
			Str("kind", domain.ErrorCode(rej.Kind)).
			Msg("record store rejected write")
		return
	}
	if err != nil && errors.Is(err, domain.ErrStoreFailure) {
		s.logger.Error().Err(err).
			Str("table", table).
			Str("op", op).
			Dur("elapsed", elapsed).
			Msg("record store failure")
	}
}
