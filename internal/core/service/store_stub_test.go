package service

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/profitum/platform-api/internal/core/domain"
)

// stubStore is an in-memory RecordStore with failure injection.
type stubStore struct {
	tables map[string][]domain.Record
	seq    int
	err    error // if set, every call returns this error

	// unique maps a table to a field whose values must not repeat.
	unique map[string]string
	// beforeInsert runs once ahead of the next Insert, to interleave a
	// concurrent writer between a caller's read and its write.
	beforeInsert func()
}

func newStubStore() *stubStore {
	return &stubStore{tables: make(map[string][]domain.Record)}
}

func (s *stubStore) Find(_ context.Context, table string, filters ...domain.Filter) ([]domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Record
	for _, r := range s.tables[table] {
		if matches(r, filters) {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (s *stubStore) Insert(_ context.Context, table string, rec domain.Record) (domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	if hook := s.beforeInsert; hook != nil {
		s.beforeInsert = nil
		hook()
	}
	if field, ok := s.unique[table]; ok {
		for _, r := range s.tables[table] {
			if reflect.DeepEqual(r[field], rec[field]) {
				return nil, domain.Reject(domain.ErrConflict, "insert", table, fmt.Errorf("duplicate %s", field))
			}
		}
	}
	row := rec.Clone()
	s.seq++
	if row.ID() == "" {
		row[domain.FieldID] = fmt.Sprintf("%s-%d", table, s.seq)
	}
	// Distinct timestamps keep newest-first ordering deterministic.
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(s.seq) * time.Second)
	row[domain.FieldCreatedAt] = now
	row[domain.FieldUpdatedAt] = now
	s.tables[table] = append(s.tables[table], row)
	return row.Clone(), nil
}

func (s *stubStore) Update(_ context.Context, table, id string, patch domain.Record) (domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.tables[table] {
		if r.ID() == id {
			for k, v := range patch {
				r[k] = v
			}
			return r.Clone(), nil
		}
	}
	return nil, nil
}

func (s *stubStore) Delete(_ context.Context, table, id string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	rows := s.tables[table]
	for i, r := range rows {
		if r.ID() == id {
			s.tables[table] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) Ping(context.Context) error { return s.err }

func (s *stubStore) seed(table string, rec domain.Record) domain.Record {
	created, _ := s.Insert(context.Background(), table, rec)
	return created
}

func matches(r domain.Record, filters []domain.Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(r[f.Field], f.Value) {
			return false
		}
	}
	return true
}

type stubRevocations struct {
	revoked map[string]time.Time
}

func (r *stubRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if r.revoked == nil {
		r.revoked = make(map[string]time.Time)
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := r.revoked[tokenID]
	return ok, nil
}
