package memory

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.RecordStore = (*RecordStore)(nil)

// uniqueKeys mirrors the UNIQUE columns of the SQL schema and the unique
// Mongo indexes.
var uniqueKeys = map[string][]string{
	domain.TableClient:      {"email"},
	domain.TableExpert:      {"email"},
	domain.TablePreferences: {"user_id"},
}

type table struct {
	rows  map[string]domain.Record
	order []string
}

// RecordStore keeps tables in process memory. Rows are copied on the way in
// and out, so callers never share state with the store.
type RecordStore struct {
	mu     sync.RWMutex
	tables map[string]*table
	now    func() time.Time
}

func NewRecordStore() *RecordStore {
	return &RecordStore{tables: make(map[string]*table), now: time.Now}
}

func (s *RecordStore) Find(_ context.Context, name string, filters ...domain.Filter) ([]domain.Record, error) {
	if err := domain.CheckIdentifiers(name, filters, nil); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Record{}
	t, ok := s.tables[name]
	if !ok {
		return out, nil
	}
	for _, id := range t.order {
		row := t.rows[id]
		if matches(row, filters) {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

func (s *RecordStore) Insert(_ context.Context, name string, rec domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(name, nil, rec); err != nil {
		return nil, err
	}
	row := rec.Without()
	if row.ID() == "" {
		row[domain.FieldID] = uuid.NewString()
	}
	now := s.now().UTC()
	row[domain.FieldCreatedAt] = now
	row[domain.FieldUpdatedAt] = now

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		t = &table{rows: make(map[string]domain.Record)}
		s.tables[name] = t
	}
	id := row.ID()
	if _, exists := t.rows[id]; exists {
		return nil, domain.Reject(domain.ErrConflict, "insert", name, fmt.Errorf("duplicate id %q", id))
	}
	if err := t.checkUnique(name, id, row); err != nil {
		return nil, domain.Reject(domain.ErrConflict, "insert", name, err)
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return row.Clone(), nil
}

func (s *RecordStore) Update(_ context.Context, name, id string, patch domain.Record) (domain.Record, error) {
	if err := domain.CheckIdentifiers(name, nil, patch); err != nil {
		return nil, err
	}
	changes := patch.Without(domain.FieldID, domain.FieldCreatedAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, nil
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, nil
	}
	next := row.Clone()
	for k, v := range changes {
		next[k] = v
	}
	if err := t.checkUnique(name, id, next); err != nil {
		return nil, domain.Reject(domain.ErrConflict, "update", name, err)
	}
	next[domain.FieldUpdatedAt] = s.now().UTC()
	t.rows[id] = next
	return next.Clone(), nil
}

func (s *RecordStore) Delete(_ context.Context, name, id string) (bool, error) {
	if err := domain.CheckIdentifiers(name, nil, nil); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return false, nil
	}
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *RecordStore) Ping(context.Context) error {
	return nil
}

// checkUnique reports whether row would share a unique key with a row other
// than id. Missing or nil keys never collide, like NULL in SQL.
func (t *table) checkUnique(name, id string, row domain.Record) error {
	for _, key := range uniqueKeys[name] {
		v, ok := row[key]
		if !ok || v == nil {
			continue
		}
		for otherID, other := range t.rows {
			if otherID != id && equal(other[key], v) {
				return fmt.Errorf("duplicate %s", key)
			}
		}
	}
	return nil
}

func matches(row domain.Record, filters []domain.Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Field]
		if !ok || !equal(v, f.Value) {
			return false
		}
	}
	return true
}

// equal compares numbers by value so an int filter matches a float64 decoded
// from JSON.
func equal(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	fa, okA := number(a)
	fb, okB := number(b)
	return okA && okB && fa == fb
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
