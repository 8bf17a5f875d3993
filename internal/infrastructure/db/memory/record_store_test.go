package memory

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/profitum/platform-api/internal/core/domain"
)

func TestRecordStore_InsertFind(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()

	input := domain.Record{
		"clientId": "c1",
		"status":   "open",
		"progress": 40,
		"archived": false,
		"meta":     map[string]any{"source": "import"},
	}
	created, err := s.Insert(ctx, "Audit", input)
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if created.ID() == "" {
		t.Fatalf("expected id to be assigned")
	}
	if created.Time(domain.FieldCreatedAt).IsZero() || created.Time(domain.FieldUpdatedAt).IsZero() {
		t.Fatalf("expected timestamps, got %+v", created)
	}

	found, err := s.Find(ctx, "Audit", domain.Eq("clientId", "c1"), domain.Eq("status", "open"))
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("unexpected rows: %+v", found)
	}
	want := input.Clone()
	want[domain.FieldID] = created.ID()
	if got := found[0].Without(domain.FieldCreatedAt, domain.FieldUpdatedAt); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %#v\nwant %#v", got, want)
	}

	none, err := s.Find(ctx, "Audit", domain.Eq("clientId", "c2"))
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no rows, got %v, %v", none, err)
	}
	missing, err := s.Find(ctx, "Nothing")
	if err != nil || missing == nil || len(missing) != 0 {
		t.Fatalf("expected empty non-nil result for missing table, got %v, %v", missing, err)
	}
}

func TestRecordStore_CopiesRows(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()
	in := domain.Record{"settings": map[string]any{"theme": "dark"}}

	created, _ := s.Insert(ctx, "T", in)
	in["settings"].(map[string]any)["theme"] = "light"
	created["settings"].(map[string]any)["theme"] = "blue"

	rows, _ := s.Find(ctx, "T")
	if rows[0]["settings"].(map[string]any)["theme"] != "dark" {
		t.Fatalf("store shares state with callers: %+v", rows[0])
	}
}

func TestRecordStore_UpdateDelete(t *testing.T) {
	s := NewRecordStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	ctx := context.Background()

	created, _ := s.Insert(ctx, "Audit", domain.Record{"status": "open"})
	s.now = func() time.Time { return base.Add(time.Minute) }

	updated, err := s.Update(ctx, "Audit", created.ID(), domain.Record{"status": "done", "id": "hijack"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated["status"] != "done" || updated.ID() != created.ID() {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if !updated.Time(domain.FieldUpdatedAt).Equal(base.Add(time.Minute)) {
		t.Fatalf("expected updatedAt refreshed, got %v", updated[domain.FieldUpdatedAt])
	}
	if !updated.Time(domain.FieldCreatedAt).Equal(base) {
		t.Fatalf("createdAt changed: %v", updated[domain.FieldCreatedAt])
	}

	if got, err := s.Update(ctx, "Audit", "missing", domain.Record{"status": "x"}); got != nil || err != nil {
		t.Fatalf("expected nil, nil for missing row, got %v, %v", got, err)
	}

	ok, err := s.Delete(ctx, "Audit", created.ID())
	if err != nil || !ok {
		t.Fatalf("expected delete to succeed, got %v, %v", ok, err)
	}
	ok, err = s.Delete(ctx, "Audit", created.ID())
	if err != nil || ok {
		t.Fatalf("expected second delete to report false, got %v, %v", ok, err)
	}
}

func TestRecordStore_RejectsBadIdentifiers(t *testing.T) {
	s := NewRecordStore()
	if _, err := s.Insert(context.Background(), "Audit; --", domain.Record{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.Find(context.Background(), "Audit", domain.Eq("a.b", 1)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecordStore_UniqueKeys(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()

	first, err := s.Insert(ctx, domain.TableClient, domain.Record{"email": "a@x.io"})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if _, err := s.Insert(ctx, domain.TableClient, domain.Record{"email": "a@x.io"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
	if _, err := s.Insert(ctx, domain.TableClient, domain.Record{domain.FieldID: first.ID(), "email": "b@x.io"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate id, got %v", err)
	}

	second, err := s.Insert(ctx, domain.TableClient, domain.Record{"email": "b@x.io"})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if _, err := s.Update(ctx, domain.TableClient, second.ID(), domain.Record{"email": "a@x.io", "name": "B"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on update, got %v", err)
	}
	rows, _ := s.Find(ctx, domain.TableClient, domain.Eq(domain.FieldID, second.ID()))
	if rows[0]["email"] != "b@x.io" || rows[0]["name"] != nil {
		t.Fatalf("rejected update must not change the row: %+v", rows[0])
	}
	if _, err := s.Update(ctx, domain.TableClient, second.ID(), domain.Record{"email": "b@x.io"}); err != nil {
		t.Fatalf("rewriting own key returned error: %v", err)
	}

	if _, err := s.Insert(ctx, domain.TablePreferences, domain.Record{"user_id": "u1"}); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if _, err := s.Insert(ctx, domain.TablePreferences, domain.Record{"user_id": "u1"}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate user_id, got %v", err)
	}

	if _, err := s.Insert(ctx, "Audit", domain.Record{"email": "a@x.io"}); err != nil {
		t.Fatalf("tables without unique keys must accept duplicates, got %v", err)
	}
}

func TestRecordStore_NumericFilter(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()
	_, _ = s.Insert(ctx, "T", domain.Record{"n": float64(3)})

	rows, _ := s.Find(ctx, "T", domain.Eq("n", 3))
	if len(rows) != 1 {
		t.Fatalf("expected int filter to match float value, got %d rows", len(rows))
	}
}

func TestRecordStore_ConcurrentInserts(t *testing.T) {
	s := NewRecordStore()
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Insert(ctx, "T", domain.Record{"k": "v"})
		}()
	}
	wg.Wait()

	rows, _ := s.Find(ctx, "T")
	if len(rows) != 50 {
		t.Fatalf("expected 50 rows, got %d", len(rows))
	}
}
