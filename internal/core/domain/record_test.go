package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestValidIdentifier(t *testing.T) {
	valid := []string{"Client", "user_preferences", "_x1", "clientId"}
	invalid := []string{"", "1abc", "Client;DROP", "a b", `a"b`, "é"}
	for _, s := range valid {
		if !ValidIdentifier(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidIdentifier(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestCheckIdentifiers(t *testing.T) {
	if err := CheckIdentifiers("Audit", []Filter{Eq("clientId", "x")}, Record{"status": "ok"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckIdentifiers("Audit;", nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for table, got %v", err)
	}
	if err := CheckIdentifiers("Audit", []Filter{Eq("a-b", 1)}, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for filter, got %v", err)
	}
	if err := CheckIdentifiers("Audit", nil, Record{"x y": 1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for record field, got %v", err)
	}
}

func TestRecord_CloneIsDeep(t *testing.T) {
	orig := Record{"settings": map[string]any{"theme": "dark"}, "tags": []any{"a"}}
	c := orig.Clone()
	c["settings"].(map[string]any)["theme"] = "light"
	c["tags"].([]any)[0] = "b"

	if orig["settings"].(map[string]any)["theme"] != "dark" {
		t.Fatalf("nested map shared with clone")
	}
	if orig["tags"].([]any)[0] != "a" {
		t.Fatalf("nested slice shared with clone")
	}
}

func TestRecord_Accessors(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := Record{"id": "x", "ok": true, "at": ts.Format(time.RFC3339Nano), "n": 3}

	if r.ID() != "x" || !r.Bool("ok") || r.String("n") != "" {
		t.Fatalf("unexpected accessor results: %+v", r)
	}
	if !r.Time("at").Equal(ts) {
		t.Fatalf("expected %v, got %v", ts, r.Time("at"))
	}
	if _, ok := r.Without("id")["id"]; ok {
		t.Fatalf("Without kept the removed key")
	}
	if _, ok := r["id"]; !ok {
		t.Fatalf("Without mutated the receiver")
	}
}

func TestResourceKind_PatchAndEnums(t *testing.T) {
	p := KindAudit.Patch(Record{"status": "done", "clientId": "other", "id": "z"})
	if len(p) != 1 || p["status"] != "done" {
		t.Fatalf("unexpected patch: %+v", p)
	}
	if err := KindAudit.CheckEnums(Record{"type": "CIR"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := KindAudit.CheckEnums(Record{"type": "XYZ"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestErrorCode(t *testing.T) {
	if got := ErrorCode(ErrForbidden); got != "Forbidden" {
		t.Fatalf("ErrorCode(ErrForbidden) = %s", got)
	}
	if got := ErrorCode(Reject(ErrConflict, "insert", "Client", errors.New("duplicate key"))); got != "Conflict" {
		t.Fatalf("ErrorCode(conflict rejection) = %s", got)
	}
	if got := ErrorCode(errors.New("boom")); got != "InternalError" {
		t.Fatalf("ErrorCode(unknown) = %s", got)
	}
}

func TestStoreRejection_HidesCause(t *testing.T) {
	cause := errors.New(`duplicate key value violates unique constraint "Client_email_key" (SQLSTATE 23505)`)
	err := fmt.Errorf("wrapped: %w", Reject(ErrConflict, "insert", "Client", cause))

	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if errors.Is(err, cause) {
		t.Fatal("cause must not be reachable through Unwrap")
	}
	if strings.Contains(err.Error(), "Client_email_key") || strings.Contains(err.Error(), "23505") {
		t.Fatalf("driver detail leaked into message: %q", err.Error())
	}
	var rej *StoreRejection
	if !errors.As(err, &rej) || rej.Cause != cause || rej.Table != "Client" {
		t.Fatalf("expected rejection carrying the cause, got %+v", rej)
	}
}
