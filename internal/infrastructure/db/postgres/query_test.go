package postgres

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/profitum/platform-api/internal/core/domain"
)

func TestBuildSelect(t *testing.T) {
	sql, args := buildSelect("Audit", []domain.Filter{domain.Eq("clientId", "c1"), domain.Eq("status", "open")})
	want := `SELECT * FROM "Audit" WHERE "clientId" = $1 AND "status" = $2`
	if sql != want {
		t.Fatalf("sql = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"c1", "open"}) {
		t.Fatalf("unexpected args: %v", args)
	}

	sql, args = buildSelect("Client", nil)
	if sql != `SELECT * FROM "Client"` || len(args) != 0 {
		t.Fatalf("unexpected unfiltered select: %s %v", sql, args)
	}
}

func TestBuildInsert_SortsColumns(t *testing.T) {
	sql, args := buildInsert("Simulation", domain.Record{"status": "pending", "clientId": "c1", "id": "s1"})
	want := `INSERT INTO "Simulation" ("clientId", "id", "status") VALUES ($1, $2, $3) RETURNING *`
	if sql != want {
		t.Fatalf("sql = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"c1", "s1", "pending"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate(t *testing.T) {
	sql, args := buildUpdate("Audit", "a1", domain.Record{"status": "done", "comments": "ok"})
	want := `UPDATE "Audit" SET "comments" = $1, "status" = $2 WHERE "id" = $3 RETURNING *`
	if sql != want {
		t.Fatalf("sql = %s, want %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"ok", "done", "a1"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildDelete(t *testing.T) {
	sql, args := buildDelete("user_preferences", "p1")
	if sql != `DELETE FROM "user_preferences" WHERE "id" = $1` {
		t.Fatalf("unexpected sql: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"p1"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestRecordStore_RejectsUnsafeIdentifiers(t *testing.T) {
	s := NewRecordStore(&Connection{})
	if _, err := s.Find(context.Background(), `Audit"; DROP TABLE "Client`); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := s.Insert(context.Background(), "Audit", domain.Record{"bad field": 1}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStoreError_Classifies(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{codeUniqueViolation, domain.ErrConflict},
		{codeForeignKeyViolation, domain.ErrInvalidInput},
		{codeInvalidTextRepr, domain.ErrInvalidInput},
		{codeUndefinedColumn, domain.ErrInvalidInput},
		{"57P01", domain.ErrStoreFailure},
	}
	for _, tc := range cases {
		pgErr := &pgconn.PgError{
			Code:           tc.code,
			Message:        `duplicate key value violates unique constraint "Client_email_key"`,
			ConstraintName: "Client_email_key",
		}
		err := storeError("insert", "Client", pgErr)
		if !errors.Is(err, tc.want) {
			t.Fatalf("code %s: expected %v, got %v", tc.code, tc.want, err)
		}
		if tc.want == domain.ErrStoreFailure {
			continue
		}
		if msg := err.Error(); strings.Contains(msg, "Client_email_key") || strings.Contains(msg, tc.code) {
			t.Fatalf("code %s: driver detail leaked into %q", tc.code, msg)
		}
		var rej *domain.StoreRejection
		if !errors.As(err, &rej) || rej.Cause != pgErr {
			t.Fatalf("code %s: expected rejection carrying the driver error", tc.code)
		}
	}
}
