package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"missing field", fmt.Errorf("%w: email is required", domain.ErrMissingField), http.StatusBadRequest, "MissingField"},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, "InvalidInput"},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "MissingToken"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "InvalidToken"},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized, "ExpiredToken"},
		{"identity not found", domain.ErrIdentityNotFound, http.StatusUnauthorized, "IdentityNotFound"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "InvalidCredentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"not found", domain.ErrResourceNotFound, http.StatusNotFound, "ResourceNotFound"},
		{"exists", domain.ErrIdentityExists, http.StatusConflict, "IdentityExists"},
		{"conflict", domain.Reject(domain.ErrConflict, "insert", "user_preferences", errors.New("dup")), http.StatusConflict, "Conflict"},
		{"store failure", fmt.Errorf("find Client: %w", domain.ErrStoreFailure), http.StatusInternalServerError, "StoreFailure"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "InternalError"},
		{"echo 404", echo.ErrNotFound, http.StatusNotFound, "NotFound"},
	}

	h := NewHTTPErrorHandler(zerolog.Nop())
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/audits/1", nil)
			rec := httptest.NewRecorder()
			h(tt.err, e.NewContext(req, rec))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Success {
				t.Fatal("expected success=false")
			}
			if body.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, body.Code)
			}
			if body.Error == "" {
				t.Fatal("expected an error message")
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalDetails(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("pq: password authentication failed"), e.NewContext(req, rec))

	var body errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Error != "internal server error" {
		t.Fatalf("leaked error detail: %q", body.Error)
	}
}

func TestHTTPErrorHandler_HidesStoreRejectionCause(t *testing.T) {
	tests := []struct {
		name       string
		kind       error
		pgCode     string
		wantStatus int
	}{
		{"unique violation", domain.ErrConflict, "23505", http.StatusConflict},
		{"foreign key violation", domain.ErrInvalidInput, "23503", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cause := &pgconn.PgError{
				Code:           tt.pgCode,
				Message:        `insert or update on table "Audit" violates constraint "Audit_clientId_fkey"`,
				TableName:      "Audit",
				ConstraintName: "Audit_clientId_fkey",
			}
			err := fmt.Errorf("create audit: %w", domain.Reject(tt.kind, "insert", "Audit", cause))

			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/api/audits", nil)
			rec := httptest.NewRecorder()
			NewHTTPErrorHandler(zerolog.Nop())(err, e.NewContext(req, rec))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			for _, detail := range []string{"Audit", "fkey", tt.pgCode, "SQLSTATE", "create audit"} {
				if strings.Contains(rec.Body.String(), detail) {
					t.Fatalf("response leaked %q: %s", detail, rec.Body.String())
				}
			}
		})
	}
}

func TestHTTPErrorHandler_SkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrForbidden, c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was overwritten: %d %q", rec.Code, rec.Body.String())
	}
}
