package service

import (
	"context"
	"testing"
	"time"

	"github.com/profitum/platform-api/internal/core/domain"
)

func TestAccessLogService_Write(t *testing.T) {
	store := newStubStore()
	svc := NewAccessLogService(store)

	err := svc.Write(context.Background(), domain.AccessLogEntry{
		Timestamp:  time.Now(),
		IdentityID: "c1",
		Role:       domain.RoleClient,
		Action:     "GET",
		Resource:   "/api/audits/a1",
		Success:    false,
		Error:      "Forbidden",
	})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	rows := store.tables[domain.TableAccessLogs]
	if len(rows) != 1 {
		t.Fatalf("expected one access log row, got %d", len(rows))
	}
	if rows[0]["user_id"] != "c1" || rows[0]["success"] != false || rows[0]["error_message"] != "Forbidden" {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
}
