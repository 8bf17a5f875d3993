package service

import (
	"context"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

var _ ports.AccessLogWriter = (*AccessLogService)(nil)

// AccessLogService persists guard decisions to the access_logs table.
type AccessLogService struct {
	store ports.RecordStore
}

func NewAccessLogService(store ports.RecordStore) *AccessLogService {
	return &AccessLogService{store: store}
}

func (s *AccessLogService) Write(ctx context.Context, entry domain.AccessLogEntry) error {
	_, err := s.store.Insert(ctx, domain.TableAccessLogs, entry.Record())
	return err
}
