package ports

import (
	"context"

	"github.com/profitum/platform-api/internal/core/domain"
)

// AccessLogger accepts guard decisions without blocking the request.
type AccessLogger interface {
	Log(entry domain.AccessLogEntry)
}

// AccessLogWriter persists a single entry.
type AccessLogWriter interface {
	Write(ctx context.Context, entry domain.AccessLogEntry) error
}
