package ports

import (
	"context"
	"time"
)

// RevocationList remembers logged-out token ids until their expiry.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
