package ports

import (
	"context"

	"github.com/profitum/platform-api/internal/core/domain"
)

type PreferenceService interface {
	// Get returns stored preferences, or defaults when none were written yet.
	Get(ctx context.Context, identityID string) (*domain.Preferences, error)
	Update(ctx context.Context, identityID string, patch domain.PreferencesPatch) (*domain.Preferences, error)
}
