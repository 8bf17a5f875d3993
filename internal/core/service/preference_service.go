package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

// PreferenceService reads and lazily creates the user_preferences row of an
// identity.
type PreferenceService struct {
	store  ports.RecordStore
	logger zerolog.Logger
}

func NewPreferenceService(store ports.RecordStore, logger zerolog.Logger) *PreferenceService {
	return &PreferenceService{store: store, logger: logger}
}

func (s *PreferenceService) Get(ctx context.Context, identityID string) (*domain.Preferences, error) {
	row, err := s.find(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return domain.DefaultPreferences(identityID), nil
	}
	return domain.PreferencesFromRecord(row), nil
}

// Update merges patch into the stored row, creating it from defaults on the
// first write.
func (s *PreferenceService) Update(ctx context.Context, identityID string, patch domain.PreferencesPatch) (*domain.Preferences, error) {
	row, err := s.find(ctx, identityID)
	if err != nil {
		return nil, err
	}

	changes := patch.Record()
	if row == nil {
		created, err := s.create(ctx, identityID, changes)
		if err == nil {
			return domain.PreferencesFromRecord(created), nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to create preferences")
			return nil, err
		}
		// A concurrent first write created the row. Apply this patch on top.
		if row, err = s.find(ctx, identityID); err != nil {
			return nil, err
		}
		if row == nil {
			return nil, domain.ErrResourceNotFound
		}
	}

	if len(changes) == 0 {
		return domain.PreferencesFromRecord(row), nil
	}
	updated, err := s.store.Update(ctx, domain.TablePreferences, row.ID(), changes)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", identityID).Msg("failed to update preferences")
		return nil, err
	}
	if updated == nil {
		// Row vanished between read and write.
		return nil, domain.ErrResourceNotFound
	}
	return domain.PreferencesFromRecord(updated), nil
}

func (s *PreferenceService) create(ctx context.Context, identityID string, changes domain.Record) (domain.Record, error) {
	defaults := domain.DefaultPreferences(identityID)
	rec := domain.Record{
		"user_id":               identityID,
		"ui_settings":           defaults.UISettings,
		"notification_settings": defaults.NotificationSettings,
		"dashboard_visited":     defaults.DashboardVisited,
		"version":               defaults.Version,
	}
	for k, v := range changes {
		rec[k] = v
	}
	return s.store.Insert(ctx, domain.TablePreferences, rec)
}

func (s *PreferenceService) find(ctx context.Context, identityID string) (domain.Record, error) {
	rows, err := s.store.Find(ctx, domain.TablePreferences, domain.Eq("user_id", identityID))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
