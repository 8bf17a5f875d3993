package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ResourceService manages one kind of client-owned record. Reads and writes
// are allowed to the owning client and to admins only.
type ResourceService struct {
	kind   domain.ResourceKind
	store  ports.RecordStore
	logger zerolog.Logger
}

func NewResourceService(kind domain.ResourceKind, store ports.RecordStore, logger zerolog.Logger) *ResourceService {
	return &ResourceService{
		kind:   kind,
		store:  store,
		logger: logger.With().Str("kind", kind.Name).Logger(),
	}
}

func (s *ResourceService) Kind() domain.ResourceKind {
	return s.kind
}

// Create stores a new record owned by rec's clientId. Non-admins may only
// create records they own, and the owner must be an existing client.
func (s *ResourceService) Create(ctx context.Context, actor *domain.Identity, rec domain.Record) (domain.Record, error) {
	owner := domain.OwnerOf(rec)
	if owner == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingField, domain.FieldOwner)
	}
	if err := domain.Authorize(actor, owner); err != nil {
		return nil, err
	}
	if err := s.kind.CheckEnums(rec); err != nil {
		return nil, err
	}

	clients, err := s.store.Find(ctx, domain.TableClient, domain.Eq(domain.FieldID, owner))
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w: unknown client %q", domain.ErrInvalidInput, owner)
	}

	row := rec.Without(domain.FieldID, domain.FieldCreatedAt, domain.FieldUpdatedAt)
	for k, v := range s.kind.Defaults {
		if _, ok := row[k]; !ok {
			row[k] = v
		}
	}

	created, err := s.store.Insert(ctx, s.kind.Table, row)
	if err != nil {
		s.logger.Error().Err(err).Str("client_id", owner).Msg("failed to create resource")
		return nil, err
	}

	s.logger.Info().Str("id", created.ID()).Str("client_id", owner).Str("actor_id", actor.ID).Msg("resource created")
	return created, nil
}

func (s *ResourceService) Get(ctx context.Context, actor *domain.Identity, id string) (domain.Record, error) {
	rows, err := s.store.Find(ctx, s.kind.Table, domain.Eq(domain.FieldID, id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrResourceNotFound
	}
	if err := domain.Authorize(actor, domain.OwnerOf(rows[0])); err != nil {
		return nil, err
	}
	return rows[0], nil
}

// Update applies the mutable fields of patch. The owner field never changes.
func (s *ResourceService) Update(ctx context.Context, actor *domain.Identity, id string, patch domain.Record) (domain.Record, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	changes := s.kind.Patch(patch)
	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields", domain.ErrInvalidInput)
	}
	if err := s.kind.CheckEnums(changes); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, s.kind.Table, id, changes)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to update resource")
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrResourceNotFound
	}
	return updated, nil
}

func (s *ResourceService) Delete(ctx context.Context, actor *domain.Identity, id string) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	ok, err := s.store.Delete(ctx, s.kind.Table, id)
	if err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("failed to delete resource")
		return err
	}
	if !ok {
		return domain.ErrResourceNotFound
	}
	s.logger.Info().Str("id", id).Str("actor_id", actor.ID).Msg("resource deleted")
	return nil
}

// ListByOwner returns one page of the owner's records, newest first.
func (s *ResourceService) ListByOwner(ctx context.Context, actor *domain.Identity, in ports.ListInput) (*ports.Page, error) {
	if err := domain.Authorize(actor, in.OwnerID); err != nil {
		return nil, err
	}

	rows, err := s.store.Find(ctx, s.kind.Table, domain.Eq(domain.FieldOwner, in.OwnerID))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Time(domain.FieldCreatedAt).After(rows[j].Time(domain.FieldCreatedAt))
	})

	page, size := normalizePage(in.Page, in.PageSize)
	total := len(rows)
	start, end := pageBounds(page, size, total)

	return &ports.Page{
		Items:      rows[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// pageBounds returns the slice bounds of page within total rows. The page
// number is compared before multiplying so a huge page cannot overflow.
func pageBounds(page, size, total int) (int, int) {
	if page-1 >= (total+size-1)/size {
		return total, total
	}
	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return start, end
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
