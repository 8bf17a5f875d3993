package ports

import (
	"context"

	"github.com/profitum/platform-api/internal/core/domain"
)

// ListInput selects one page of an owner's resources. Page is 1-based;
// PageSize is capped by the service.
type ListInput struct {
	OwnerID  string
	Page     int
	PageSize int
}

// Page is one slice of a listing plus the totals needed to walk it.
type Page struct {
	Items      []domain.Record
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ResourceService manages one kind of owned record. Every call is checked
// against the acting identity.
type ResourceService interface {
	Kind() domain.ResourceKind
	Create(ctx context.Context, actor *domain.Identity, rec domain.Record) (domain.Record, error)
	Get(ctx context.Context, actor *domain.Identity, id string) (domain.Record, error)
	Update(ctx context.Context, actor *domain.Identity, id string, patch domain.Record) (domain.Record, error)
	Delete(ctx context.Context, actor *domain.Identity, id string) error
	ListByOwner(ctx context.Context, actor *domain.Identity, in ListInput) (*Page, error)
}
