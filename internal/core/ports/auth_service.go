package ports

import (
	"context"
	"time"

	"github.com/profitum/platform-api/internal/core/domain"
)

// RegisterInput carries a new account. Role defaults to client.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  *domain.Identity
}

// IdentityResolver loads the identity a token refers to.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, id, role string) (*domain.Identity, error)
}

type AuthService interface {
	IdentityResolver
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, claims Claims) error
	ListClients(ctx context.Context) ([]*domain.Identity, error)
}
