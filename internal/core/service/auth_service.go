package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements registration, login and identity resolution over the
// Client and Expert tables.
type AuthService struct {
	store      ports.RecordStore
	tokens     ports.TokenService
	revoked    ports.RevocationList
	bcryptCost int
	logger     zerolog.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService wires the service. revoked may be nil, in which case logout
// only succeeds without remembering the token.
func NewAuthService(store ports.RecordStore, tokens ports.TokenService, revoked ports.RevocationList, bcryptCost int, logger zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		store:      store,
		tokens:     tokens,
		revoked:    revoked,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email", domain.ErrMissingField)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password", domain.ErrMissingField)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLength)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleClient
	}
	table, ok := domain.IdentityTable(role)
	if !ok {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	// Emails are unique across both identity tables.
	for _, t := range []string{domain.TableClient, domain.TableExpert} {
		rows, err := s.store.Find(ctx, t, domain.Eq("email", email))
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return nil, domain.ErrIdentityExists
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", domain.ErrInvalidInput)
		}
		return nil, err
	}

	identity := &domain.Identity{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		PasswordHash: string(hash),
	}
	row, err := s.store.Insert(ctx, table, identity.Record())
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race with a concurrent registration of the same email.
		return nil, domain.ErrIdentityExists
	}
	if err != nil {
		s.logger.Error().Err(err).Str("role", role).Msg("failed to create identity")
		return nil, err
	}
	created := domain.IdentityFromRecord(row, role)

	s.logger.Info().Str("identity_id", created.ID).Str("role", role).Msg("identity registered")
	return s.issue(created)
}

// Login checks the Client table first, then Expert. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email", domain.ErrMissingField)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password", domain.ErrMissingField)
	}

	identity, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issue(identity)
}

func (s *AuthService) ResolveIdentity(ctx context.Context, id, role string) (*domain.Identity, error) {
	table, ok := domain.IdentityTable(role)
	if !ok || id == "" {
		return nil, domain.ErrIdentityNotFound
	}
	rows, err := s.store.Find(ctx, table, domain.Eq(domain.FieldID, id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrIdentityNotFound
	}
	return domain.IdentityFromRecord(rows[0], role), nil
}

// Logout revokes the presented token until its own expiry.
func (s *AuthService) Logout(ctx context.Context, claims ports.Claims) error {
	if s.revoked == nil || claims.TokenID == "" {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.logger.Info().Str("identity_id", claims.Subject).Msg("token revoked")
	return nil
}

// ListClients returns every client account, newest first.
func (s *AuthService) ListClients(ctx context.Context) ([]*domain.Identity, error) {
	rows, err := s.store.Find(ctx, domain.TableClient)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Identity, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.IdentityFromRecord(r, domain.RoleClient))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	for _, role := range []string{domain.RoleClient, domain.RoleExpert} {
		table, _ := domain.IdentityTable(role)
		rows, err := s.store.Find(ctx, table, domain.Eq("email", email))
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return domain.IdentityFromRecord(rows[0], role), nil
		}
	}
	return nil, nil
}

func (s *AuthService) issue(identity *domain.Identity) (*ports.AuthResult, error) {
	tok, err := s.tokens.Issue(identity.ID, identity.Role, 0)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		Token:     tok.Token,
		ExpiresAt: tok.Claims.ExpiresAt,
		Identity:  identity,
	}, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(time.Now().String()), s.bcryptCost)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
