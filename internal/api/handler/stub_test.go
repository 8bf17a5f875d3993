package handler

import (
	"context"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/api/middleware"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

func newContext(method, target, body string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.ContextKeyIdentity, identity)
	}
	return c, rec
}

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn       func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	logoutFn      func(ctx context.Context, claims ports.Claims) error
	listClientsFn func(ctx context.Context) ([]*domain.Identity, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, claims ports.Claims) error {
	return s.logoutFn(ctx, claims)
}

func (s *stubAuthService) ListClients(ctx context.Context) ([]*domain.Identity, error) {
	return s.listClientsFn(ctx)
}

func (s *stubAuthService) ResolveIdentity(context.Context, string, string) (*domain.Identity, error) {
	return nil, domain.ErrIdentityNotFound
}

type stubResourceService struct {
	kind     domain.ResourceKind
	createFn func(actor *domain.Identity, rec domain.Record) (domain.Record, error)
	getFn    func(actor *domain.Identity, id string) (domain.Record, error)
	updateFn func(actor *domain.Identity, id string, patch domain.Record) (domain.Record, error)
	deleteFn func(actor *domain.Identity, id string) error
	listFn   func(actor *domain.Identity, in ports.ListInput) (*ports.Page, error)
}

func (s *stubResourceService) Kind() domain.ResourceKind { return s.kind }

func (s *stubResourceService) Create(_ context.Context, actor *domain.Identity, rec domain.Record) (domain.Record, error) {
	return s.createFn(actor, rec)
}

func (s *stubResourceService) Get(_ context.Context, actor *domain.Identity, id string) (domain.Record, error) {
	return s.getFn(actor, id)
}

func (s *stubResourceService) Update(_ context.Context, actor *domain.Identity, id string, patch domain.Record) (domain.Record, error) {
	return s.updateFn(actor, id, patch)
}

func (s *stubResourceService) Delete(_ context.Context, actor *domain.Identity, id string) error {
	return s.deleteFn(actor, id)
}

func (s *stubResourceService) ListByOwner(_ context.Context, actor *domain.Identity, in ports.ListInput) (*ports.Page, error) {
	return s.listFn(actor, in)
}

type stubPreferenceService struct {
	getFn    func(identityID string) (*domain.Preferences, error)
	updateFn func(identityID string, patch domain.PreferencesPatch) (*domain.Preferences, error)
}

func (s *stubPreferenceService) Get(_ context.Context, identityID string) (*domain.Preferences, error) {
	return s.getFn(identityID)
}

func (s *stubPreferenceService) Update(_ context.Context, identityID string, patch domain.PreferencesPatch) (*domain.Preferences, error) {
	return s.updateFn(identityID, patch)
}
