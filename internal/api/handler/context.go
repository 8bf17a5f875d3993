package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/api/middleware"
	"github.com/profitum/platform-api/internal/core/domain"
)

// ctxIdentity returns the identity injected by the Guard middleware. Its
// absence means the route was registered without the guard, so the request
// is treated as unauthenticated.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrMissingToken
	}
	return identity, nil
}

// bindAndValidate decodes the request into req and runs the registered
// validator over it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	return c.Validate(req)
}
