package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/core/domain"
)

// RequireRole enforces role-based access control. Admins pass regardless of
// role. Must run after Guard.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if _, ok := allowed[identity.Role]; !ok && !identity.Admin {
				metrics.AuthDecisionsTotal.WithLabelValues(domain.ErrorCode(domain.ErrForbidden)).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}

// RequireOwnerParam allows the request only when the path parameter names the
// authenticated identity, or the identity is an admin. Must run after Guard.
func RequireOwnerParam(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrMissingToken
			}
			if err := domain.Authorize(identity, c.Param(param)); err != nil {
				metrics.AuthDecisionsTotal.WithLabelValues(domain.ErrorCode(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}
