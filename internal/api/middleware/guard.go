package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

// Keys under which the guard stores its results in the echo context.
const (
	ContextKeyIdentity = "identity"
	ContextKeyClaims   = "claims"
)

// GuardConfig wires the guard's collaborators. Revoked and Access are optional.
type GuardConfig struct {
	Tokens     ports.TokenService
	Identities ports.IdentityResolver
	Revoked    ports.RevocationList
	Access     ports.AccessLogger
	// Debug replaces authentication with a fixed admin identity. It has no
	// effect in binaries built with the production tag.
	Debug  bool
	Logger zerolog.Logger
}

// Guard authenticates the bearer token, resolves the identity it names and
// attaches both to the request. It never writes to the record store.
func Guard(cfg GuardConfig) echo.MiddlewareFunc {
	debug := cfg.Debug && debugBypassAvailable
	if debug {
		cfg.Logger.Warn().Msg("auth guard debug bypass enabled, every request runs as an admin")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if debug {
				attach(c, debugIdentity(), nil)
				return next(c)
			}

			identity, claims, err := authenticate(c, cfg)
			record(c, cfg, identity, claims, err)
			if err != nil {
				return err
			}

			attach(c, identity, claims)
			return next(c)
		}
	}
}

func authenticate(c echo.Context, cfg GuardConfig) (*domain.Identity, *ports.Claims, error) {
	token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return nil, nil, domain.ErrMissingToken
	}

	claims, err := cfg.Tokens.Validate(token)
	if err != nil {
		return nil, nil, err
	}

	ctx := c.Request().Context()
	if cfg.Revoked != nil && claims.TokenID != "" {
		revoked, err := cfg.Revoked.IsRevoked(ctx, claims.TokenID)
		switch {
		case err != nil:
			// Fail open: an unreachable revocation list must not lock everyone out.
			cfg.Logger.Warn().Err(err).Str("identity_id", claims.Subject).Msg("revocation lookup failed")
		case revoked:
			return nil, &claims, domain.ErrInvalidToken
		}
	}

	identity, err := cfg.Identities.ResolveIdentity(ctx, claims.Subject, claims.Role)
	if err != nil {
		return nil, &claims, err
	}
	return identity, &claims, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func attach(c echo.Context, identity *domain.Identity, claims *ports.Claims) {
	c.Set(ContextKeyIdentity, identity)
	if claims != nil {
		c.Set(ContextKeyClaims, *claims)
	}
	req := c.Request()
	c.SetRequest(req.WithContext(domain.ContextWithIdentity(req.Context(), identity)))
}

// record counts the decision and hands it to the access log.
func record(c echo.Context, cfg GuardConfig, identity *domain.Identity, claims *ports.Claims, err error) {
	result := "allowed"
	if err != nil {
		result = domain.ErrorCode(err)
	}
	metrics.AuthDecisionsTotal.WithLabelValues(result).Inc()

	if cfg.Access == nil {
		return
	}
	entry := domain.AccessLogEntry{
		Timestamp: time.Now().UTC(),
		Action:    c.Request().Method,
		Resource:  c.Request().URL.Path,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Success:   err == nil,
	}
	switch {
	case identity != nil:
		entry.IdentityID, entry.Role = identity.ID, identity.Role
	case claims != nil:
		entry.IdentityID, entry.Role = claims.Subject, claims.Role
	}
	if err != nil {
		entry.Error = result
	}
	cfg.Access.Log(entry)
}

// IdentityFrom returns the identity the guard attached to c.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(ContextKeyIdentity).(*domain.Identity)
	return identity, ok && identity != nil
}

// ClaimsFrom returns the validated token claims; absent under the debug bypass.
func ClaimsFrom(c echo.Context) (ports.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(ports.Claims)
	return claims, ok
}
