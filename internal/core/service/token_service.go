package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

// DefaultTokenTTL applies when neither the caller nor the config set one.
const DefaultTokenTTL = 24 * time.Hour

// tokenClaims is the signed payload: sub, role, iat, exp and jti.
type tokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(subjectID, role string, ttl time.Duration) (ports.IssuedToken, error) {
	if subjectID == "" || !domain.ValidRole(role) {
		return ports.IssuedToken{}, fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	// JWT timestamps carry whole seconds.
	now := s.now().UTC().Truncate(time.Second)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("sign token: %w", err)
	}

	return ports.IssuedToken{
		Token: signed,
		Claims: ports.Claims{
			Subject:   subjectID,
			Role:      role,
			TokenID:   claims.ID,
			IssuedAt:  now,
			ExpiresAt: now.Add(ttl),
		},
	}, nil
}

func (s *TokenService) Validate(token string) (ports.Claims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		// jwt treats now == exp as expired. A token stays valid through its
		// exp second and expires only once now passes it.
		jwt.WithLeeway(time.Nanosecond),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.Claims{}, domain.ErrExpiredToken
		}
		return ports.Claims{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !domain.ValidRole(claims.Role) {
		return ports.Claims{}, domain.ErrInvalidToken
	}

	out := ports.Claims{
		Subject: claims.Subject,
		Role:    claims.Role,
		TokenID: claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
