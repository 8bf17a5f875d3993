package ports

import "time"

// Claims is the validated content of a bearer token.
type Claims struct {
	Subject   string
	Role      string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// IssuedToken is a signed token together with the claims it carries.
type IssuedToken struct {
	Token  string
	Claims Claims
}

type TokenService interface {
	// Issue signs a token for subjectID; ttl <= 0 selects the configured default.
	Issue(subjectID, role string, ttl time.Duration) (IssuedToken, error)
	Validate(token string) (Claims, error)
}
