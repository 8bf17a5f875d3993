package domain

import "time"

const (
	RoleClient = "client"
	RoleExpert = "expert"
)

// Tables holding identities, one per role.
const (
	TableClient = "Client"
	TableExpert = "Expert"
)

// ValidRole reports whether role is one a token may carry.
func ValidRole(role string) bool {
	return role == RoleClient || role == RoleExpert
}

// IdentityTable returns the table that stores identities of the given role.
func IdentityTable(role string) (string, bool) {
	switch role {
	case RoleClient:
		return TableClient, true
	case RoleExpert:
		return TableExpert, true
	default:
		return "", false
	}
}

// Identity is a client or expert account.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"username"`
	Role         string    `json:"type"`
	Admin        bool      `json:"-"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// IdentityFromRecord maps a Client or Expert row onto an Identity.
func IdentityFromRecord(r Record, role string) *Identity {
	return &Identity{
		ID:           r.ID(),
		Email:        r.String("email"),
		Name:         r.String("name"),
		Role:         role,
		Admin:        r.Bool("isAdmin"),
		PasswordHash: r.String("password"),
		CreatedAt:    r.Time(FieldCreatedAt),
		UpdatedAt:    r.Time(FieldUpdatedAt),
	}
}

// Record renders the identity as a row for its role's table. The id and
// timestamps are left to the store.
func (i *Identity) Record() Record {
	return Record{
		"email":    i.Email,
		"name":     i.Name,
		"password": i.PasswordHash,
		"isAdmin":  i.Admin,
	}
}

// Authorize allows access to a resource owned by ownerID when the identity
// owns it or carries the admin override.
func Authorize(identity *Identity, ownerID string) error {
	if identity == nil {
		return ErrIdentityNotFound
	}
	if identity.Admin {
		return nil
	}
	if ownerID == "" || identity.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
