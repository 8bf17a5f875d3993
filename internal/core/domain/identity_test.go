package domain

import (
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	owner := &Identity{ID: "c1", Role: RoleClient}
	other := &Identity{ID: "c2", Role: RoleClient}
	admin := &Identity{ID: "e1", Role: RoleExpert, Admin: true}

	cases := []struct {
		name     string
		identity *Identity
		ownerID  string
		want     error
	}{
		{"owner", owner, "c1", nil},
		{"other", other, "c1", ErrForbidden},
		{"admin override", admin, "c1", nil},
		{"empty owner", owner, "", ErrForbidden},
		{"no identity", nil, "c1", ErrIdentityNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := Authorize(tc.identity, tc.ownerID); !errors.Is(err, tc.want) {
				t.Fatalf("Authorize = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIdentityFromRecord(t *testing.T) {
	r := Record{"id": "e1", "email": "e@x.io", "name": "Eve", "isAdmin": true, "password": "hash"}
	id := IdentityFromRecord(r, RoleExpert)
	if id.ID != "e1" || id.Email != "e@x.io" || id.Name != "Eve" || !id.Admin || id.PasswordHash != "hash" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.Role != RoleExpert {
		t.Fatalf("expected role from caller, got %s", id.Role)
	}
}

func TestIdentityTable(t *testing.T) {
	if tbl, ok := IdentityTable(RoleClient); !ok || tbl != TableClient {
		t.Fatalf("client table = %q, %v", tbl, ok)
	}
	if tbl, ok := IdentityTable(RoleExpert); !ok || tbl != TableExpert {
		t.Fatalf("expert table = %q, %v", tbl, ok)
	}
	if _, ok := IdentityTable("admin"); ok {
		t.Fatalf("expected unknown role to have no table")
	}
}
