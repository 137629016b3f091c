package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPER_ADMIN"
)

// AdminRoles are the roles allowed on administrative routes.
var AdminRoles = []string{RoleAdmin, RoleSuperAdmin}

// IsValidRole reports whether r is one of the known roles
func IsValidRole(r string) bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Roles is the set of roles held by a user, stored as a Postgres text[].
type Roles []string

// HasAny reports whether the two role sets intersect.
func (r Roles) HasAny(allowed ...string) bool {
	for _, have := range r {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Normalize drops duplicates and keeps first-seen order.
func (r Roles) Normalize() Roles {
	seen := make(map[string]struct{}, len(r))
	out := make(Roles, 0, len(r))
	for _, role := range r {
		if _, ok := seen[role]; ok {
			continue
		}
		seen[role] = struct{}{}
		out = append(out, role)
	}
	return out
}

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	return pq.StringArray(r).Value()
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*r = Roles(arr)
	return nil
}
