// Package identity issues and resolves the bearer credentials that carry
// a caller's subject id and role.
package identity

import "strings"

// Role is the caller class a credential carries.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// ParseRole accepts the three known roles, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return r, true
	default:
		return "", false
	}
}

// Subject is the authenticated caller.
type Subject struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (s Subject) Authenticated() bool {
	return s.ID != "" && s.Role != ""
}

// HasRole reports whether the subject holds one of roles.
func (s Subject) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}
