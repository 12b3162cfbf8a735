package catalog

import "github.com/imrishuroy/go-storefront/internal/identity"

// CanCreate reports whether sub may add products.
func CanCreate(sub identity.Subject) bool {
	return sub.Authenticated() && sub.HasRole(identity.RoleSeller, identity.RoleAdmin)
}

// CanMutate is the single ownership predicate for update and delete: admins
// may change any product, sellers only their own.
func CanMutate(sub identity.Subject, p Product) bool {
	if !sub.Authenticated() {
		return false
	}
	switch sub.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleSeller:
		return p.Owner.ID == sub.ID
	default:
		return false
	}
}
