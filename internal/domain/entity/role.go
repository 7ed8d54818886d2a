// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role a user can have in the marketplace.
// A user holds exactly one role at a time.
type Role string

const (
	// RoleAdmin may mutate every store, product and order, and assign roles.
	RoleAdmin Role = "admin"
	// RoleSeller may register stores and manage the ones they own.
	RoleSeller Role = "seller"
	// RoleBuyer places orders.
	RoleBuyer Role = "buyer"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleBuyer:
		return true
	default:
		return false
	}
}

// IsSelfAssignable reports whether a user may pick this role at signup.
func (r Role) IsSelfAssignable() bool {
	return r == RoleSeller || r == RoleBuyer
}
