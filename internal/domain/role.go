package domain

// Role is the closed set of roles a user can hold. Keeping it typed means an
// invalid role never reaches the store or a token claim.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), true
	}
	return "", false
}

func (r Role) String() string {
	return string(r)
}

// Assignable reports whether an admin may hand out this role through the
// create-user endpoint. Admin itself is only ever granted by the bootstrap.
func (r Role) Assignable() bool {
	return r == RoleManager || r == RoleEmployee
}
