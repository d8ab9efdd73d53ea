package auth

// Role is the access level attached to an identity
type Role string

const (
	// RoleUser is a learner
	RoleUser Role = "user"
	// RoleAdmin manages users and learning content
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is one of the predefined valid roles
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// RoleStrings returns the predefined roles as strings, handy for enum rules
func RoleStrings() []any {
	out := make([]any, 0, 2)
	for _, r := range GetAllRoles() {
		out = append(out, string(r))
	}
	return out
}

// ParseRole safely parses a string into a Role type
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, role.IsValid()
}
