package user

type Role string

const (
	RoleDepartment Role = "KHOA"    // Department staff, edits its own department
	RoleDirector   Role = "GIAMDOC" // Reviews correction requests
	RoleAdmin      Role = "ADMIN"   // Manages catalog, settings and employees
)

// Principal is the authenticated caller as carried in the access token.
// Identity management itself lives outside this service.
type Principal struct {
	UserID     string
	Role       Role
	Department string
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleDepartment, RoleDirector, RoleAdmin:
		return true
	}
	return false
}

// Scope returns the department the principal is restricted to.
// Reviewers and admins are not restricted and get an empty scope.
func (p Principal) Scope() string {
	if p.Role == RoleDepartment {
		return p.Department
	}
	return ""
}

// CanReview checks if the principal can resolve correction requests
func (p Principal) CanReview() bool {
	return p.Role == RoleDirector || p.Role == RoleAdmin
}
