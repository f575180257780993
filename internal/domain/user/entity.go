package user

type Role string

const (
	RoleSuperAdmin  Role = "super_admin"  // Company-wide access
	RoleLineManager Role = "line_manager" // Reviews direct reports
	RoleEmployee    Role = "employee"     // Logs own activities
)

// IsSuperAdmin checks if role has company-wide access
func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

// IsManager checks if role can review other employees
func (r Role) IsManager() bool {
	return r == RoleLineManager || r == RoleSuperAdmin
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleLineManager, RoleEmployee:
		return true
	}
	return false
}
