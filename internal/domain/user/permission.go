package user

type Permission string

const (
	// Own activities
	PermissionActivityViewOwn Permission = "activity.view_own"
	PermissionActivityCreate  Permission = "activity.create"

	// Team review
	PermissionActivityViewTeam Permission = "activity.view_team"
	PermissionActivityExport   Permission = "activity.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermissionActivityViewOwn,
		PermissionActivityCreate,
		PermissionActivityViewTeam,
		PermissionActivityExport,
	},
	RoleLineManager: {
		PermissionActivityViewOwn,
		PermissionActivityCreate,
		PermissionActivityViewTeam,
		PermissionActivityExport,
	},
	RoleEmployee: {
		PermissionActivityViewOwn,
		PermissionActivityCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
