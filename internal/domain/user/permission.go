package user

type Permission string

const (
	// Attendance
	PermissionAttendanceView Permission = "attendance.view"
	PermissionAttendanceEdit Permission = "attendance.edit"

	// Correction requests
	PermissionRequestSubmit Permission = "request.submit"
	PermissionRequestReview Permission = "request.review"
	PermissionFeedView      Permission = "feed.view"

	// Reference data
	PermissionCatalogManage  Permission = "catalog.manage"
	PermissionSettingsManage Permission = "settings.manage"
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Maintenance
	PermissionBackupCreate Permission = "backup.create"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleDepartment: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionRequestSubmit,
		PermissionFeedView,
		PermissionEmployeeView,
	},
	RoleDirector: {
		PermissionAttendanceView,
		PermissionRequestReview,
		PermissionEmployeeView,
	},
	RoleAdmin: {
		// Admin has all permissions
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionRequestSubmit,
		PermissionRequestReview,
		PermissionFeedView,
		PermissionCatalogManage,
		PermissionSettingsManage,
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionBackupCreate,
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
