package auth

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermDashboardView allows viewing the dashboard.
	PermDashboardView = "dashboard.view"

	// PermAdminLoggingView admits a user to the log settings page.
	PermAdminLoggingView = "admin.logging.view"
	// PermAdminLoggingEdit allows changing the log settings and deleting the category log.
	PermAdminLoggingEdit = "admin.logging.edit"

	// PermGivingPayment allows using the giving page to start a payment.
	PermGivingPayment = "giving.payment"
)

// Role names created by the seed.
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// PermissionDefinition describes a permission row.
type PermissionDefinition struct {
	Name        string
	Resource    string
	Action      string
	Description string
}

// Permissions returns the definitions of every permission known to the application.
func Permissions() []PermissionDefinition {
	return []PermissionDefinition{
		{PermDashboardView, "dashboard", "view", "View the dashboard"},
		{PermAdminLoggingView, "admin.logging", "view", "View the log settings"},
		{PermAdminLoggingEdit, "admin.logging", "edit", "Change the log settings and delete the log file"},
		{PermGivingPayment, "giving", "payment", "Start a payment on the giving page"},
	}
}

// RolePermissions maps the seeded roles to their permissions.
func RolePermissions() map[string][]string {
	all := make([]string, 0, len(Permissions()))
	for _, p := range Permissions() {
		all = append(all, p.Name)
	}

	return map[string][]string{
		RoleAdmin:  all,
		RoleViewer: {PermDashboardView, PermAdminLoggingView, PermGivingPayment},
	}
}
