// Package auth provides authentication and authorization functionality for the application.
//
// Users sign in with a local username and password, stored as an Argon2id
// hash. Authorization is role based:
//   - every user has exactly one role
//   - roles contain a set of permissions
//   - permissions are checked for resource access
//
// # Permission Checking
//
// The Service type provides methods for checking user permissions:
//   - HasPermission: Check if user has a specific permission
//   - HasAnyPermission: Check if user has at least one permission from a list
//   - GetUserPermissions: Retrieve all permissions for a user
//
// # Middleware
//
// Fiber helpers are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - AddPermissionsToLocals: Add user permissions to template context
//   - HasPermissionInContext: Check a permission inside a handler, e.g. to
//     hide controls the user may not use
//
// Example usage:
//
//	authService := auth.NewService(db)
//
//	app.Get("/admin/settings/logging",
//	    auth.RequirePermission(authService, auth.PermAdminLoggingView),
//	    handler,
//	)
package auth
