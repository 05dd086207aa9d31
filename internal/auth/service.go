package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/models"
)

// Service provides authentication and authorization functionality.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// HasPermission checks if the role of the user has the permission assigned.
func (s *Service) HasPermission(userID uint64, permission string) (bool, error) {
	var count int64

	err := s.db.Table("permissions").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ? AND users.active = ? AND permissions.name = ?", userID, true, permission).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check role permission: %w", err)
	}

	return count > 0, nil
}

// HasAnyPermission checks if a user has at least one of the given permissions.
func (s *Service) HasAnyPermission(userID uint64, permissions []string) (bool, error) {
	for _, perm := range permissions {
		has, err := s.HasPermission(userID, perm)
		if err != nil {
			return false, err
		}

		if has {
			return true, nil
		}
	}

	return false, nil
}

// GetUserPermissions retrieves the permission names of the user's role.
func (s *Service) GetUserPermissions(userID uint64) ([]string, error) {
	var permissions []string

	err := s.db.Table("permissions").
		Distinct("permissions.name").
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN users ON users.role_id = role_permissions.role_id").
		Where("users.id = ? AND users.active = ?", userID, true).
		Order("permissions.name").
		Pluck("permissions.name", &permissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}

	return permissions, nil
}

// EnsurePermissions creates missing permissions and roles and links them as
// returned by RolePermissions. Existing rows are left untouched.
func (s *Service) EnsurePermissions() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		perms := make(map[string]uint, len(Permissions()))

		for _, def := range Permissions() {
			var p models.Permission

			err := tx.Where("name = ?", def.Name).
				Attrs(models.Permission{Resource: def.Resource, Action: def.Action, Description: def.Description}).
				FirstOrCreate(&p, models.Permission{Name: def.Name}).Error
			if err != nil {
				return fmt.Errorf("failed to ensure permission %s: %w", def.Name, err)
			}

			perms[def.Name] = p.ID
		}

		for roleName, names := range RolePermissions() {
			var role models.Role

			err := tx.Where("name = ?", roleName).
				Attrs(models.Role{IsSystem: true, Description: "built-in " + roleName + " role"}).
				FirstOrCreate(&role, models.Role{Name: roleName}).Error
			if err != nil {
				return fmt.Errorf("failed to ensure role %s: %w", roleName, err)
			}

			for _, name := range names {
				link := models.RolePermission{RoleID: role.ID, PermissionID: perms[name]}
				if err = tx.Where(&link).FirstOrCreate(&link).Error; err != nil {
					return fmt.Errorf("failed to link %s to role %s: %w", name, roleName, err)
				}
			}
		}

		return nil
	})
}

// RoleID returns the id of the named role.
func (s *Service) RoleID(name string) (uint, error) {
	var role models.Role

	if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
		return 0, fmt.Errorf("failed to find role %s: %w", name, err)
	}

	return role.ID, nil
}

// AssignRoleToUser assigns a role to a user.
func (s *Service) AssignRoleToUser(userID uint64, roleID uint) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("role_id", roleID).Error
}
