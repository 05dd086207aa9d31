package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/models"
)

const (
	defaultAdminUser     = "admin"
	defaultAdminEmail    = "admin@localhost"
	defaultAdminPassword = "changeme"
)

// seed creates the permissions and roles, and an admin user if there are no users yet.
func seed(db *gorm.DB) error {
	authService := auth.NewService(db)

	if err := authService.EnsurePermissions(); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return nil
	}

	roleID, err := authService.RoleID(auth.RoleAdmin)
	if err != nil {
		return err
	}

	if _, err = auth.NewLocalProvider(db).CreateUser(
		defaultAdminUser, defaultAdminEmail, defaultAdminPassword, "", "", roleID,
	); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Warn().Str("user", defaultAdminUser).Msg("created the default admin user, change its password")

	return nil
}
