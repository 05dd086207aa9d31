package models

import "time"

// Role groups permissions. Every user has exactly one role; the built-in
// roles are "admin" (church office) and "viewer" (volunteers).
type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Description string `gorm:"size:255"`
	// IsSystem marks roles created at startup.
	IsSystem  bool `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the gorm default.
func (Role) TableName() string {
	return "roles"
}

// RolePermission links a role to one permission. Links go with the role or
// permission they point to.
type RolePermission struct {
	RoleID       uint       `gorm:"primaryKey;column:role_id"`
	PermissionID uint       `gorm:"primaryKey;column:permission_id"`
	Role         Role       `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	Permission   Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the gorm default.
func (RolePermission) TableName() string {
	return "role_permissions"
}
