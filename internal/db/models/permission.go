package models

import "time"

// Permission is a grant named resource.action, e.g. "admin.logging.edit".
// The set of permissions is fixed by the application and seeded at startup.
type Permission struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;size:100;not null"`
	Resource    string `gorm:"size:100;not null"` // admin.logging, giving
	Action      string `gorm:"size:50;not null"`  // view, edit, payment
	Description string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the gorm default.
func (Permission) TableName() string {
	return "permissions"
}
