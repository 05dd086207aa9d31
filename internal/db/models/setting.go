// Package models contains database model definitions.
package models

import "time"

// Setting is one named configuration blob. The value is usually JSON owned
// by the package that reads it.
type Setting struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;size:100;not null"`
	Value     []byte
	UpdatedAt time.Time
}
