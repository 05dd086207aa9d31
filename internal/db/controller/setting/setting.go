// Package setting is the key-value settings store over the settings table.
package setting

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/models"
)

const (
	nameQueryPattern = "name = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to read or write a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Store reads and writes settings by name. Writes replace the whole value,
// concurrent writers are last writer wins.
type Store struct {
	db *gorm.DB
}

// NewStore returns a store on db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get retrieves a setting row by its name.
func (s *Store) Get(name string) (*models.Setting, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	var setting models.Setting

	if err := s.db.Where(nameQueryPattern, name).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingNotFound
		}

		return nil, fmt.Errorf("failed to read setting %s: %w", name, err)
	}

	return &setting, nil
}

// Lookup returns the value stored under name. A missing setting is reported
// with found=false, not as an error.
func (s *Store) Lookup(name string) (string, bool, error) {
	setting, err := s.Get(name)

	switch {
	case errors.Is(err, ErrSettingNotFound):
		return "", false, nil
	case err != nil:
		return "", false, err
	}

	return string(setting.Value), true, nil
}

// Put creates or replaces the value stored under name.
func (s *Store) Put(name, value string) error {
	if s == nil || s.db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	setting := models.Setting{Name: name, Value: []byte(value)}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", name, err)
	}

	return nil
}

// Delete removes the setting stored under name.
func (s *Store) Delete(name string) error {
	if s == nil || s.db == nil {
		return ErrDBNil
	}

	if name == "" {
		return ErrSettingNameEmpty
	}

	result := s.db.Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete setting %s: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}

// Names lists the stored setting names in alphabetical order.
func (s *Store) Names() ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBNil
	}

	var names []string

	if err := s.db.Model(&models.Setting{}).Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	return names, nil
}
