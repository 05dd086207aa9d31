package logger

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// SettingKeyLogging is the settings store key of the runtime logging configuration.
	SettingKeyLogging = "core_logging_settings"

	bytesPerMegabyte = 1 << 20
)

// SettingsStore persists small configuration blobs by key.
type SettingsStore interface {
	// Lookup returns the stored value and whether the key exists.
	Lookup(name string) (string, bool, error)
	// Put creates or replaces the value stored under name.
	Put(name, value string) error
}

// Settings is the persisted runtime logging configuration. It is always
// replaced as a whole, never patched.
type Settings struct {
	Level                       Level    `json:"standardLogLevel"`
	Categories                  []string `json:"standardCategories"`
	LocalLoggingEnabled         bool     `json:"isLocalLoggingEnabled"`
	ObservabilityLoggingEnabled bool     `json:"isObservabilityLoggingEnabled"`
	AdvancedConfiguration       string   `json:"advancedSettings"`
	MaxFileSizeBytes            int      `json:"maxFileSize"`
	RetainedFileCount           int      `json:"numberOfLogFiles"`
}

// MaxFileSizeMB returns the file size limit in whole megabytes, rounded up.
func (s *Settings) MaxFileSizeMB() int {
	if s.MaxFileSizeBytes <= 0 {
		return 0
	}

	return (s.MaxFileSizeBytes + bytesPerMegabyte - 1) / bytesPerMegabyte
}

// HasCategory reports whether name is one of the selected categories.
func (s *Settings) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c == name {
			return true
		}
	}

	return false
}

// MegabytesToBytes converts a size entered in megabytes.
func MegabytesToBytes(mb int) int {
	return mb * bytesPerMegabyte
}

// LoadSettings reads the logging configuration from the store.
// A missing or unreadable value yields nil: callers treat it as "not configured".
func LoadSettings(store SettingsStore) *Settings {
	if store == nil {
		return nil
	}

	raw, found, err := store.Lookup(SettingKeyLogging)
	if err != nil {
		log.Error().Err(err).Str("key", SettingKeyLogging).Msg("failed to read logging settings")
		return nil
	}

	if !found || raw == "" {
		return nil
	}

	s := new(Settings)
	if err = json.Unmarshal([]byte(raw), s); err != nil {
		log.Warn().Err(err).Str("key", SettingKeyLogging).Msg("stored logging settings are unreadable, ignoring them")
		return nil
	}

	return s
}

// SaveSettings serializes s and writes it to the store under SettingKeyLogging.
func SaveSettings(store SettingsStore, s *Settings) error {
	if store == nil {
		return ErrStoreNil
	}

	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode logging settings")
	}

	return errors.Wrap(store.Put(SettingKeyLogging, string(data)), "failed to store logging settings")
}
