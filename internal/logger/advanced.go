package logger

import (
	"strings"

	"github.com/hjson/hjson-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// AdvancedOptions is the parsed form of the free-form advanced configuration
// text. The text is HJSON so admins can leave comments and skip quotes.
type AdvancedOptions struct {
	// CategoryLevels overrides the standard verbosity per category.
	CategoryLevels map[string]string `json:"categoryLevels"`
	// Fields are added to every category log entry. Keys written by the
	// logger itself, like level or category, are rejected.
	Fields map[string]string `json:"fields"`
	// Compress gzips rotated local files.
	Compress bool `json:"compress"`
	// MaxAgeDays removes rotated local files older than this, 0 keeps them.
	MaxAgeDays int `json:"maxAgeDays"`
}

// ParseAdvanced parses the advanced configuration text. Blank text yields
// empty options.
func ParseAdvanced(text string) (AdvancedOptions, error) {
	var opts AdvancedOptions

	if strings.TrimSpace(text) == "" {
		return opts, nil
	}

	if err := hjson.Unmarshal([]byte(text), &opts); err != nil {
		return AdvancedOptions{}, errors.Wrap(err, "invalid advanced configuration")
	}

	if opts.MaxAgeDays < 0 {
		return AdvancedOptions{}, errors.New("invalid advanced configuration: maxAgeDays can not be negative")
	}

	for key := range opts.Fields {
		if reservedField(key) {
			return AdvancedOptions{}, errors.Errorf("invalid advanced configuration: field %q is reserved", key)
		}
	}

	for category, name := range opts.CategoryLevels {
		if _, err := ParseLevel(name); err != nil {
			return AdvancedOptions{}, errors.Wrapf(err, "invalid advanced configuration for category %s", category)
		}
	}

	return opts, nil
}

// levelOverrides resolves CategoryLevels to Level values. Entries were
// validated by ParseAdvanced.
func (o AdvancedOptions) levelOverrides() map[string]Level {
	out := make(map[string]Level, len(o.CategoryLevels))

	for category, name := range o.CategoryLevels {
		if l, err := ParseLevel(name); err == nil {
			out[category] = l
		}
	}

	return out
}

func reservedField(key string) bool {
	switch key {
	case zerolog.TimestampFieldName,
		zerolog.LevelFieldName,
		zerolog.MessageFieldName,
		zerolog.ErrorFieldName,
		zerolog.ErrorStackFieldName,
		zerolog.CallerFieldName,
		CategoryFieldName:
		return true
	}

	return false
}
