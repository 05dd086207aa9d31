package logger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Level is the verbosity of the runtime category loggers, ordered from
// silent to most verbose.
type Level int

// Verbosity levels selectable on the log settings page.
const (
	LevelNone Level = iota
	LevelCritical
	LevelError
	LevelWarning
	LevelInformation
	LevelDebug
	LevelTrace
)

var levelNames = [...]string{
	LevelNone:        "None",
	LevelCritical:    "Critical",
	LevelError:       "Error",
	LevelWarning:     "Warning",
	LevelInformation: "Information",
	LevelDebug:       "Debug",
	LevelTrace:       "Trace",
}

// Levels returns every level in display order.
func Levels() []Level {
	return []Level{
		LevelNone,
		LevelCritical,
		LevelError,
		LevelWarning,
		LevelInformation,
		LevelDebug,
		LevelTrace,
	}
}

// LevelNames returns the display names of all levels in order.
func LevelNames() []string {
	out := make([]string, 0, len(levelNames))
	for _, l := range Levels() {
		out = append(out, l.String())
	}

	return out
}

// String returns the display name of the level.
func (l Level) String() string {
	if l < LevelNone || l > LevelTrace {
		return fmt.Sprintf("Level(%d)", int(l))
	}

	return levelNames[l]
}

// ParseLevel maps a level name (case-insensitive) to a Level.
func ParseLevel(name string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Level(i), nil
		}
	}

	return LevelNone, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}

// Zerolog maps the level to the minimum zerolog level an event needs to pass.
func (l Level) Zerolog() zerolog.Level {
	switch l {
	case LevelCritical:
		return zerolog.FatalLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarning:
		return zerolog.WarnLevel
	case LevelInformation:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.Disabled
	}
}

// Allows reports whether an event at lvl passes this verbosity.
func (l Level) Allows(lvl zerolog.Level) bool {
	if l == LevelNone || lvl == zerolog.Disabled {
		return false
	}

	// NoLevel events come from Log() and are always written when logging is on.
	if lvl == zerolog.NoLevel {
		return true
	}

	return lvl >= l.Zerolog()
}

// MarshalText stores the level by name.
func (l Level) MarshalText() ([]byte, error) {
	if l < LevelNone || l > LevelTrace {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}

	return []byte(l.String()), nil
}

// UnmarshalText reads a level stored by name.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}

	*l = parsed

	return nil
}
