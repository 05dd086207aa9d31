package logging

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
)

// Form is the posted edit form.
type Form struct {
	Level                 string   `form:"level" validate:"required,loglevel"`
	Categories            []string `form:"categories"`
	LocalEnabled          bool     `form:"local_enabled"`
	ObservabilityEnabled  bool     `form:"observability_enabled"`
	AdvancedConfiguration string   `form:"advanced_configuration" validate:"omitempty,hjson"`
	MaxFileSizeMB         int      `form:"max_file_size_mb" validate:"required_if=LocalEnabled true,gte=0,lte=10240"`
	RetainedFileCount     int      `form:"retained_file_count" validate:"required_if=LocalEnabled true,gte=0,lte=1000"`
}

// CategoryOption is one checkbox of the category list.
type CategoryOption struct {
	Name     string
	Selected bool
	// Legacy marks a saved category the running build no longer registers.
	Legacy bool
}

// FormFromSettings fills the edit form from stored settings. Without settings
// the level stays empty and nothing is selected.
func FormFromSettings(s *logger.Settings) Form {
	if s == nil {
		return Form{}
	}

	return Form{
		Level:                 s.Level.String(),
		Categories:            append([]string(nil), s.Categories...),
		LocalEnabled:          s.LocalLoggingEnabled,
		ObservabilityEnabled:  s.ObservabilityLoggingEnabled,
		AdvancedConfiguration: s.AdvancedConfiguration,
		MaxFileSizeMB:         s.MaxFileSizeMB(),
		RetainedFileCount:     s.RetainedFileCount,
	}
}

// Settings builds a complete new configuration from a validated form.
func (f *Form) Settings() (*logger.Settings, error) {
	level, err := logger.ParseLevel(f.Level)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &logger.Settings{
		Level:                       level,
		Categories:                  uniqueNames(f.Categories),
		LocalLoggingEnabled:         f.LocalEnabled,
		ObservabilityLoggingEnabled: f.ObservabilityEnabled,
		AdvancedConfiguration:       f.AdvancedConfiguration,
		MaxFileSizeBytes:            logger.MegabytesToBytes(f.MaxFileSizeMB),
		RetainedFileCount:           f.RetainedFileCount,
	}, nil
}

// MergeCategories lists the standard categories followed by selected names the
// registry does not know, in the order they were saved. Selected entries are
// marked so stale selections survive the next save.
func MergeCategories(standard, selected []string) []CategoryOption {
	isSelected := make(map[string]bool, len(selected))
	for _, name := range selected {
		isSelected[name] = true
	}

	out := make([]CategoryOption, 0, len(standard)+len(selected))
	known := make(map[string]bool, len(standard))

	for _, name := range standard {
		if known[name] {
			continue
		}

		known[name] = true
		out = append(out, CategoryOption{Name: name, Selected: isSelected[name]})
	}

	for _, name := range selected {
		if name == "" || known[name] {
			continue
		}

		known[name] = true
		out = append(out, CategoryOption{Name: name, Selected: true, Legacy: true})
	}

	return out
}

func uniqueNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}

		if _, ok := seen[n]; ok {
			continue
		}

		seen[n] = struct{}{}
		out = append(out, n)
	}

	return out
}

// newValidator returns a validator knowing the loglevel and hjson tags.
func newValidator() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := logger.ParseLevel(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register loglevel validation: %w", err)
	}

	if err := v.RegisterValidation("hjson", func(fl validator.FieldLevel) bool {
		_, err := logger.ParseAdvanced(fl.Field().String())
		return err == nil
	}); err != nil {
		return nil, fmt.Errorf("failed to register hjson validation: %w", err)
	}

	return v, nil
}

var fieldLabels = map[string]string{ //nolint:gochecknoglobals
	"Level":                 "Verbosity level",
	"AdvancedConfiguration": "Advanced configuration",
	"MaxFileSizeMB":         "Max file size",
	"RetainedFileCount":     "Number of log files",
}

// validationMessages turns validator errors into one message per field.
func validationMessages(err error) map[string]string {
	out := make(map[string]string)

	errs, ok := err.(validator.ValidationErrors) //nolint:errorlint
	if !ok {
		out["Form"] = err.Error()
		return out
	}

	for _, fe := range errs {
		label := fieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}

		switch fe.Tag() {
		case "required", "required_if":
			out[fe.Field()] = label + " is required."
		case "loglevel":
			out[fe.Field()] = label + " must be one of " + strings.Join(logger.LevelNames(), ", ") + "."
		case "hjson":
			out[fe.Field()] = label + " is not valid."
		case "gte":
			out[fe.Field()] = label + " can not be negative."
		case "lte":
			out[fe.Field()] = fmt.Sprintf("%s must be at most %s.", label, fe.Param())
		default:
			out[fe.Field()] = label + " is invalid."
		}
	}

	return out
}
