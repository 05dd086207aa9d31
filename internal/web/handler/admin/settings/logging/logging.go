// Package logging implements the log settings admin page.
package logging

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/navigation"
)

const (
	// Path is the read-only view of the log settings.
	Path = handler.RootPath + "admin/settings/logging"

	// TemplateName is the log settings template.
	TemplateName = "admin/settings/logging"

	// Page modes.
	ModeReadOnly = "read"
	ModeEditing  = "edit"

	// MsgSaved is shown after a successful save.
	MsgSaved = "Setting saved successfully."
	// MsgDeleted is shown after the log file was deleted.
	MsgDeleted = "The log file was deleted."
	// MsgNotAuthorized is shown when a change is posted without edit permission.
	MsgNotAuthorized = "You are not allowed to change the log settings."
	// MsgSaveFailed is shown when the settings can not be stored.
	MsgSaveFailed = "The log settings could not be saved."
	// MsgDeleteFailed is shown when the log file can not be deleted.
	MsgDeleteFailed = "The log file could not be deleted."
	// MsgReloadFailed is shown when the settings were stored but not applied.
	MsgReloadFailed = "The running logging configuration was not updated, check the application log."
)

// LogSystem is the part of the logging subsystem the page drives.
type LogSystem interface {
	ReloadConfiguration() error
	RecycleSink() error
	DeleteLogFiles() error
	StandardCategories() []string
}

// View is the read-only presentation of the stored settings.
type View struct {
	Configured           bool
	Level                string
	Categories           []string
	LocalEnabled         bool
	ObservabilityEnabled bool
	MaxFileSizeMB        int
	RetainedFileCount    int
}

// Service is the log settings handler service.
type Service struct {
	store     logger.SettingsStore
	logs      LogSystem
	log       zerolog.Logger
	validate  *validator.Validate
	authorize func(c *fiber.Ctx, permission string) bool
}

// Handler is the log settings handler.
var Handler = Service{}

// Init initializes the log settings handler.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	store logger.SettingsStore,
	logs *logger.Manager,
	authService *auth.Service,
) {
	if app == nil || cfg == nil || store == nil || logs == nil || authService == nil {
		log.Fatal().Msg(handler.ErrMissingDependencyLogMsg)
		return
	}

	v, err := newValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create log settings validator")
		return
	}

	s.store = store
	s.logs = logs
	s.log = logs.Logger(logger.CategorySettings)
	s.validate = v
	s.authorize = func(c *fiber.Ctx, permission string) bool {
		return auth.HasPermissionInContext(c, authService, permission)
	}

	s.routes(app, auth.RequirePermission(authService, auth.PermAdminLoggingView))
}

func (s *Service) routes(app *fiber.App, admit fiber.Handler) {
	app.Route(Path, func(router fiber.Router) {
		router.Use(admit)
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Save)
		router.Get("/edit", s.Edit)
		router.Post("/cancel", s.Cancel)
		router.Post("/toggle-local", s.ToggleLocal)
		router.Post("/delete-log", s.DeleteLog)
	})
}

func (s *Service) canEdit(c *fiber.Ctx) bool {
	return s.authorize != nil && s.authorize(c, auth.PermAdminLoggingEdit)
}

// Get renders the read-only view.
func (s *Service) Get(c *fiber.Ctx) error {
	data := fiber.Map{}

	switch {
	case c.Query("deleted") == "1":
		data["Success"] = MsgDeleted
	case c.Query("deleted") == "0":
		data["Error"] = MsgDeleteFailed
	}

	return s.renderReadOnly(c, data)
}

// Edit renders the edit form from the stored settings.
func (s *Service) Edit(c *fiber.Ctx) error {
	if !s.canEdit(c) {
		return s.denied(c)
	}

	form := FormFromSettings(logger.LoadSettings(s.store))

	return s.renderEditing(c, &form, nil)
}

// Save validates the form, replaces the stored settings and reloads the logging subsystem.
func (s *Service) Save(c *fiber.Ctx) error {
	if !s.canEdit(c) {
		return s.denied(c)
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse log settings form")

		c.Status(fiber.StatusBadRequest)

		return s.renderEditing(c, form, fiber.Map{"Error": "The submitted form could not be read."})
	}

	if err := s.validate.Struct(form); err != nil {
		c.Status(fiber.StatusBadRequest)

		return s.renderEditing(c, form, fiber.Map{"Errors": validationMessages(err)})
	}

	settings, err := form.Settings()
	if err != nil {
		c.Status(fiber.StatusBadRequest)

		return s.renderEditing(c, form, fiber.Map{"Errors": validationMessages(err)})
	}

	if err = logger.SaveSettings(s.store, settings); err != nil {
		s.log.Error().Err(err).Msg("failed to save log settings")

		c.Status(fiber.StatusInternalServerError)

		return s.renderEditing(c, form, fiber.Map{"Error": MsgSaveFailed})
	}

	data := fiber.Map{"Success": MsgSaved}

	if err = s.logs.ReloadConfiguration(); err != nil {
		log.Error().Err(err).Msg("log settings saved but the logging subsystem failed to reload")

		data["Warning"] = MsgReloadFailed
	}

	s.log.Info().
		Str("verbosity", settings.Level.String()).
		Strs("categories", settings.Categories).
		Bool("local", settings.LocalLoggingEnabled).
		Bool("observability", settings.ObservabilityLoggingEnabled).
		Msg("log settings saved")

	return s.renderReadOnly(c, data)
}

// Cancel drops the edits.
func (s *Service) Cancel(c *fiber.Ctx) error {
	return c.Redirect(Path, fiber.StatusSeeOther)
}

// ToggleLocal re-renders the form with the local file settings shown or hidden.
// Nothing is stored.
func (s *Service) ToggleLocal(c *fiber.Ctx) error {
	if !s.canEdit(c) {
		return s.denied(c)
	}

	form := new(Form)
	if err := c.BodyParser(form); err != nil {
		c.Status(fiber.StatusBadRequest)

		return s.renderEditing(c, form, fiber.Map{"Error": "The submitted form could not be read."})
	}

	return s.renderEditing(c, form, nil)
}

// DeleteLog closes the local category log and deletes it with its backups.
func (s *Service) DeleteLog(c *fiber.Ctx) error {
	if !s.canEdit(c) {
		return s.denied(c)
	}

	if err := s.logs.RecycleSink(); err != nil {
		s.log.Error().Err(err).Msg("failed to recycle the category log sink")
		return c.Redirect(Path+"?deleted=0", fiber.StatusSeeOther)
	}

	if err := s.logs.DeleteLogFiles(); err != nil {
		s.log.Error().Err(err).Msg("failed to delete the category log files")
		return c.Redirect(Path+"?deleted=0", fiber.StatusSeeOther)
	}

	log.Info().Msg("category log files deleted from the log settings page")

	return c.Redirect(Path+"?deleted=1", fiber.StatusSeeOther)
}

// denied renders the read-only view with 403, no action is taken.
func (s *Service) denied(c *fiber.Ctx) error {
	c.Status(fiber.StatusForbidden)

	return s.renderReadOnly(c, fiber.Map{"Error": MsgNotAuthorized})
}

func (s *Service) renderReadOnly(c *fiber.Ctx, data fiber.Map) error {
	nav := navigation.NewContext("Log Settings", navigation.SectionSettings, "logging", handler.RootPath).
		Current("Log Settings", Path)

	view := View{}
	if settings := logger.LoadSettings(s.store); settings != nil {
		view = View{
			Configured:           true,
			Level:                settings.Level.String(),
			Categories:           settings.Categories,
			LocalEnabled:         settings.LocalLoggingEnabled,
			ObservabilityEnabled: settings.ObservabilityLoggingEnabled,
			MaxFileSizeMB:        settings.MaxFileSizeMB(),
			RetainedFileCount:    settings.RetainedFileCount,
		}
	}

	out := fiber.Map{
		"Navigation": nav,
		"Mode":       ModeReadOnly,
		"Settings":   view,
		"CanEdit":    s.canEdit(c),
	}

	for k, v := range data {
		out[k] = v
	}

	return c.Render(TemplateName, out, handler.BaseLayout)
}

func (s *Service) renderEditing(c *fiber.Ctx, form *Form, data fiber.Map) error {
	nav := navigation.NewContext("Edit Log Settings", navigation.SectionSettings, "logging", handler.RootPath).
		Crumb("Log Settings", Path).
		Current("Edit", Path+"/edit")

	out := fiber.Map{
		"Navigation":           nav,
		"Mode":                 ModeEditing,
		"Form":                 form,
		"Levels":               logger.LevelNames(),
		"Categories":           MergeCategories(s.logs.StandardCategories(), form.Categories),
		"LocalSettingsVisible": form.LocalEnabled,
		"CanEdit":              true,
	}

	for k, v := range data {
		out[k] = v
	}

	return c.Render(TemplateName, out, handler.BaseLayout)
}
