// Package dashboard provides the dashboard handler: the landing page after
// login with the state of logging and online giving.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// LogState is the part of the logging subsystem the dashboard reports on.
type LogState interface {
	Settings() logger.Settings
	LogFilePath() string
}

// Data represents the complete dashboard data.
type Data struct {
	Title                string
	Logging              logger.Settings
	LogFile              string
	GivingEnabled        bool
	PaymentMethods       []string
	CanViewLogging       bool
	CanUseGiving         bool
	BillingAddressOnPage bool
}

// Service is the dashboard handler service.
type Service struct {
	cfg       *config.Config
	logs      LogState
	authorize func(c *fiber.Ctx, permission string) bool
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, logs *logger.Manager, authService *auth.Service) {
	if app == nil || cfg == nil || logs == nil || authService == nil {
		log.Fatal().Msg(handler.ErrMissingDependencyLogMsg)
		return
	}

	s.cfg = cfg
	s.logs = logs
	s.authorize = func(c *fiber.Ctx, permission string) bool {
		return auth.HasPermissionInContext(c, authService, permission)
	}

	// register routes with permission checks
	app.Get(Path,
		auth.RequirePermission(authService, auth.PermDashboardView),
		s.Get,
	)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext("Dashboard", navigation.SectionDashboard, "dashboard", Path).
		Current("Dashboard", Path)

	opts := s.cfg.Payment.WidgetOptions()

	data := Data{
		Title:                s.cfg.Title,
		Logging:              s.logs.Settings(),
		LogFile:              s.logs.LogFilePath(),
		GivingEnabled:        s.cfg.Payment.Provider != "" && opts.HasPaymentMethod(),
		PaymentMethods:       opts.PaymentMethodTypes(),
		CanViewLogging:       s.authorize(c, auth.PermAdminLoggingView),
		CanUseGiving:         s.authorize(c, auth.PermGivingPayment),
		BillingAddressOnPage: opts.CollectBillingAddress(),
	}

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}
