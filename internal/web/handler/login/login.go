package login

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the login template, rendered without the base layout.
	TemplateName = "login"

	// SuccessRedirect is where a successful login lands.
	SuccessRedirect = "/dashboard"
)

// Form is the login form.
type Form struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Service is the login handler service.
type Service struct {
	cfg   *config.Config
	local *auth.LocalProvider
	log   zerolog.Logger
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, logs *logger.Manager) error {
	if app == nil || cfg == nil || db == nil || logs == nil {
		return ErrNilDependency
	}

	s.cfg = cfg
	s.local = auth.NewLocalProvider(db)
	s.log = logs.Logger(logger.CategoryAuth)

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Post(handler.RouterRootPath, s.Post)
	})

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

func (s *Service) renderError(c *fiber.Ctx, err error) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": err.Error(),
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := new(Form)

	if err := c.BodyParser(form); err != nil {
		s.log.Warn().Err(err).Msg("failed to parse login form")
		return s.renderError(c, ErrInvalidFormData)
	}

	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		return s.renderError(c, ErrInvalidCredentials)
	}

	user, err := s.local.Authenticate(form.Username, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) ||
			errors.Is(err, auth.ErrInvalidPassword) ||
			errors.Is(err, auth.ErrUserAccountDisabled) {
			s.log.Warn().Err(err).Str("username", form.Username).Str("ip", c.IP()).Msg("login failed")
			return s.renderError(c, ErrInvalidCredentials)
		}

		s.log.Error().Err(err).Str("username", form.Username).Msg("login failed")

		return s.renderError(c, ErrInternalServerError)
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, ErrInternalServerError)
	}

	expiry := s.cfg.Webserver.Session.ExpiryTime
	if expiry <= 0 {
		expiry = session.Expiration
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, expiry); err != nil {
		s.log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, ErrInternalServerError)
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(expiry.Seconds()),
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	s.log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")

	return c.Redirect(SuccessRedirect)
}
