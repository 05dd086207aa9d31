package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/auth"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	fiberlogger "github.com/GoChurchAdmin/GoChurchAdmin/internal/logger/adapter/fiber"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/payment"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/admin/settings/logging"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/dashboard"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/giving"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/login"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/handler/logout"
	authmiddleware "github.com/GoChurchAdmin/GoChurchAdmin/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"
)

// Dependencies are the shared services the handlers need besides config and db.
type Dependencies struct {
	// Settings is the key value store of runtime settings.
	Settings logger.SettingsStore
	// Logs is the runtime logging subsystem.
	Logs *logger.Manager
	// Payments creates checkouts, nil disables online giving.
	Payments payment.Provider
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and stops the web service gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		if err := s.App.Shutdown(); err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// CheckAlive returns 200 while the service accepts traffic and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// newTemplateEngine builds the html engine over the embedded templates, or
// the local directory with reloading in dev mode.
func newTemplateEngine(cfg *config.Config) *html.Engine {
	templateEngine := html.NewFileSystem(templatesFS(), ".gohtml")

	if cfg.DevMode {
		templateEngine = html.New(templateDir, ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("join", strings.Join)
	templateEngine.AddFunc("enabled", func(on bool) string {
		if on {
			return "Enabled"
		}

		return "Disabled"
	})
	templateEngine.AddFunc("has", func(list []string, item string) bool {
		for _, v := range list {
			if v == item {
				return true
			}
		}

		return false
	})

	return templateEngine
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, deps Dependencies) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if deps.Settings == nil || deps.Logs == nil {
		panic("settings store and log manager cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize:    8192,
			AppName:           "GoChurchAdmin",
			CaseSensitive:     true,
			Prefork:           false,
			Immutable:         true,
			PassLocalsToViews: true,
			Views:             newTemplateEngine(cfg),
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	webLog := deps.Logs.Logger(logger.CategoryWeb)

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		Category:      &webLog,
		CheckAliveURI: CheckAlivePath,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       staticFS(),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	authService := auth.NewService(db)

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authmiddleware.Middleware)
	app.Use(auth.AddPermissionsToLocals(authService))

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db, deps.Logs); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	logout.Handler.Init(app, cfg)
	dashboard.Handler.Init(app, cfg, deps.Logs, authService)
	logging.Handler.Init(app, cfg, deps.Settings, deps.Logs, authService)
	giving.Handler.Init(app, cfg, deps.Payments, deps.Logs, authService)

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
