// Package daemon wires the database, sessions, logging and payments into the
// web service.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/controller/setting"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/dsn"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/logger"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/payment"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	logs       *logger.Manager
	log        zerolog.Logger
}

// Start runs the web service until a termination signal arrives.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	log.Info().Str("addr", addr).Msg("starting web service")
	d.log.Info().Str("addr", addr).Msg("web service starting")

	go d.webService.WaitShutdown()

	err := d.webService.Start(addr)

	d.log.Info().Err(err).Msg("web service stopped")

	if closeErr := d.logs.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close the logging subsystem")
	}

	return err
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(conn); err != nil {
		return nil, err
	}

	if err = seed(conn); err != nil {
		return nil, err
	}

	session.Init(newSessionStorage(cfg))

	store := setting.NewStore(conn)

	logs := logger.NewManager(cfg.Log, store)
	if err = logs.ReloadConfiguration(); err != nil {
		log.Error().Err(err).Msg("failed to load the logging settings, category logging stays off")
	}

	dbLog := logs.Logger(logger.CategoryDatabase)
	dbLog.Info().
		Str("engine", cfg.DB.GormEngine).
		Msg("database migrated and seeded")

	provider, err := newPaymentProvider(cfg)
	if err != nil {
		return nil, err
	}

	deps := web.Dependencies{
		Settings: store,
		Logs:     logs,
	}

	// keep the interface nil when online giving is off
	if provider != nil {
		deps.Payments = provider
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, conn, deps),
		logs:       logs,
		log:        logs.Logger(logger.CategoryApp),
	}, nil
}

// OpenSettings opens the database and returns the settings store, for commands
// that only read settings.
func OpenSettings(cfg *config.Config) (*setting.Store, *gorm.DB, error) {
	if cfg == nil {
		return nil, nil, ErrConfigNil
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err = db.Migrate(conn); err != nil {
		return nil, nil, err
	}

	return setting.NewStore(conn), conn, nil
}

// newSessionStorage keeps sessions in the application database. sqlite keeps
// them in memory.
func newSessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case "", db.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         cfg.DB.SessionTableName(),
		})
	case db.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.CreatePostgres(cfg),
			Table:         cfg.DB.SessionTableName(),
		})
	default:
		log.Warn().Str("engine", cfg.DB.GormEngine).Msg("sessions are kept in memory")
		return nil
	}
}

func newPaymentProvider(cfg *config.Config) (*payment.StripeProvider, error) {
	switch cfg.Payment.Provider {
	case config.PaymentProviderStripe:
		provider, err := payment.NewStripeProvider(cfg.Payment.StripeSecretKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create stripe provider: %w", err)
		}

		return provider, nil
	default:
		log.Info().Msg("no payment provider configured, online giving is disabled")
		return nil, nil //nolint:nilnil
	}
}
