// Package db opens the gorm database selected in the configuration.
package db

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/dsn"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/models"
)

// Gorm engines selectable with DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// ErrUnknownEngine is returned for an unsupported DB.GormEngine.
var ErrUnknownEngine = errors.New("unknown gorm engine")

// Dialector returns the gorm dialector for the configured engine. An empty
// engine means mysql.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DB.GormEngine {
	case "", EngineMySQL:
		return gormmysql.Open(dsn.Create(cfg)), nil
	case EnginePostgres:
		return postgres.Open(dsn.CreatePostgres(cfg)), nil
	case EngineSQLite:
		return sqlite.Open(dsn.CreateSQLite(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.DB.GormEngine)
	}
}

// Open connects to the database. sqlite in memory is limited to one
// connection so every query sees the same database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.DB.GormEngine == EngineSQLite && dsn.CreateSQLite(cfg) == ":memory:" {
		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return nil, fmt.Errorf("failed to get sql db: %w", dbErr)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the application tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.User{},
		&models.Setting{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
