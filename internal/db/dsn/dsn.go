// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
)

// Create builds the mysql Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// CreatePostgres builds a postgres connection URI from the configuration.
// Extras is appended as query string, e.g. "sslmode=disable".
func CreatePostgres(dbCfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(dbCfg.DB.User, dbCfg.DB.Password),
		Host:     dbCfg.DB.Host + ":" + strconv.Itoa(dbCfg.DB.Port),
		Path:     "/" + dbCfg.DB.Name,
		RawQuery: dbCfg.DB.Extras,
	}

	return u.String()
}

// CreateSQLite returns the sqlite file name, ":memory:" if none is configured.
func CreateSQLite(dbCfg *config.Config) string {
	if dbCfg.DB.Name == "" {
		return ":memory:"
	}

	if dbCfg.DB.Extras == "" {
		return dbCfg.DB.Name
	}

	return dbCfg.DB.Name + "?" + dbCfg.DB.Extras
}
