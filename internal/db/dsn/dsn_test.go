package dsn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoChurchAdmin/GoChurchAdmin/internal/config"
	"github.com/GoChurchAdmin/GoChurchAdmin/internal/db/dsn"
)

func TestCreate(t *testing.T) {
	cfg := &config.Config{DB: config.DB{
		User:     "church",
		Password: "p@ss",
		Host:     "db",
		Port:     3306,
		Name:     "church",
		Extras:   "parseTime=true",
	}}

	assert.Equal(t, "church:p@ss@tcp(db:3306)/church?parseTime=true", dsn.Create(cfg))

	cfg.DB.Port = 5432
	cfg.DB.Extras = "sslmode=disable"
	assert.Equal(t, "postgres://church:p%40ss@db:5432/church?sslmode=disable", dsn.CreatePostgres(cfg))
}

func TestCreateSQLite(t *testing.T) {
	assert.Equal(t, ":memory:", dsn.CreateSQLite(&config.Config{}))
	assert.Equal(t, "church.db", dsn.CreateSQLite(&config.Config{DB: config.DB{Name: "church.db"}}))
	assert.Equal(t, "church.db?_pragma=foreign_keys(1)",
		dsn.CreateSQLite(&config.Config{DB: config.DB{Name: "church.db", Extras: "_pragma=foreign_keys(1)"}}))
}
