package config

const defaultSessionTable = "sessions"

// DB selects the gorm engine and how to reach the database. For sqlite only
// Name (the file, empty for in memory) and Extras are used.
type DB struct {
	GormEngine string // mysql, postgres or sqlite
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Extras     string // appended to the DSN as query string
	// SessionTable holds web sessions for mysql and postgres.
	SessionTable string
}

// SessionTableName returns SessionTable or "sessions".
func (d DB) SessionTableName() string {
	if d.SessionTable == "" {
		return defaultSessionTable
	}

	return d.SessionTable
}
