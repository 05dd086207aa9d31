package logger

import (
	"time"
)

// Console implements a console based logger.
type Console struct {
	Enabled          bool `toml:"enabled"`
	UseConsoleWriter bool
}

// LogFile implements the file based loggers.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	// application log, warn and above go to ErrorLog.
	InfoLog    string `toml:"info"`
	ErrorLog   string `toml:"error"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`

	// CategoryLog is the file the runtime category loggers write to when
	// local logging is enabled in the stored logging settings.
	CategoryLog string `toml:"category"`
}

// DataDog implements a datadog config used by the observability sink.
type DataDog struct {
	ServiceName string        `toml:"serviceName"`
	APIKey      string        `toml:"apiKey"` // API Key defined at datadog
	Enabled     bool          `toml:"enabled"`
	Site        string        `toml:"site"`    // Regional Site aka DD_SITE ("datadoghq.eu")
	Timeout     time.Duration `toml:"timeout"` // how long to wait to send a batch to datadog.
	BatchSize   int           `toml:"batchSize"`
	QueueSize   int           `toml:"queueSize"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole echoes web access entries to stdout in addition
	// to the Web category.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	File LogFile `toml:"file"`

	// DataDog is the observability sink.
	DataDog DataDog
}
