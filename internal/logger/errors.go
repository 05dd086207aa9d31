package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("config Log.AppName can not be empty")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("config Log.ServiceName can not be empty")

	// ErrUnknownLevel is returned when a verbosity level name can not be mapped.
	ErrUnknownLevel = errors.New("unknown verbosity level")

	// ErrDataDogNotConfigured is returned when observability logging is enabled
	// but no datadog api key is configured.
	ErrDataDogNotConfigured = errors.New("datadog observability sink is not configured")

	// ErrStoreNil is returned if the manager has no settings store.
	ErrStoreNil = errors.New("logging settings store is nil")
)

// ErrorHandler implements a custom error handler.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "zerolog: could not write event: %v\n", err)
}
