package daemon

import "errors"

// ErrConfigNil is returned if the daemon is created without config.
var ErrConfigNil = errors.New("config is nil")
