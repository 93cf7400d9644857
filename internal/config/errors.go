package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a configuration the service cannot run with.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a failure to read the config file or environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrUnknownBackend marks a store or cache name with no implementation.
	ErrUnknownBackend = fmt.Errorf("%w: unknown backend", ErrInvalidConfig)
)
