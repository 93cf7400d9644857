package service

import "errors"

// Sentinel kinds for service lifecycle errors.
var (
	ErrStopped = errors.New("service stopped")
)
