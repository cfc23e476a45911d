package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrReadOnly indicates an operation was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")

	// ErrNoToken indicates no comment token is configured.
	ErrNoToken = errors.New("no comment token configured")
)
