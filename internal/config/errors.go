package config

import (
	"errors"

	"github.com/dshills/linecomment/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownLanguage indicates no language with the given name is configured.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrNoToken indicates no comment token could be resolved.
	ErrNoToken = errors.New("no comment token")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError
