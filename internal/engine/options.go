package engine

import (
	"go.uber.org/zap"

	"github.com/dshills/linecomment/internal/engine/buffer"
	"github.com/dshills/linecomment/internal/engine/history"
)

// DefaultCommentToken is used when no token is configured.
const DefaultCommentToken = "//"

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding forces one line ending for every line when writing the text out.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.bufferOpts = append(e.bufferOpts, buffer.WithLineEnding(ending))
	}
}

// WithCommentToken sets the line comment token.
func WithCommentToken(token string) Option {
	return func(e *Engine) {
		e.token = token
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithLogger sets the logger. The engine logs under the "engine" name.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithReadOnly makes the engine reject edits.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}

func defaults() *Engine {
	return &Engine{
		token:          DefaultCommentToken,
		maxUndoEntries: history.DefaultMaxEntries,
		logger:         zap.NewNop(),
	}
}
