// Package app wires configuration, logging and the editing engine into the
// operations exposed by the linecomment command: toggling text, toggling
// files in place and serving editor requests.
package app

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/linecomment/internal/config"
	"github.com/dshills/linecomment/internal/engine"
	"github.com/dshills/linecomment/internal/engine/transaction"
	"github.com/dshills/linecomment/internal/logging"
	"github.com/dshills/linecomment/internal/plugin/lua"
)

// Application holds the shared state of all toggle operations.
type Application struct {
	mu sync.RWMutex

	config  *config.Config
	logger  *zap.Logger
	metrics *Metrics

	opts Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// Language forces a language for every request that names none.
	Language string

	// Token overrides the comment token for every request that names none.
	Token string

	// LogLevel overrides the configured logging level.
	LogLevel string

	// LogOutput is where logs are written. Defaults to os.Stderr.
	LogOutput io.Writer

	// Logger replaces the logger built from the configuration.
	Logger *zap.Logger

	// Script is a Lua script run instead of the built-in toggle.
	Script string
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, NewComponentError("config", "load", err)
	}

	logger := opts.Logger
	if logger == nil {
		level := cfg.Logging.Level
		if opts.LogLevel != "" {
			level = opts.LogLevel
		}
		out := opts.LogOutput
		if out == nil {
			out = os.Stderr
		}
		logger, err = logging.New(logging.Config{
			Level:  level,
			Format: cfg.Logging.Format,
			Output: out,
		})
		if err != nil {
			return nil, NewComponentError("logging", "setup", err)
		}
	}

	app := &Application{
		config:  cfg,
		logger:  logger,
		metrics: NewMetrics(),
		opts:    opts,
	}

	logger.Debug("application ready",
		zap.String("config", opts.ConfigPath),
		zap.Int("languages", len(cfg.Comment.Languages)),
	)
	return app, nil
}

// Config returns the current configuration.
func (app *Application) Config() *config.Config {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.config
}

// SetConfig replaces the configuration used by subsequent requests.
func (app *Application) SetConfig(cfg *config.Config) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.config = cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Close flushes buffered logs.
func (app *Application) Close() error {
	_ = app.logger.Sync()
	return nil
}

// Request describes one toggle.
type Request struct {
	Text     string
	Path     string
	Language string
	Token    string

	// Selections are character-offset selections. When empty, Lines is
	// used; when both are empty the whole text is toggled.
	Selections []engine.Selection

	// Lines are 0-indexed inclusive line spans.
	Lines []engine.LineSpan
}

// Result is the outcome of a toggle.
type Result struct {
	// Text is the new text, with the line endings of the input.
	Text string

	// Token is the comment token that was used.
	Token string

	// Changes are the applied changes in pre-edit character offsets, with
	// LF line endings. They are empty when a script produced the text.
	Changes []transaction.Change

	// Commented reports, per selection after merging, whether its lines are
	// commented after the toggle. Selections with only blank lines report
	// false.
	Commented []bool
}

// Changed reports whether the text differs from the input.
func (r Result) Changed(input string) bool {
	return r.Text != input
}

// ToggleText toggles line comments in req.Text.
func (app *Application) ToggleText(req Request) (Result, error) {
	timer := StartTimer()

	res, err := app.toggle(req)
	if err != nil {
		app.metrics.RecordFailure()
		return Result{}, NewOperationError("toggle", req.Path, err)
	}

	app.metrics.RecordToggle(timer.Elapsed(), len(res.Changes))
	return res, nil
}

func (app *Application) toggle(req Request) (Result, error) {
	cfg := app.Config()

	language := req.Language
	if language == "" {
		language = app.opts.Language
	}
	override := req.Token
	if override == "" {
		override = app.opts.Token
	}

	token, err := cfg.ResolveToken(req.Path, language, override)
	if err != nil {
		return Result{}, err
	}

	if app.opts.Script != "" {
		text, err := lua.RunScript(lua.Script{Path: app.opts.Script}, lua.Env{
			Text:  req.Text,
			Path:  req.Path,
			Token: token,
		})
		if err != nil {
			return Result{}, err
		}
		return Result{Text: text, Token: token}, nil
	}

	e := engine.New(
		engine.WithContent(req.Text),
		engine.WithCommentToken(token),
		engine.WithLogger(app.logger),
		engine.WithMaxUndoEntries(1),
	)
	switch {
	case len(req.Selections) > 0:
		e.SetSelections(req.Selections...)
	case len(req.Lines) > 0:
		e.SelectLines(req.Lines...)
	default:
		e.SelectAll()
	}

	tr, err := e.ToggleLineComments()
	if err != nil {
		return Result{}, err
	}

	var sb strings.Builder
	if _, err := e.WriteTo(&sb); err != nil {
		return Result{}, err
	}

	commented := make([]bool, len(tr.Selections))
	for i, sel := range tr.Selections {
		commented[i] = sel.Edited() && !sel.Detection.Commented
	}

	return Result{
		Text:      sb.String(),
		Token:     token,
		Changes:   tr.Transaction.Changes(),
		Commented: commented,
	}, nil
}

// ToggleFile toggles line comments in the file at path and, when write is
// set, saves the result back. req.Text and req.Path are filled in from the
// file.
func (app *Application) ToggleFile(path string, req Request, write bool) (Result, error) {
	doc, err := OpenDocument(path)
	if err != nil {
		app.metrics.RecordFailure()
		return Result{}, NewOperationError("read", path, err)
	}

	req.Text = string(doc.Content)
	req.Path = path

	res, err := app.ToggleText(req)
	if err != nil {
		return Result{}, err
	}

	if write && res.Changed(req.Text) {
		if err := doc.Save(res.Text); err != nil {
			return Result{}, NewOperationError("write", path, err)
		}
		app.logger.Info("file updated",
			zap.String("path", path),
			zap.Int("changes", len(res.Changes)),
		)
	}
	return res, nil
}

// WatchConfig reloads the configuration whenever the config file changes.
// It blocks until ctx is done.
func (app *Application) WatchConfig(ctx context.Context) error {
	if app.opts.ConfigPath == "" {
		return ErrNoConfigPath
	}
	return config.Watch(ctx, app.opts.ConfigPath, app.logger, app.SetConfig)
}
