package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/linecomment/internal/config"
	"github.com/dshills/linecomment/internal/engine"
	"github.com/dshills/linecomment/internal/engine/transaction"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	app, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestNewDefaults(t *testing.T) {
	app := newTestApp(t, Options{})
	require.NotNil(t, app.Config())
	require.NotEmpty(t, app.Config().Comment.Languages)
	require.NotNil(t, app.Metrics())
	require.NotNil(t, app.Logger())
}

func TestNewBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linecomment.toml")
	require.NoError(t, os.WriteFile(path, []byte("[comment\n"), 0o644))

	_, err := New(Options{ConfigPath: path})
	var cerr *ComponentError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "config", cerr.Component)
}

func TestNewBadLogLevel(t *testing.T) {
	_, err := New(Options{LogLevel: "loud"})
	var cerr *ComponentError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, "logging", cerr.Component)
}

func TestToggleText(t *testing.T) {
	app := newTestApp(t, Options{})

	res, err := app.ToggleText(Request{Text: "  1\n\n  2\n  3", Path: "script.py"})
	require.NoError(t, err)
	require.Equal(t, "  # 1\n\n  # 2\n  # 3", res.Text)
	require.Equal(t, "#", res.Token)
	require.Equal(t, []transaction.Change{
		transaction.NewInsert(2, "# "),
		transaction.NewInsert(7, "# "),
		transaction.NewInsert(11, "# "),
	}, res.Changes)
	require.Equal(t, []bool{true}, res.Commented)
	require.True(t, res.Changed("  1\n\n  2\n  3"))

	res, err = app.ToggleText(Request{Text: res.Text, Path: "script.py"})
	require.NoError(t, err)
	require.Equal(t, "  1\n\n  2\n  3", res.Text)
	require.Equal(t, []bool{false}, res.Commented)
}

func TestToggleTextMixedLineEndings(t *testing.T) {
	app := newTestApp(t, Options{Token: "#"})
	const input = "a\r\nb\nc\rd\r\n"

	res, err := app.ToggleText(Request{Text: input})
	require.NoError(t, err)
	require.Equal(t, "# a\r\n# b\n# c\r# d\r\n", res.Text)

	res, err = app.ToggleText(Request{Text: res.Text})
	require.NoError(t, err)
	require.Equal(t, input, res.Text)

	res, err = app.ToggleText(Request{Text: input, Lines: []engine.LineSpan{{First: 1, Last: 1}}})
	require.NoError(t, err)
	require.Equal(t, "a\r\n# b\nc\rd\r\n", res.Text, "untouched lines keep their endings")
}

func TestToggleFileMixedLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	const input = "package main\n\r\nfunc main() {}\r\n"
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	app := newTestApp(t, Options{})
	for i := 0; i < 2; i++ {
		_, err := app.ToggleFile(path, Request{}, true)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, input, string(data))
}

func TestToggleTextTokenResolution(t *testing.T) {
	app := newTestApp(t, Options{Language: "lua"})

	res, err := app.ToggleText(Request{Text: "x", Path: "main.go"})
	require.NoError(t, err)
	require.Equal(t, "-- x", res.Text, "option language wins over the path")

	res, err = app.ToggleText(Request{Text: "x", Language: "go"})
	require.NoError(t, err)
	require.Equal(t, "// x", res.Text, "request language wins over the option")

	res, err = app.ToggleText(Request{Text: "x", Token: ";"})
	require.NoError(t, err)
	require.Equal(t, "; x", res.Text)

	_, err = app.ToggleText(Request{Text: "x", Language: "cobol"})
	require.ErrorIs(t, err, config.ErrUnknownLanguage)

	var oerr *OperationError
	require.ErrorAs(t, err, &oerr)
	require.Equal(t, "toggle", oerr.Op)
}

func TestToggleTextSelections(t *testing.T) {
	app := newTestApp(t, Options{Token: "#"})

	res, err := app.ToggleText(Request{
		Text:  "a\nb\nc\nd",
		Lines: []engine.LineSpan{{First: 1, Last: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, "a\n# b\n# c\nd", res.Text)

	res, err = app.ToggleText(Request{
		Text:       "a\n\nc",
		Selections: []engine.Selection{{Anchor: 0, Head: 0}, {Anchor: 2, Head: 2}},
	})
	require.NoError(t, err)
	require.Equal(t, "# a\n\nc", res.Text)
	require.Equal(t, []bool{true, false}, res.Commented)
}

func TestToggleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\r\n\r\nfunc main() {}\r\n"), 0o600))

	core, logs := observer.New(zap.InfoLevel)
	app := newTestApp(t, Options{Logger: zap.New(core)})

	res, err := app.ToggleFile(path, Request{}, false)
	require.NoError(t, err)
	require.Equal(t, "// package main\r\n\r\n// func main() {}\r\n", res.Text)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "package main\r\n\r\nfunc main() {}\r\n", string(data), "file must be unchanged without write")

	_, err = app.ToggleFile(path, Request{}, true)
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, res.Text, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, fs.FileMode(0o600), info.Mode().Perm())

	require.Equal(t, 1, logs.FilterMessage("file updated").Len())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files may be left behind")
}

func TestToggleFileErrors(t *testing.T) {
	app := newTestApp(t, Options{})

	_, err := app.ToggleFile(filepath.Join(t.TempDir(), "missing.go"), Request{}, false)
	require.ErrorIs(t, err, fs.ErrNotExist)

	_, err = app.ToggleFile(t.TempDir(), Request{}, false)
	require.Error(t, err)

	require.Equal(t, uint64(2), app.Metrics().Snapshot().Failures)
}

func TestToggleTextScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "upper.lua")
	require.NoError(t, os.WriteFile(script, []byte(`return comment.toggle(string.upper(text), token)`), 0o644))

	app := newTestApp(t, Options{Script: script})

	res, err := app.ToggleText(Request{Text: "a\nb", Path: "x.sql"})
	require.NoError(t, err)
	require.Equal(t, "-- A\n-- B", res.Text)
	require.Equal(t, "--", res.Token)
	require.Empty(t, res.Changes)
}

func TestWatchConfig(t *testing.T) {
	t.Run("no path", func(t *testing.T) {
		app := newTestApp(t, Options{})
		require.ErrorIs(t, app.WatchConfig(context.Background()), ErrNoConfigPath)
	})

	t.Run("reload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "linecomment.toml")
		require.NoError(t, os.WriteFile(path, []byte("[comment]\ndefault_token = \"#\"\n"), 0o644))

		app := newTestApp(t, Options{ConfigPath: path})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.WatchConfig(ctx) }()

		require.Eventually(t, func() bool {
			_ = os.WriteFile(path, []byte("[comment]\ndefault_token = \"%\"\n"), 0o644)
			return app.Config().Comment.DefaultToken == "%"
		}, 5*time.Second, 200*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
	})
}

func TestErrors(t *testing.T) {
	base := errors.New("io error")

	oerr := NewOperationError("write", "/tmp/x", base)
	require.Equal(t, "write /tmp/x: io error", oerr.Error())
	require.ErrorIs(t, oerr, base)
	require.Equal(t, "toggle", NewOperationError("toggle", "", nil).Error())

	cerr := NewComponentError("config", "load", base)
	require.Equal(t, "config: load: io error", cerr.Error())
	require.ErrorIs(t, cerr, base)
	require.Equal(t, "config", NewComponentError("config", "", nil).Error())

	var nilOp *OperationError
	require.Empty(t, nilOp.Error())
	require.NoError(t, nilOp.Unwrap())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.RecordToggle(2*time.Millisecond, 3)
	m.RecordToggle(4*time.Millisecond, 1)
	m.RecordFailure()

	s := m.Snapshot()
	require.Equal(t, uint64(3), s.Requests)
	require.Equal(t, uint64(1), s.Failures)
	require.Equal(t, uint64(4), s.Changes)
	require.Equal(t, 3*time.Millisecond, s.AvgLatency)
	require.Equal(t, 4*time.Millisecond, s.MaxLatency)
	require.InDelta(t, 33.33, s.FailureRate(), 0.01)

	require.Zero(t, MetricsSnapshot{}.FailureRate())
}
