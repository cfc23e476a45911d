// Package main is the entry point for the linecomment tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/linecomment/internal/app"
	"github.com/dshills/linecomment/internal/config"
	"github.com/dshills/linecomment/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// isTerminal reports whether r is an interactive terminal.
var isTerminal = func(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	app   app.Options
	lines lineSpans
	write bool
	serve bool
	watch bool
	files []string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code, done := parseFlags(args, stdout, stderr)
	if done {
		return code
	}

	if opts.app.ConfigPath == "" {
		opts.app.ConfigPath = defaultConfigPath()
	}
	opts.app.LogOutput = stderr

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case opts.serve:
		return runServe(ctx, application, opts, stdin, stdout, stderr)
	case len(opts.files) > 0:
		return runFiles(application, opts, stdout, stderr)
	case !isTerminal(stdin):
		return runFilter(application, opts, stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: no input files (pipe text on stdin or name files)\n")
		return 2
	}
}

func runServe(ctx context.Context, application *app.Application, opts cliOptions, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.watch {
		go func() {
			if err := application.WatchConfig(ctx); err != nil {
				application.Logger().Warn("config watch stopped", zap.Error(err))
			}
		}()
	}

	if err := application.Serve(ctx, stdin, stdout); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runFiles(application *app.Application, opts cliOptions, stdout, stderr io.Writer) int {
	code := 0
	for _, path := range opts.files {
		res, err := application.ToggleFile(path, app.Request{Lines: opts.lines}, opts.write)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			code = 1
			continue
		}
		if !opts.write {
			fmt.Fprint(stdout, res.Text)
		}
	}
	return code
}

func runFilter(application *app.Application, opts cliOptions, stdin io.Reader, stdout, stderr io.Writer) int {
	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: reading stdin: %v\n", err)
		return 1
	}

	res, err := application.ToggleText(app.Request{Text: string(data), Lines: opts.lines})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, res.Text)
	return 0
}

// parseFlags parses args. done is set when the process should exit with
// code without doing any work.
func parseFlags(args []string, stdout, stderr io.Writer) (opts cliOptions, code int, done bool) {
	fs := flag.NewFlagSet("linecomment", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var showVersion bool
	var showHelp bool

	fs.StringVar(&opts.app.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.app.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.app.Language, "lang", "", "Language whose comment token to use")
	fs.StringVar(&opts.app.Language, "l", "", "Language whose comment token to use (shorthand)")
	fs.StringVar(&opts.app.Token, "token", "", "Comment token, overrides the language")
	fs.StringVar(&opts.app.Token, "t", "", "Comment token, overrides the language (shorthand)")
	fs.Var(&opts.lines, "lines", "Line range start:end to toggle, 1-indexed and repeatable (default: all lines)")
	fs.Var(&opts.lines, "n", "Line range start:end to toggle (shorthand)")
	fs.BoolVar(&opts.write, "write", false, "Write results back to the files")
	fs.BoolVar(&opts.write, "w", false, "Write results back to the files (shorthand)")
	fs.BoolVar(&opts.serve, "serve", false, "Serve JSON-lines toggle requests on stdin")
	fs.BoolVar(&opts.watch, "watch", false, "Reload the config file on change (with -serve)")
	fs.StringVar(&opts.app.Script, "script", "", "Lua script to run instead of the built-in toggle")
	fs.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "linecomment - toggle line comments\n\n")
		fmt.Fprintf(stderr, "Usage: linecomment [options] [files...]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  linecomment main.go               Print main.go with all lines toggled\n")
		fmt.Fprintf(stderr, "  linecomment -w -n 3:7 main.go     Toggle lines 3-7 in place\n")
		fmt.Fprintf(stderr, "  cat x.sql | linecomment -l sql    Filter stdin\n")
		fmt.Fprintf(stderr, "  linecomment -serve -watch -c lc.toml\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showHelp {
		fs.Usage()
		return opts, 0, true
	}

	if showVersion {
		fmt.Fprintf(stdout, "linecomment %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, true
	}

	if opts.app.LogLevel != "" {
		switch strings.ToLower(opts.app.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
			// Valid
		default:
			fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
			return opts, 2, true
		}
	}

	if opts.watch && !opts.serve {
		fmt.Fprintf(stderr, "Error: -watch requires -serve\n")
		return opts, 2, true
	}

	opts.files = fs.Args()
	if opts.serve && len(opts.files) > 0 {
		fmt.Fprintf(stderr, "Error: -serve takes no files\n")
		return opts, 2, true
	}

	return opts, 0, false
}

// defaultConfigPath returns $LINECOMMENT_CONFIG, or the first config file
// found in the user config directory, or "".
func defaultConfigPath() string {
	if p, ok := os.LookupEnv("LINECOMMENT_CONFIG"); ok {
		return p
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, "linecomment", name)
		if config.Exists(p) {
			return p
		}
	}
	return ""
}

// lineSpans collects repeated -lines values.
type lineSpans []engine.LineSpan

func (s *lineSpans) String() string {
	parts := make([]string, 0, len(*s))
	for _, span := range *s {
		parts = append(parts, fmt.Sprintf("%d:%d", span.First+1, span.Last+1))
	}
	return strings.Join(parts, ",")
}

// Set parses "start:end" or a single line number. Lines are 1-indexed.
func (s *lineSpans) Set(v string) error {
	startStr, endStr, found := strings.Cut(v, ":")
	if !found {
		endStr = startStr
	}

	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil || start < 1 {
		return fmt.Errorf("invalid start line in %q", v)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil || end < 1 {
		return fmt.Errorf("invalid end line in %q", v)
	}
	if end < start {
		return fmt.Errorf("end line before start line in %q", v)
	}

	*s = append(*s, engine.LineSpan{First: start - 1, Last: end - 1})
	return nil
}
