package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/dshills/linecomment/internal/config/loader"
	"github.com/dshills/linecomment/internal/config/watcher"
)

// Config is the complete linecomment configuration.
type Config struct {
	Comment CommentConfig `toml:"comment" yaml:"comment"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// CommentConfig holds the comment tokens.
type CommentConfig struct {
	// DefaultToken is used when no language matches.
	DefaultToken string `toml:"default_token" yaml:"default_token"`

	// Languages maps a lowercase language name to its settings.
	Languages map[string]Language `toml:"languages" yaml:"languages"`
}

// Language describes one language.
type Language struct {
	// Token is the line comment token, e.g. "//".
	Token string `toml:"token" yaml:"token"`

	// Extensions lists file extensions (".go") or exact file names
	// ("Makefile") that select this language.
	Extensions []string `toml:"extensions" yaml:"extensions"`

	// LanguageConfiguration is an optional path to a language-configuration.json
	// the token is read from when Token is empty. Relative paths are resolved
	// against the config file's directory.
	LanguageConfiguration string `toml:"language_configuration" yaml:"language_configuration"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Comment: CommentConfig{
			DefaultToken: "#",
			Languages:    defaultLanguages(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

func defaultLanguages() map[string]Language {
	lang := func(token string, exts ...string) Language {
		return Language{Token: token, Extensions: exts}
	}
	return map[string]Language{
		"go":         lang("//", ".go"),
		"c":          lang("//", ".c", ".h"),
		"cpp":        lang("//", ".cc", ".cpp", ".cxx", ".hpp", ".hh"),
		"csharp":     lang("//", ".cs"),
		"rust":       lang("//", ".rs"),
		"java":       lang("//", ".java"),
		"kotlin":     lang("//", ".kt", ".kts"),
		"swift":      lang("//", ".swift"),
		"javascript": lang("//", ".js", ".mjs", ".cjs", ".jsx"),
		"typescript": lang("//", ".ts", ".tsx"),
		"protobuf":   lang("//", ".proto"),
		"python":     lang("#", ".py"),
		"shell":      lang("#", ".sh", ".bash", ".zsh"),
		"ruby":       lang("#", ".rb"),
		"perl":       lang("#", ".pl", ".pm"),
		"r":          lang("#", ".r"),
		"toml":       lang("#", ".toml"),
		"yaml":       lang("#", ".yaml", ".yml"),
		"make":       lang("#", "Makefile", ".mk"),
		"dockerfile": lang("#", "Dockerfile"),
		"lua":        lang("--", ".lua"),
		"sql":        lang("--", ".sql"),
		"haskell":    lang("--", ".hs"),
		"elm":        lang("--", ".elm"),
		"lisp":       lang(";", ".lisp", ".el", ".clj", ".scm"),
		"ini":        lang(";", ".ini"),
		"erlang":     lang("%", ".erl"),
		"latex":      lang("%", ".tex"),
		"vim":        lang("\"", ".vim"),
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path or a missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), path)
}

// LoadFS is Load reading through fsys.
func LoadFS(fsys loader.FileSystem, path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		var user Config
		found, err := loader.LoadFile(fsys, path, &user)
		if err != nil {
			return nil, err
		}
		if found {
			cfg.merge(&user)
		}
	}

	cfg.ApplyEnv(loader.NewEnvLoader(loader.DefaultEnvPrefix))

	if err := cfg.resolveLanguageConfigurations(fsys, filepath.Dir(path)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge overlays the non-empty settings of user onto c. Languages are merged
// per field so a user entry can change a token without repeating extensions.
func (c *Config) merge(user *Config) {
	if user.Comment.DefaultToken != "" {
		c.Comment.DefaultToken = user.Comment.DefaultToken
	}
	if user.Logging.Level != "" {
		c.Logging.Level = user.Logging.Level
	}
	if user.Logging.Format != "" {
		c.Logging.Format = user.Logging.Format
	}

	if c.Comment.Languages == nil {
		c.Comment.Languages = make(map[string]Language)
	}
	for name, ul := range user.Comment.Languages {
		name = strings.ToLower(name)
		l := c.Comment.Languages[name]
		if ul.Token != "" || ul.LanguageConfiguration != "" {
			l.Token = ul.Token
			l.LanguageConfiguration = ul.LanguageConfiguration
		}
		if len(ul.Extensions) > 0 {
			l.Extensions = ul.Extensions
		}
		c.Comment.Languages[name] = l
	}
}

// ApplyEnv applies the overrides collected by env.
func (c *Config) ApplyEnv(env *loader.EnvLoader) {
	for path, val := range env.Load() {
		switch path {
		case "comment.default_token":
			c.Comment.DefaultToken = val
		case "logging.level":
			c.Logging.Level = val
		case "logging.format":
			c.Logging.Format = val
		}
	}
}

func (c *Config) resolveLanguageConfigurations(fsys loader.FileSystem, baseDir string) error {
	for name, l := range c.Comment.Languages {
		if l.Token != "" || l.LanguageConfiguration == "" {
			continue
		}
		p := l.LanguageConfiguration
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		token, err := loadLanguageConfiguration(fsys, p)
		if err != nil {
			return fmt.Errorf("language %q: %w", name, err)
		}
		l.Token = token
		c.Comment.Languages[name] = l
	}
	return nil
}

// LoadLanguageConfiguration reads the line comment token from a VS Code
// style language-configuration.json. Both the string form and the
// {"comment": "..."} object form of comments.lineComment are accepted.
func LoadLanguageConfiguration(path string) (string, error) {
	return loadLanguageConfiguration(loader.DefaultFS(), path)
}

func loadLanguageConfiguration(fsys loader.FileSystem, path string) (string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading language configuration %s: %w", path, err)
	}
	return ParseLanguageConfiguration(path, data)
}

// ParseLanguageConfiguration extracts the line comment token from the JSON
// in data. source names the data in errors.
func ParseLanguageConfiguration(source string, data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", &ParseError{Path: source, Message: "invalid JSON"}
	}

	res := gjson.GetBytes(data, "comments.lineComment")
	if res.IsObject() {
		res = res.Get("comment")
	}
	if res.Type != gjson.String || res.String() == "" {
		return "", fmt.Errorf("%s: %w", source, ErrNoToken)
	}
	return res.String(), nil
}

// TokenFor returns the comment token of the named language.
func (c *Config) TokenFor(language string) (string, error) {
	l, ok := c.Comment.Languages[strings.ToLower(language)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, language)
	}
	if l.Token == "" {
		return "", fmt.Errorf("language %q: %w", language, ErrNoToken)
	}
	return l.Token, nil
}

// LanguageForPath returns the language whose extensions match path. An exact
// file name match wins over an extension match; ties go to the first
// language in name order.
func (c *Config) LanguageForPath(path string) (string, bool) {
	base := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(base))

	names := make([]string, 0, len(c.Comment.Languages))
	for name := range c.Comment.Languages {
		names = append(names, name)
	}
	sort.Strings(names)

	byExt := ""
	for _, name := range names {
		for _, e := range c.Comment.Languages[name].Extensions {
			if e == base {
				return name, true
			}
			if byExt == "" && ext != "" && strings.ToLower(e) == ext {
				byExt = name
			}
		}
	}
	return byExt, byExt != ""
}

// ResolveToken picks the comment token for a request. An explicit override
// wins, then the named language, then the language of path, then the
// default token.
func (c *Config) ResolveToken(path, language, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if language != "" {
		return c.TokenFor(language)
	}
	if path != "" {
		if name, ok := c.LanguageForPath(path); ok {
			if token, err := c.TokenFor(name); err == nil {
				return token, nil
			}
		}
	}
	if c.Comment.DefaultToken == "" {
		return "", ErrNoToken
	}
	return c.Comment.DefaultToken, nil
}

// Watch reloads the config at path whenever it changes and passes the new
// config to onChange. A file that fails to load is logged and skipped, so
// onChange only ever sees valid configs. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("config")

	w, err := watcher.New(path, watcher.WithLogger(logger))
	if err != nil {
		return err
	}

	logger.Info("watching config", zap.String("path", w.Path()))
	return w.Run(ctx, func(ev watcher.Event) {
		cfg, err := Load(path)
		if err != nil {
			logger.Warn("config reload failed", zap.String("path", ev.Path), zap.Error(err))
			return
		}
		logger.Info("config reloaded", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
		onChange(cfg)
	})
}

// Exists reports whether a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
