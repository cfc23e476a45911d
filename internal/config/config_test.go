package config

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
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[filepath.ToSlash(path)]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, "#", cfg.Comment.DefaultToken)

	for name, l := range cfg.Comment.Languages {
		require.NotEmpty(t, l.Token, "language %s has no token", name)
		require.NotEmpty(t, l.Extensions, "language %s has no extensions", name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadFS(memFS{}, "missing.toml")
	require.NoError(t, err)
	require.Equal(t, Default().Comment.DefaultToken, cfg.Comment.DefaultToken)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	fsys := memFS{
		"cfg/linecomment.toml": `
[comment]
default_token = "//"

[comment.languages.go]
token = "///"

[comment.languages.Nix]
token = "#"
extensions = [".nix"]

[logging]
level = "debug"
`,
	}

	cfg, err := LoadFS(fsys, "cfg/linecomment.toml")
	require.NoError(t, err)

	require.Equal(t, "//", cfg.Comment.DefaultToken)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)

	goLang := cfg.Comment.Languages["go"]
	require.Equal(t, "///", goLang.Token)
	require.Equal(t, []string{".go"}, goLang.Extensions)

	require.Contains(t, cfg.Comment.Languages, "nix")
	require.Equal(t, "python", mustLanguage(t, cfg, "x.py"))
}

func TestLoadYAML(t *testing.T) {
	fsys := memFS{
		"linecomment.yaml": "comment:\n  languages:\n    lua:\n      token: \"---\"\n",
	}

	cfg, err := LoadFS(fsys, "linecomment.yaml")
	require.NoError(t, err)

	token, err := cfg.TokenFor("lua")
	require.NoError(t, err)
	require.Equal(t, "---", token)
}

func TestLoadParseError(t *testing.T) {
	_, err := LoadFS(memFS{"bad.toml": "[comment\n"}, "bad.toml")

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "bad.toml", perr.Path)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LINECOMMENT_TOKEN", ";;")
	t.Setenv("LINECOMMENT_LOG_LEVEL", "error")

	cfg, err := LoadFS(memFS{"c.toml": "[comment]\ndefault_token = \"//\"\n"}, "c.toml")
	require.NoError(t, err)
	require.Equal(t, ";;", cfg.Comment.DefaultToken)
	require.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadLanguageConfigurationReference(t *testing.T) {
	fsys := memFS{
		"cfg/linecomment.toml": `
[comment.languages.zig]
extensions = [".zig"]
language_configuration = "zig/language-configuration.json"
`,
		"cfg/zig/language-configuration.json": `{"comments": {"lineComment": "//", "blockComment": null}}`,
	}

	cfg, err := LoadFS(fsys, "cfg/linecomment.toml")
	require.NoError(t, err)

	token, err := cfg.ResolveToken("main.zig", "", "")
	require.NoError(t, err)
	require.Equal(t, "//", token)
}

func TestParseLanguageConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr error
	}{
		{"string form", `{"comments": {"lineComment": "--"}}`, "--", nil},
		{"object form", `{"comments": {"lineComment": {"comment": "#", "noIndent": true}}}`, "#", nil},
		{"missing", `{"comments": {"blockComment": ["/*", "*/"]}}`, "", ErrNoToken},
		{"wrong type", `{"comments": {"lineComment": 3}}`, "", ErrNoToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLanguageConfiguration("lc.json", []byte(tt.data))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLanguageConfiguration("lc.json", []byte(`{"comments": `))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestLoadLanguageConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "language-configuration.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"comments":{"lineComment":"%"}}`), 0o644))

	token, err := LoadLanguageConfiguration(path)
	require.NoError(t, err)
	require.Equal(t, "%", token)

	_, err = LoadLanguageConfiguration(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTokenFor(t *testing.T) {
	cfg := Default()

	token, err := cfg.TokenFor("Python")
	require.NoError(t, err)
	require.Equal(t, "#", token)

	_, err = cfg.TokenFor("cobol")
	require.ErrorIs(t, err, ErrUnknownLanguage)

	cfg.Comment.Languages["empty"] = Language{}
	_, err = cfg.TokenFor("empty")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestLanguageForPath(t *testing.T) {
	cfg := Default()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"main.go", "go", true},
		{"/src/lib/mod.RS", "rust", true},
		{"build/Makefile", "make", true},
		{"Dockerfile", "dockerfile", true},
		{"notes.txt", "", false},
		{"README", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := cfg.LanguageForPath(tt.path)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestResolveToken(t *testing.T) {
	cfg := Default()

	tests := []struct {
		name     string
		path     string
		language string
		override string
		want     string
		wantErr  error
	}{
		{"override wins", "main.go", "python", "!", "!", nil},
		{"language beats path", "main.go", "lua", "", "--", nil},
		{"path", "query.sql", "", "", "--", nil},
		{"default", "notes.txt", "", "", "#", nil},
		{"unknown language", "", "cobol", "", "", ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cfg.ResolveToken(tt.path, tt.language, tt.override)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	cfg.Comment.DefaultToken = ""
	_, err := cfg.ResolveToken("notes.txt", "", "")
	require.ErrorIs(t, err, ErrNoToken)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linecomment.toml")
	require.NoError(t, os.WriteFile(path, []byte("[comment]\ndefault_token = \"#\"\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configs := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, zap.NewNop(), func(cfg *Config) { configs <- cfg })
	}()

	// Keep rewriting until the watcher, which starts asynchronously, has
	// seen a change.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-configs:
			require.Equal(t, ";", cfg.Comment.DefaultToken)
			cancel()
			require.NoError(t, <-done)
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("[comment]\ndefault_token = \";\"\n"), 0o644))
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func mustLanguage(t *testing.T, cfg *Config, path string) string {
	t.Helper()
	name, ok := cfg.LanguageForPath(path)
	require.True(t, ok, "no language for %s", path)
	return name
}
