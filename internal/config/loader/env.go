package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix of the environment overrides.
const DefaultEnvPrefix = "LINECOMMENT_"

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "LINECOMMENT_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "LINECOMMENT_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "TOKEN":      "comment.default_token",
		prefix + "LOG_LEVEL":  "logging.level",
		prefix + "LOG_FORMAT": "logging.format",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Prefix returns the environment variable prefix.
func (l *EnvLoader) Prefix() string {
	return l.prefix
}

// Load returns the set variables keyed by config path.
// Empty values count as set, so LINECOMMENT_TOKEN= clears the default token.
func (l *EnvLoader) Load() map[string]string {
	out := make(map[string]string)
	for env, path := range l.mapping {
		if val, ok := l.lookup(env); ok {
			out[path] = strings.TrimSpace(val)
		}
	}
	return out
}
