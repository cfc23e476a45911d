// Package config provides the configuration for linecomment: the comment
// token per language, the default token and logging settings.
//
// # Sources
//
// Configuration is resolved with higher sources overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority (applied by callers)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← LINECOMMENT_TOKEN, LINECOMMENT_LOG_LEVEL
//	├─────────────────────────────┤
//	│  2. Config File             │  ← linecomment.toml or linecomment.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A language entry may point at a VS Code style language-configuration.json
// instead of naming its token directly; the token is then read from the
// file's comments.lineComment field.
//
// # Sub-packages
//
//   - loader: Configuration file decoding (TOML, YAML) and environment overrides
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	cfg, err := config.Load("linecomment.toml")
//	if err != nil {
//	    return err
//	}
//
//	token, err := cfg.ResolveToken("main.go", "", "") // "//"
package config
