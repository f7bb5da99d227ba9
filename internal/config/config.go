// Package config loads pochi settings from CUE files.
package config

import (
	"errors"
	"fmt"
)

// Schema constrains pochi config files.
const Schema = `
skip_words?:      [...string]
strict_sanitize?: bool
strict_values?:   bool
collision_scope?: "adjacent" | "global"
sample?:          bool
db?:              string
log_level?:       "debug" | "info" | "warn" | "error"
`

// DefaultSkipWords are the Spanish stop words left out of variable codes.
var DefaultSkipWords = []string{"del", "la", "que", "se", "en", "el", "de"}

// Config holds pochi settings.
type Config struct {
	SkipWords      []string `json:"skip_words"`
	StrictSanitize bool     `json:"strict_sanitize"`
	StrictValues   bool     `json:"strict_values"`
	CollisionScope string   `json:"collision_scope"`
	Sample         bool     `json:"sample"`
	DB             string   `json:"db"`
	LogLevel       string   `json:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SkipWords:      append([]string(nil), DefaultSkipWords...),
		StrictSanitize: true,
		CollisionScope: "adjacent",
		DB:             "pochi.db",
		LogLevel:       "warn",
	}
}

// Load reads the given CUE files over the defaults. A field set in an
// earlier file wins over later files.
func Load(paths ...string) (Config, error) {
	cfg := Default()
	if len(paths) == 0 {
		return cfg, nil
	}

	loader := NewLoader(paths, Schema)
	fields := []struct {
		path   string
		target any
	}{
		{"skip_words", &cfg.SkipWords},
		{"strict_sanitize", &cfg.StrictSanitize},
		{"strict_values", &cfg.StrictValues},
		{"collision_scope", &cfg.CollisionScope},
		{"sample", &cfg.Sample},
		{"db", &cfg.DB},
		{"log_level", &cfg.LogLevel},
	}
	for _, f := range fields {
		err := loader.AssignFirst(f.path, f.target)
		if errors.Is(err, ErrValueNotFound) {
			continue
		}
		if err != nil {
			return Config{}, fmt.Errorf("config %s: %w", f.path, err)
		}
	}
	return cfg, nil
}
