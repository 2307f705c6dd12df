// Package config loads optional hugo-utils.toml defaults.
// Precedence: CLI flags > config file > built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
)

// Built-in defaults used when neither a flag nor the config file supplies a
// value.
const (
	DefaultBaseLevel = "Site Home"
	DefaultBaseURL   = "http://localhost"
	DefaultFile      = "hugo-utils.toml"
)

// Config mirrors the hugo-utils.toml layout. Loaded once per run and never
// mutated afterwards.
type Config struct {
	Index   IndexConfig   `toml:"index"`
	Lastmod LastmodConfig `toml:"lastmod"`
}

// IndexConfig holds defaults for the index subcommand.
type IndexConfig struct {
	BaseLevel string   `toml:"base_level"`
	BaseURL   string   `toml:"base_url"`
	Tags      []string `toml:"tags"`
}

// LastmodConfig holds defaults for the lastmod subcommand.
type LastmodConfig struct {
	Field string `toml:"field"`
}

// Load reads path when set, otherwise hugo-utils.toml in the working
// directory. A missing default file is not an error; a missing explicit
// file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFile
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
