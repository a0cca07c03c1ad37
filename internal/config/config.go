// Package config loads treepick settings from a TOML or HuJSON file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tailscale/hujson"
)

// Config holds settings shared by the subcommands. Command-line flags win
// over values read from a file.
type Config struct {
	OutputName     string   `toml:"output_name" json:"output_name"`
	BaseDir        string   `toml:"base_dir" json:"base_dir"`
	TokenEstimator string   `toml:"token_estimator" json:"token_estimator"`
	Select         string   `toml:"select" json:"select"`
	Exclude        []string `toml:"exclude" json:"exclude"`
	LogLevel       string   `toml:"log_level" json:"log_level"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		OutputName:     "output.txt",
		BaseDir:        ".",
		TokenEstimator: "simple",
		LogLevel:       "warn",
	}
}

// fileNames are looked up, in order, in the working directory.
var fileNames = []string{"treepick.toml", ".treepick.toml", "treepick.jsonc", "treepick.json"}

// Load reads the config at path. With an empty path it looks for one of the
// default file names in dir, then for config.toml under
// $HOME/.config/treepick, and falls back to Default when none exists.
func Load(path, dir string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	candidates := make([]string, 0, len(fileNames)+1)
	for _, name := range fileNames {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "treepick", "config.toml"))
	}

	for _, c := range candidates {
		cfg, err := LoadFile(c)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// LoadFile reads one config file. Unset keys keep their default values;
// unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
		}
	case ".json", ".jsonc":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		dec := json.NewDecoder(bytes.NewReader(std))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	cfg.Path = path
	return cfg, nil
}
