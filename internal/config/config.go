package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"

	"github.com/jolsen/png2ico/internal/paths"
)

// DefaultSizes is the standard Windows icon resolution set.
var DefaultSizes = []int{16, 32, 48, 64, 128, 256}

// Config holds the tool configuration. Zero-value fields take defaults;
// a config file overrides defaults and environment variables override both.
type Config struct {
	Sizes   []int `json:"sizes,omitempty" env:"PNG2ICO_SIZES" envSeparator:","`
	History bool  `json:"history,omitempty" env:"PNG2ICO_HISTORY"`
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = defaults()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

func defaults() Config {
	return Config{
		Sizes:   append([]int(nil), DefaultSizes...),
		History: true,
	}
}

// Load resolves and parses the configuration. The config file is looked up
// in order:
//  1. explicitPath (if non-empty; missing file is then an error)
//  2. png2ico.json next to the running binary
//  3. ~/.config/png2ico/png2ico.json (%AppData%\png2ico on Windows)
//
// No file found means defaults. Environment variables (PNG2ICO_SIZES,
// PNG2ICO_HISTORY) are applied last.
func Load(explicitPath string) (Config, error) {
	cfg := defaults()

	path := explicitPath
	if path == "" {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

func findConfig() string {
	// Next to binary
	exe, err := os.Executable()
	if err == nil {
		p := filepath.Join(filepath.Dir(exe), paths.ConfigFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// User config directory
	home, err := os.UserHomeDir()
	if err == nil {
		var p string
		if runtime.GOOS == "windows" {
			p = filepath.Join(home, "AppData", "Roaming", paths.AppDirName, paths.ConfigFileName)
		} else {
			p = filepath.Join(home, ".config", paths.AppDirName, paths.ConfigFileName)
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
