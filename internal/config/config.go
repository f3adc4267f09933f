// Package config loads disx's optional .disxrc.toml, following the same
// read-file-then-Unmarshal-into-defaults idiom the CLI entry point uses
// for everything else.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file disx looks for in the current directory.
const FileName = ".disxrc.toml"

// Config holds disx's tunables. Zero values are replaced by defaults in
// Load; a missing file is not an error, it just leaves every field at its
// default. A file that cannot be read or parsed is an error.
type Config struct {
	PoolSize     int    `toml:"pool-size"`
	MinStringLen int    `toml:"min-string-len"`
	Theme        string `toml:"theme"`
}

// Default returns disx's built-in defaults.
func Default() Config {
	return Config{
		PoolSize:     runtime.NumCPU(),
		MinStringLen: 4,
		Theme:        "default",
	}
}

// Load reads FileName from the current directory, overlaying any set
// fields onto Default(). A missing file is not an error.
func Load() (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(FileName)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", FileName, err)
	}

	var override Config
	if err := toml.Unmarshal(data, &override); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", FileName, err)
	}

	if override.PoolSize > 0 {
		cfg.PoolSize = override.PoolSize
	}
	if override.MinStringLen > 0 {
		cfg.MinStringLen = override.MinStringLen
	}
	if override.Theme != "" {
		cfg.Theme = override.Theme
	}
	return cfg, nil
}
