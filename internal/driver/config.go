package driver

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the optional tsg.toml configuration file: a small
// TOML-decoded struct with zero-value defaults so a missing file is
// never an error.
type Config struct {
	// Entry overrides the function instantiated and run as the
	// program's entry point (default "main").
	Entry string `toml:"entry"`

	// Optimize toggles whether the lowered module is run through
	// codegen's function-level optimization passes before the JIT
	// executes it.
	Optimize bool `toml:"optimize"`

	// History, if set, is the path to the SQLite compile-history
	// database. Empty disables history recording.
	History string `toml:"history"`
}

// DefaultConfig returns the configuration used when no tsg.toml is
// found.
func DefaultConfig() Config {
	return Config{Entry: EntryFuncName}
}

// LoadConfig reads and decodes path, returning DefaultConfig()
// unmodified (not an error) if path does not exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.Entry == "" {
		cfg.Entry = EntryFuncName
	}
	return cfg, nil
}
