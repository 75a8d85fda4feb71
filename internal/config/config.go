// Package config loads worktime settings from an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the config file location.
	EnvConfigPath = "WORKTIME_CONFIG"
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "worktime.yaml"

	DefaultLogDir   = "logs"
	DefaultLogLevel = "warn"
)

// Interface selects how prompts are shown.
const (
	InterfaceAuto  = "auto"
	InterfacePlain = "plain"
	InterfaceTUI   = "tui"
)

type Config struct {
	// LogDir holds the by_date and by_project indexes.
	LogDir string `yaml:"log_dir"`
	// Journal is the SQLite journal path. Empty disables the journal.
	Journal   string `yaml:"journal"`
	Interface string `yaml:"interface"`
	LogLevel  string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		LogDir:    DefaultLogDir,
		Interface: InterfaceAuto,
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads the config file. With an empty path it tries $WORKTIME_CONFIG and
// then ./worktime.yaml; a missing default file yields Default(). A path given
// explicitly, directly or via the environment, must exist.
func Load(path string) (Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = DefaultFile
		explicit = false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg = hydrateDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func hydrateDefaults(cfg Config) Config {
	def := Default()
	if cfg.LogDir == "" {
		cfg.LogDir = def.LogDir
	}
	if cfg.Interface == "" {
		cfg.Interface = def.Interface
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return cfg
}

func (c Config) Validate() error {
	switch c.Interface {
	case InterfaceAuto, InterfacePlain, InterfaceTUI:
	default:
		return fmt.Errorf("interface must be %q, %q or %q, got %q", InterfaceAuto, InterfacePlain, InterfaceTUI, c.Interface)
	}
	if c.LogDir == "" {
		return errors.New("log_dir must not be empty")
	}
	return nil
}
