package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the in-memory representation of ~/.esearch/esearch.yaml.
type Config struct {
	IndexDir string   `yaml:"index_dir"`
	MakeConf []string `yaml:"make_conf,omitempty"`
	Color    bool     `yaml:"color"`
}

// EsearchDir returns the absolute path to ~/.esearch/.
func EsearchDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".esearch"), nil
}

// ConfigPath returns the absolute path to ~/.esearch/esearch.yaml.
func ConfigPath() (string, error) {
	dir, err := EsearchDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "esearch.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		IndexDir: "/var/cache/edb",
		// Later files win, so the legacy location goes first.
		MakeConf: []string{"/etc/make.conf", "/etc/portage/make.conf"},
		Color:    true,
	}
}

// Load reads ~/.esearch/esearch.yaml over the defaults. A missing file is not
// an error.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	// Expand ~ at load time.
	cfg.IndexDir, err = ExpandPath(cfg.IndexDir)
	if err != nil {
		return nil, err
	}
	for i, p := range cfg.MakeConf {
		if cfg.MakeConf[i], err = ExpandPath(p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
