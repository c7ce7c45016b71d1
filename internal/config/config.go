// Package config loads process configuration for focusmine.
//
// Configuration comes from an optional YAML file. A missing file yields
// the defaults; unknown keys are rejected so typos surface at startup.
// Command-line flags are applied by main on top of the loaded values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/focusmine/internal/model"
	"github.com/sadopc/focusmine/internal/store"
)

type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `yaml:"db_path"`

	// LogFile receives the structured log. The TUI owns the terminal,
	// so logs never go to stderr while it runs.
	LogFile string `yaml:"log_file"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Timer seeds the settings of a fresh database. Settings already
	// stored in the database win.
	Timer model.Settings `yaml:"timer"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	cfg := Config{
		LogLevel: "info",
		Timer:    model.DefaultSettings(),
	}
	if path, err := store.DefaultDBPath(); err == nil {
		cfg.DBPath = path
		cfg.LogFile = filepath.Join(filepath.Dir(path), "focusmine.log")
	}
	return cfg
}

// DefaultPath returns ~/.config/focusmine/config.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "focusmine", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(c)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// expand resolves a leading ~ in paths.
func (c *Config) expand() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for _, p := range []*string{&c.DBPath, &c.LogFile} {
		if *p == "~" {
			*p = home
		} else if strings.HasPrefix(*p, "~/") {
			*p = filepath.Join(home, (*p)[2:])
		}
	}
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is empty: %w", model.ErrInvalid)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := c.Timer.Validate(); err != nil {
		return fmt.Errorf("timer: %w", err)
	}
	return nil
}

// ParseLevel maps a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, model.ErrInvalid)
	}
	return level, nil
}
