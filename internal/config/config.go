// Package config loads formclient settings from a YAML file layered over
// defaults, with command-line flags applied last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the formclient configuration.
type Config struct {
	Client  ClientConfig  `yaml:"client"`
	Session SessionConfig `yaml:"session"`
	Web     WebConfig     `yaml:"web"`
	Log     LogConfig     `yaml:"log"`
}

// ClientConfig configures the backend transport.
type ClientConfig struct {
	// BaseURL is the backend address serving /create-user and /get-form.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each request. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig configures where the terminal front end keeps the roll number
// between runs.
type SessionConfig struct {
	File string `yaml:"file"`
}

// WebConfig configures the browser front end.
type WebConfig struct {
	Addr string `yaml:"addr"`
	// Theme names the theme manifest applied to rendered pages.
	Theme string `yaml:"theme"`
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool `yaml:"secure_cookie"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Client: ClientConfig{
			BaseURL: "http://localhost:8081",
		},
		Session: SessionConfig{
			File: defaultSessionFile(),
		},
		Web: WebConfig{
			Addr:  ":8080",
			Theme: "default",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".formclient-session.yaml"
	}
	return filepath.Join(dir, "formclient", "session.yaml")
}

// Load reads path over the defaults. An empty path yields the defaults; a
// named file that does not exist is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Client.BaseURL == "" {
		errs = append(errs, errors.New("client.base_url is required"))
	}
	if c.Client.Timeout < 0 {
		errs = append(errs, errors.New("client.timeout must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: file %s not found: %w", path, err)
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
