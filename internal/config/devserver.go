package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

// DevServer configures the local form backend.
type DevServer struct {
	Addr string `yaml:"addr"`
	// DBDriver is sqlite or pgx.
	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`
	// SchemaPath is the JSON, JSONC or YAML schema served to every user.
	SchemaPath  string    `yaml:"schema_path"`
	CORSOrigins []string  `yaml:"cors_origins"`
	Log         LogConfig `yaml:"log"`
}

// DefaultDevServer returns the built-in dev server configuration.
func DefaultDevServer() DevServer {
	return DevServer{
		Addr:        ":8081",
		DBDriver:    "sqlite",
		DBDSN:       "file:formclient-dev.db?_pragma=busy_timeout(5000)",
		CORSOrigins: []string{"*"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadDevServer reads path over the dev server defaults.
func LoadDevServer(path string) (DevServer, error) {
	cfg := DefaultDevServer()
	if path == "" {
		return cfg, nil
	}
	if err := decodeFile(path, &cfg); err != nil {
		return DevServer{}, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work.
func (c DevServer) Validate() error {
	var errs []error
	switch c.DBDriver {
	case "sqlite", "pgx":
	default:
		errs = append(errs, fmt.Errorf("db_driver %q is not supported", c.DBDriver))
	}
	if c.DBDSN == "" {
		errs = append(errs, errors.New("db_dsn is required"))
	}
	if c.SchemaPath == "" {
		errs = append(errs, errors.New("schema_path is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DevServerFlags holds dev server command-line overrides.
type DevServerFlags struct {
	set *pflag.FlagSet

	ConfigPath  string
	Addr        string
	DBDriver    string
	DBDSN       string
	SchemaPath  string
	CORSOrigins []string
	LogLevel    string
}

// BindDevServerFlags registers the dev server flags on fs.
func BindDevServerFlags(fs *pflag.FlagSet) *DevServerFlags {
	def := DefaultDevServer()
	f := &DevServerFlags{set: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.Addr, "addr", def.Addr, "listen address")
	fs.StringVar(&f.DBDriver, "db-driver", def.DBDriver, "database driver: sqlite or pgx")
	fs.StringVar(&f.DBDSN, "db-dsn", def.DBDSN, "database connection string")
	fs.StringVar(&f.SchemaPath, "schema", def.SchemaPath, "form schema file (JSON, JSONC or YAML)")
	fs.StringSliceVar(&f.CORSOrigins, "cors-origin", def.CORSOrigins, "allowed CORS origins")
	fs.StringVar(&f.LogLevel, "log-level", def.Log.Level, "log level: debug, info, warn, error")
	return f
}

// Resolve loads the config file and applies the flags that were set.
func (f *DevServerFlags) Resolve() (DevServer, error) {
	cfg, err := LoadDevServer(f.ConfigPath)
	if err != nil {
		return DevServer{}, err
	}
	changed := f.set.Changed
	if changed("addr") {
		cfg.Addr = f.Addr
	}
	if changed("db-driver") {
		cfg.DBDriver = f.DBDriver
	}
	if changed("db-dsn") {
		cfg.DBDSN = f.DBDSN
	}
	if changed("schema") {
		cfg.SchemaPath = f.SchemaPath
	}
	if changed("cors-origin") {
		cfg.CORSOrigins = f.CORSOrigins
	}
	if changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	return cfg, cfg.Validate()
}
