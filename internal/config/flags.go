package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags holds command-line overrides. Only flags the user actually set are
// applied, so file values survive unset flags.
type Flags struct {
	set *pflag.FlagSet

	ConfigPath   string
	BaseURL      string
	Timeout      time.Duration
	SessionFile  string
	Addr         string
	Theme        string
	SecureCookie bool
	LogLevel     string
	LogFormat    string
	LogFile      string
}

// BindFlags registers the shared flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	def := Default()
	f := &Flags{set: fs}
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&f.BaseURL, "base-url", def.Client.BaseURL, "form backend base URL")
	fs.DurationVar(&f.Timeout, "timeout", def.Client.Timeout, "request timeout (0 disables)")
	fs.StringVar(&f.SessionFile, "session-file", def.Session.File, "file keeping the terminal session")
	fs.StringVar(&f.Addr, "addr", def.Web.Addr, "listen address for the web front end")
	fs.StringVar(&f.Theme, "theme", def.Web.Theme, "theme applied to rendered pages")
	fs.BoolVar(&f.SecureCookie, "secure-cookie", def.Web.SecureCookie, "mark the session cookie Secure")
	fs.StringVar(&f.LogLevel, "log-level", def.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFormat, "log-format", def.Log.Format, "console log format: text or json")
	fs.StringVar(&f.LogFile, "log-file", def.Log.File, "append JSON log records to this file")
	return f
}

// Resolve loads the config file named by --config and applies the flags that
// were set.
func (f *Flags) Resolve() (Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return Config{}, err
	}
	f.Apply(&cfg)
	return cfg, cfg.Validate()
}

// Apply copies changed flags into cfg.
func (f *Flags) Apply(cfg *Config) {
	changed := f.set.Changed
	if changed("base-url") {
		cfg.Client.BaseURL = f.BaseURL
	}
	if changed("timeout") {
		cfg.Client.Timeout = f.Timeout
	}
	if changed("session-file") {
		cfg.Session.File = f.SessionFile
	}
	if changed("addr") {
		cfg.Web.Addr = f.Addr
	}
	if changed("theme") {
		cfg.Web.Theme = f.Theme
	}
	if changed("secure-cookie") {
		cfg.Web.SecureCookie = f.SecureCookie
	}
	if changed("log-level") {
		cfg.Log.Level = f.LogLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.LogFormat
	}
	if changed("log-file") {
		cfg.Log.File = f.LogFile
	}
}
