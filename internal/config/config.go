// Package config loads formdesk settings from flags, FORMDESK_* environment
// variables, and an optional formdesk.yaml file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formdesk/pkg/form"
	"github.com/goliatone/go-formdesk/pkg/session"
)

const (
	EnvPrefix  = "formdesk"
	ConfigName = "formdesk"

	// FlagConfig names the flag pointing at an explicit config file.
	FlagConfig = "config"
)

// Config is the resolved application configuration.
type Config struct {
	Server  ServerConfig
	Forms   FormsConfig
	Form    FormConfig
	Session SessionConfig
	Log     LogConfig
	Theme   ThemeConfig
}

type ServerConfig struct {
	Addr          string
	BasePath      string
	ShutdownGrace time.Duration
}

// FormsConfig selects where form types come from. Both empty means the
// embedded defaults.
type FormsConfig struct {
	Dir     string
	OpenAPI string
}

type FormConfig struct {
	ProgressMode    string
	EnforceRequired bool
}

type SessionConfig struct {
	TTL time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type ThemeConfig struct {
	File    string
	Variant string
}

type setting struct {
	key   string
	flag  string
	value any
	usage string
}

var settings = []setting{
	{"server.addr", "addr", ":8383", "HTTP listen address"},
	{"server.base_path", "base-path", "", "path prefix the routes are mounted under"},
	{"server.shutdown_grace", "shutdown-grace", 5 * time.Second, "graceful shutdown period"},
	{"forms.dir", "forms-dir", "", "directory of JSON/YAML form definitions"},
	{"forms.openapi", "openapi", "", "OpenAPI document to import form types from"},
	{"form.progress_mode", "progress-mode", string(form.ProgressAfterWrite), "progress rule: after or before"},
	{"form.enforce_required", "enforce-required", false, "reject submissions missing required fields"},
	{"session.ttl", "session-ttl", session.DefaultTTL, "idle time before a session is dropped"},
	{"log.level", "log-level", "info", "log level: debug, info, warn, error"},
	{"log.format", "log-format", "text", "log format: text or json"},
	{"theme.file", "theme-file", "", "YAML theme manifest"},
	{"theme.variant", "theme-variant", "", "theme variant to apply"},
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	v := viper.New()
	setDefaults(v)
	return decode(v)
}

// RegisterFlags adds every setting, plus --config, to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a formdesk config file")
	for _, s := range settings {
		switch value := s.value.(type) {
		case string:
			fs.String(s.flag, value, s.usage)
		case bool:
			fs.Bool(s.flag, value, s.usage)
		case time.Duration:
			fs.Duration(s.flag, value, s.usage)
		}
	}
}

// Load resolves the configuration. fs may be nil; when non-nil it must have
// been populated by RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configFile := ""
	if fs != nil {
		for _, s := range settings {
			if flag := fs.Lookup(s.flag); flag != nil {
				if err := v.BindPFlag(s.key, flag); err != nil {
					return Config{}, fmt.Errorf("config: bind %s: %w", s.flag, err)
				}
			}
		}
		if flag := fs.Lookup(FlagConfig); flag != nil {
			configFile = flag.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := decode(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c Config) Validate() error {
	if _, err := c.ProgressMode(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Server.ShutdownGrace < 0 {
		return fmt.Errorf("config: server.shutdown_grace must not be negative, got %s", c.Server.ShutdownGrace)
	}
	return nil
}

// ProgressMode parses Form.ProgressMode.
func (c Config) ProgressMode() (form.ProgressMode, error) {
	return form.ParseProgressMode(c.Form.ProgressMode)
}

func setDefaults(v *viper.Viper) {
	for _, s := range settings {
		v.SetDefault(s.key, s.value)
	}
}

func decode(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Addr:          v.GetString("server.addr"),
			BasePath:      v.GetString("server.base_path"),
			ShutdownGrace: v.GetDuration("server.shutdown_grace"),
		},
		Forms: FormsConfig{
			Dir:     v.GetString("forms.dir"),
			OpenAPI: v.GetString("forms.openapi"),
		},
		Form: FormConfig{
			ProgressMode:    v.GetString("form.progress_mode"),
			EnforceRequired: v.GetBool("form.enforce_required"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Theme: ThemeConfig{
			File:    v.GetString("theme.file"),
			Variant: v.GetString("theme.variant"),
		},
	}
}
