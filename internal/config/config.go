// Package config loads server and client settings from a config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	Auth   AuthConfig
	Admin  AdminConfig
	Client ClientConfig
}

type ServerConfig struct {
	Addr string
	// TrustedProxies lists IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type DBConfig struct {
	Path string
}

type LogConfig struct {
	Level string
	File  string
}

type AuthConfig struct {
	// JWTSecret overrides the secret persisted in the database when set.
	JWTSecret       string
	RateLimitPerMin int
}

type AdminConfig struct {
	Name  string
	Email string
}

type ClientConfig struct {
	Server      string
	SessionFile string
	Timeout     time.Duration
}

// Loader reads configuration. Flags bound with BindFlags take precedence over
// environment variables (INVENTORY_*), which take precedence over the file.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults applied.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigName("inventory")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/inventory/")

	v.SetEnvPrefix("inventory")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return &Loader{v: v}
}

// SetConfigFile reads from an explicit path instead of searching.
func (l *Loader) SetConfigFile(path string) {
	if path != "" {
		l.v.SetConfigFile(path)
	}
}

// BindFlag binds a config key to a command-line flag.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file if present and returns the merged settings.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Server.Addr = l.v.GetString("server.addr")
	cfg.Server.TrustedProxies = splitList(l.v.GetStringSlice("server.trusted_proxies"))
	cfg.DB.Path = l.v.GetString("db.path")
	cfg.Log.Level = l.v.GetString("log.level")
	cfg.Log.File = l.v.GetString("log.file")
	cfg.Auth.JWTSecret = l.v.GetString("auth.jwt_secret")
	cfg.Auth.RateLimitPerMin = l.v.GetInt("auth.rate_limit_per_min")
	cfg.Admin.Name = l.v.GetString("admin.name")
	cfg.Admin.Email = l.v.GetString("admin.email")
	cfg.Client.Server = strings.TrimRight(l.v.GetString("client.server"), "/")
	cfg.Client.SessionFile = l.v.GetString("client.session_file")
	cfg.Client.Timeout = l.v.GetDuration("client.timeout")

	if cfg.Client.Timeout <= 0 {
		return nil, fmt.Errorf("client.timeout must be positive, got %s", cfg.Client.Timeout)
	}

	return cfg, nil
}

// splitList also splits entries on commas, so an environment variable can
// carry "10.0.0.0/8,192.0.2.1".
func splitList(entries []string) []string {
	var out []string
	for _, e := range entries {
		for _, part := range strings.Split(e, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// ConfigFileUsed returns the path of the file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("db.path", "inventory.sqlite3")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.rate_limit_per_min", 30)
	v.SetDefault("admin.name", "Admin")
	v.SetDefault("admin.email", "admin@localhost")
	v.SetDefault("client.server", "http://localhost:8080")
	v.SetDefault("client.session_file", "")
	v.SetDefault("client.timeout", "15s")
}
