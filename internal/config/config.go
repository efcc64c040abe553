// Package config resolves console settings from defaults, an optional YAML
// file, HCADMIN_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix      = "HCADMIN"
	configFileName = "config.yaml"
)

// PageSizes are the page-size choices offered by every listing.
var PageSizes = []int{25, 50, 100}

type Config struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	SocketURL      string        `mapstructure:"socket_url" yaml:"socket_url,omitempty"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	PageSize       int           `mapstructure:"page_size" yaml:"page_size"`
	Theme          string        `mapstructure:"theme" yaml:"theme"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	DataDir        string        `mapstructure:"data_dir" yaml:"data_dir"`
	SuperAdminRole string        `mapstructure:"super_admin_role" yaml:"super_admin_role"`
}

// DefaultDataDir is ~/.hcadmin, or ./.hcadmin when the home dir is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hcadmin"
	}
	return filepath.Join(home, ".hcadmin")
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:        "http://localhost:4000/api",
		Timeout:        15 * time.Second,
		PollInterval:   30 * time.Second,
		PageSize:       25,
		Theme:          "classic",
		LogLevel:       "info",
		DataDir:        DefaultDataDir(),
		SuperAdminRole: "super admin",
	}
}

// New returns a viper instance carrying defaults and env bindings. Callers
// may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("socket_url", "")
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("theme", d.Theme)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("super_admin_role", d.SuperAdminRole)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file (explicit path, or config.yaml in the data dir
// when present) and unmarshals the merged settings.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		p := filepath.Join(v.GetString("data_dir"), configFileName)
		if _, err := os.Stat(p); err == nil {
			v.SetConfigFile(p)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", p, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.SocketURL == "" {
		cfg.SocketURL = deriveSocketURL(cfg.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late and obscurely.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if !allowedPageSize(c.PageSize) {
		return fmt.Errorf("page_size must be one of %v, got %d", PageSizes, c.PageSize)
	}
	if c.PollInterval < time.Second {
		return errors.New("poll_interval must be at least 1s")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// Path is where `config init` writes and Load looks by default.
func (c *Config) Path() string { return filepath.Join(c.DataDir, configFileName) }

// Origin is the scheme://host part of the base URL; uploaded images are
// served from <origin>/images/<name>.
func (c *Config) Origin() string {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c.BaseURL
	}
	return u.Scheme + "://" + u.Host
}

// ImageURL builds the public URL of an uploaded file.
func (c *Config) ImageURL(name string) string {
	if name == "" {
		return ""
	}
	return c.Origin() + "/images/" + name
}

func allowedPageSize(n int) bool {
	for _, p := range PageSizes {
		if p == n {
			return true
		}
	}
	return false
}

// deriveSocketURL points the push channel at the API origin.
func deriveSocketURL(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
