package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName           string        `mapstructure:"app_name"`
	Env               string        `mapstructure:"app_env"`
	LogLevel          string        `mapstructure:"log_level"`
	APIBaseURL        string        `mapstructure:"api_base_url"`
	APITimeoutSeconds int64         `mapstructure:"api_timeout_seconds"`
	APITimeout        time.Duration `mapstructure:"-"`

	PublishersFile string `mapstructure:"publishers_file"`
	IconsFile      string `mapstructure:"icons_file"`

	CookieStoreType       string        `mapstructure:"cookie_store_type"`
	CookieStorePath       string        `mapstructure:"cookie_store_path"`
	CookieTTLSeconds      int64         `mapstructure:"cookie_ttl_seconds"`
	CookieCleanupSeconds  int64         `mapstructure:"cookie_cleanup_interval_seconds"`
	CookieTTL             time.Duration `mapstructure:"-"`
	CookieCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-portal")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("api_base_url", "")
	v.SetDefault("api_timeout_seconds", 0) // no client-side deadline
	v.SetDefault("publishers_file", "")
	v.SetDefault("icons_file", "./configs/icons.yaml")
	v.SetDefault("cookie_store_type", "bbolt")
	v.SetDefault("cookie_store_path", "./data/cookies.db")
	v.SetDefault("cookie_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("cookie_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.APIBaseURL = strings.TrimSpace(cfg.APIBaseURL)
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api_base_url is required")
	}
	if cfg.APITimeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid api_timeout_seconds (must be zero or positive seconds)")
	}
	cfg.APITimeout = time.Duration(cfg.APITimeoutSeconds) * time.Second

	if cfg.CookieTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cookie_ttl_seconds (must be positive seconds)")
	}
	if cfg.CookieCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid cookie_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.CookieTTL = time.Duration(cfg.CookieTTLSeconds) * time.Second
	cfg.CookieCleanupInterval = time.Duration(cfg.CookieCleanupSeconds) * time.Second

	return &cfg, nil
}
