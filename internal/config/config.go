package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/services"
	"github.com/spf13/viper"
)

const (
	envPrefix           = "HEALTHTRACKER"
	insecureSecretKey   = "change_me_in_production"
	minSecretKeyLength  = 32
	defaultDatabaseFile = "healthtracker.db"
)

var (
	ErrSecretKeyMissing  = errors.New("auth.secret_key is required")
	ErrSecretKeyInsecure = errors.New("auth.secret_key uses the insecure placeholder")
	ErrSecretKeyTooShort = fmt.Errorf("auth.secret_key must be at least %d characters", minSecretKeyLength)
)

// Config is the full runtime configuration of the tracker.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Timezone  string          `mapstructure:"timezone"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AuthConfig struct {
	SecretKey string        `mapstructure:"secret_key"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// AnalyticsConfig bounds the query windows and per-user request rate of the
// analytics endpoints.
type AnalyticsConfig struct {
	StreakCap            int     `mapstructure:"streak_cap"`
	DefaultAdherenceDays int     `mapstructure:"default_adherence_days"`
	DefaultTrendDays     int     `mapstructure:"default_trend_days"`
	MaxWindowDays        int     `mapstructure:"max_window_days"`
	RateLimitRPS         float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst       int     `mapstructure:"rate_limit_burst"`
}

// CacheConfig enables the dashboard cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	DashboardTTL  time.Duration `mapstructure:"dashboard_ttl"`
}

// Load merges defaults, an optional YAML file and HEALTHTRACKER_* environment
// variables, in that order of precedence from lowest to highest.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", 15*time.Second)
	v.SetDefault("server.cookie_secure", false)

	v.SetDefault("database.path", filepath.Join("data", defaultDatabaseFile))

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)

	v.SetDefault("timezone", "UTC")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("analytics.streak_cap", 365)
	v.SetDefault("analytics.default_adherence_days", 30)
	v.SetDefault("analytics.default_trend_days", 7)
	v.SetDefault("analytics.max_window_days", 365)
	v.SetDefault("analytics.rate_limit_rps", 5.0)
	v.SetDefault("analytics.rate_limit_burst", 20)

	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.dashboard_ttl", 30*time.Second)
}

func (cfg *Config) Validate() error {
	secret := strings.TrimSpace(cfg.Auth.SecretKey)
	switch {
	case secret == "":
		return ErrSecretKeyMissing
	case secret == insecureSecretKey:
		return ErrSecretKeyInsecure
	case len(secret) < minSecretKeyLength:
		return ErrSecretKeyTooShort
	}
	cfg.Auth.SecretKey = secret

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	if cfg.Analytics.StreakCap > services.DefaultStreakCap {
		cfg.Analytics.StreakCap = services.DefaultStreakCap
	}
	analytics := cfg.Analytics
	if analytics.StreakCap <= 0 || analytics.MaxWindowDays <= 0 {
		return errors.New("analytics.streak_cap and analytics.max_window_days must be positive")
	}
	if analytics.DefaultAdherenceDays <= 0 || analytics.DefaultTrendDays <= 0 {
		return errors.New("analytics default windows must be positive")
	}
	if analytics.DefaultAdherenceDays > analytics.MaxWindowDays || analytics.DefaultTrendDays > analytics.MaxWindowDays {
		return errors.New("analytics default windows cannot exceed analytics.max_window_days")
	}
	if analytics.RateLimitRPS <= 0 || analytics.RateLimitBurst <= 0 {
		return errors.New("analytics rate limit must be positive")
	}
	if cfg.Cache.DashboardTTL <= 0 {
		return errors.New("cache.dashboard_ttl must be positive")
	}
	return nil
}

// Location returns the configured server timezone. Validate guarantees it loads.
func (cfg *Config) Location() *time.Location {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (cfg *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}
