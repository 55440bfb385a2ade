package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string     `mapstructure:"env"`        // current application environment (local, dev, production etc)
	TelegramAPIToken string     `mapstructure:"-"`          // Telegram API token loaded from environment
	DB               DB         `mapstructure:"database"`   // database configuration section
	Quiz             Quiz       `mapstructure:"quiz"`       // quiz session defaults
	Reminders        Reminders  `mapstructure:"reminders"`  // study reminder scheduling
	Migrations       Migrations `mapstructure:"migrations"` // schema migration source
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Quiz contains quiz session defaults.
type Quiz struct {
	DefaultMode string `mapstructure:"default_mode"` // "text" or "choice"
}

// Reminders configures the study reminder job.
type Reminders struct {
	Enabled    bool          `mapstructure:"enabled"`
	Schedule   string        `mapstructure:"schedule"`    // cron spec, evaluated in UTC
	StaleAfter time.Duration `mapstructure:"stale_after"` // a set untested for this long is due
}

// Migrations configures where SQL migrations are read from.
type Migrations struct {
	Path string `mapstructure:"path"`
}

// DSN returns the database connection string.
func (db DB) DSN() string {
	return db.URL
}

// Load reads configuration from config files and environment variables.
// Only the database URL is required; callers that talk to Telegram must
// check RequireTelegram.
func Load() (*Config, error) {
	// A missing .env file is fine, real environment variables win anyway.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("quiz.default_mode", "text")
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.schedule", "0 * * * *")
	v.SetDefault("reminders.stale_after", "72h")
	v.SetDefault("migrations.path", "migrations")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RequireTelegram reports ErrMissingEnvironmentVariables when no bot token is set.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Quiz.DefaultMode {
	case "text", "choice":
	default:
		return fmt.Errorf("invalid quiz.default_mode %q", c.Quiz.DefaultMode)
	}
	if c.Reminders.Enabled && c.Reminders.StaleAfter <= 0 {
		return fmt.Errorf("reminders.stale_after must be positive, got %s", c.Reminders.StaleAfter)
	}
	return nil
}
