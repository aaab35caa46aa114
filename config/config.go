package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// SyncMode selects which role the sync bridge plays at startup.
type SyncMode string

const (
	// ModeHub hosts the websocket endpoint dashboard clients connect to.
	ModeHub SyncMode = "hub"
	// ModeRelay forwards local booking events to a remote hub.
	ModeRelay SyncMode = "relay"
)

// Config holds all configuration values.
type Config struct {
	AppPort  string `mapstructure:"APP_PORT"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Database configuration. DevDatabaseURL takes precedence over
	// DatabaseURL when set, so a dev database can be swapped in without
	// touching the production URL.
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DevDatabaseURL string `mapstructure:"DEV_DATABASE_URL"`

	// Sync bridge configuration.
	SyncMode    string `mapstructure:"SYNC_MODE"`
	HubURL      string `mapstructure:"HUB_URL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Relay reconnection policy. MaxAttempts of 0 means retry forever.
	ReconnectMaxAttempts  int           `mapstructure:"RECONNECT_MAX_ATTEMPTS"`
	ReconnectInitialDelay time.Duration `mapstructure:"RECONNECT_INITIAL_DELAY"`
	ReconnectMaxDelay     time.Duration `mapstructure:"RECONNECT_MAX_DELAY"`

	// Idle conversation eviction. 0 disables the sweep and keeps abandoned
	// sessions alive indefinitely, matching the original flow.
	SessionIdleTTL time.Duration `mapstructure:"SESSION_IDLE_TTL"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3002")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	// Empty defaults register the env-only keys so Unmarshal sees them.
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DEV_DATABASE_URL", "")
	viper.SetDefault("HUB_URL", "")
	viper.SetDefault("SYNC_MODE", string(ModeHub))
	viper.SetDefault("FRONTEND_URL", "http://localhost:4321")
	viper.SetDefault("RECONNECT_MAX_ATTEMPTS", 0)
	viper.SetDefault("RECONNECT_INITIAL_DELAY", time.Second)
	viper.SetDefault("RECONNECT_MAX_DELAY", 30*time.Second)
	viper.SetDefault("SESSION_IDLE_TTL", 30*time.Minute)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Misconfigured roles and missing database URLs are the only fatal
	// errors; everything downstream degrades instead of exiting.
	switch SyncMode(AppConfig.SyncMode) {
	case ModeHub:
	case ModeRelay:
		if AppConfig.HubURL == "" {
			log.Fatalf("SYNC_MODE=relay requires HUB_URL to be set")
		}
	default:
		log.Fatalf("Invalid SYNC_MODE %q: must be %q or %q", AppConfig.SyncMode, ModeHub, ModeRelay)
	}
}

// EffectiveDatabaseURL returns the database URL the process should use,
// preferring the dev override when present.
func EffectiveDatabaseURL() string {
	if AppConfig.DevDatabaseURL != "" {
		return AppConfig.DevDatabaseURL
	}
	return AppConfig.DatabaseURL
}

// Mode returns the configured sync bridge role.
func Mode() SyncMode {
	return SyncMode(AppConfig.SyncMode)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
