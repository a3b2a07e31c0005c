package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultEntryDuration = 10000
	defaultMaxUploadSize = 64 << 20
)

// Config holds environment-based settings of the server.
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	LogLevel       string
	LogPretty      bool
	MetricsEnabled bool

	Feed    FeedConfig
	Uploads UploadConfig
	Redis   RedisConfig
	Spaces  SpacesConfig
	Unpin   UnpinConfig
}

type FeedConfig struct {
	EntryDuration int // milliseconds
	TickInterval  time.Duration
	CacheTTL      time.Duration
}

type UploadConfig struct {
	Dir     string
	MaxSize int64
}

type RedisConfig struct {
	Address  string
	Username string
	Password string
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type SpacesConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	CDNURL    string
	AccessKey string
	SecretKey string
}

type UnpinConfig struct {
	At       string
	Timezone string
}

func newViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	return v
}

// Load reads configuration from .env and the environment.
func Load() (*Config, error) {
	v := newViper()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("MIGRATIONS_PATH", "./migrations")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("FEED_TICK_INTERVAL", "60s")
	v.SetDefault("FEED_CACHE_TTL", "5s")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("MAX_UPLOAD_SIZE", defaultMaxUploadSize)
	v.SetDefault("USE_SPACES", false)
	v.SetDefault("UNPIN_AT", "05:00")
	v.SetDefault("UNPIN_TIMEZONE", "Europe/Stockholm")

	cfg := &Config{
		Environment:    v.GetString("APP_ENV"),
		ServerAddress:  v.GetString("SERVER_ADDRESS"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogPretty:      v.GetBool("LOG_PRETTY"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
		Feed: FeedConfig{
			EntryDuration: ParseEntryDuration(v.GetString("FEED_ENTRY_DURATION")),
			TickInterval:  parseDuration(v.GetString("FEED_TICK_INTERVAL"), 60*time.Second),
			CacheTTL:      parseDuration(v.GetString("FEED_CACHE_TTL"), 5*time.Second),
		},
		Uploads: UploadConfig{
			Dir:     v.GetString("UPLOAD_DIR"),
			MaxSize: v.GetInt64("MAX_UPLOAD_SIZE"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDRESS"),
			Username: v.GetString("REDIS_USERNAME"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		Spaces: SpacesConfig{
			Enabled:   v.GetBool("USE_SPACES"),
			Endpoint:  v.GetString("SPACES_ENDPOINT"),
			Region:    v.GetString("SPACES_REGION"),
			Bucket:    v.GetString("SPACES_BUCKET"),
			CDNURL:    v.GetString("SPACES_CDN_URL"),
			AccessKey: v.GetString("SPACES_ACCESS_KEY"),
			SecretKey: v.GetString("SPACES_SECRET_KEY"),
		},
		Unpin: UnpinConfig{
			At:       v.GetString("UNPIN_AT"),
			Timezone: v.GetString("UNPIN_TIMEZONE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Spaces.Enabled && c.Spaces.Bucket == "" {
		missing = append(missing, "SPACES_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.Uploads.MaxSize <= 0 {
		return errors.New("MAX_UPLOAD_SIZE must be positive")
	}
	return nil
}

// ParseEntryDuration reads FEED_ENTRY_DURATION in milliseconds. Anything that
// is not a positive integer yields the default of 10000.
func ParseEntryDuration(raw string) int {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ms <= 0 {
		return defaultEntryDuration
	}
	return ms
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
