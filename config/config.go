package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	HTTPPort    string `envconfig:"HTTP_PORT" default:"8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Versioning engine knobs.
	SnapshotInterval int `envconfig:"SNAPSHOT_INTERVAL" default:"10"`
	TrustThreshold   int `envconfig:"TRUST_THRESHOLD" default:"5"`
	MaxContentBytes  int `envconfig:"MAX_CONTENT_BYTES" default:"1048576"`

	JWTSecret     string        `envconfig:"JWT_SECRET" default:"change-this-in-production"`
	JWTExpiration time.Duration `envconfig:"JWT_EXPIRATION" default:"24h"`

	// Per-bot write rate limit (requests per minute, burst size).
	RateLimitWrite int `envconfig:"RATE_LIMIT_WRITE" default:"30"`
	RateLimitBurst int `envconfig:"RATE_LIMIT_BURST" default:"5"`

	FounderBotLimit int `envconfig:"FOUNDER_BOT_LIMIT" default:"30"`

	ReconcileCronSchedule string `envconfig:"RECONCILE_CRON_SCHEDULE" default:"0 3 * * *"`
}

// DSN returns the data source name for the PostgreSQL connection.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
