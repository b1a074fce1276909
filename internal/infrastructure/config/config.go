package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWTSecret    string `env:"JWT_SECRET"`
	TokenTTLDays int    `env:"TOKEN_TTL_DAYS, default=7"`

	// Window between a verified PIN and the Google identity step.
	PINChallengeTTL time.Duration `env:"PIN_CHALLENGE_TTL, default=5m"`

	// Base URL of the external Google-auth service the frontend
	// redirects to; its /session-data endpoint validates session ids.
	IdentityProviderURL string `env:"IDENTITY_PROVIDER_URL, default=https://demobackend.emergentagent.com/auth/v1/env/oauth"`

	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	Scheduler SchedulerConfig
	Mongo     MongoConfig
	Redis     RedisConfig
}

type SchedulerConfig struct {
	Enabled bool `env:"SCHEDULER_ENABLED, default=true"`
	// Cron expression for the overdue-payment sweep.
	OverdueSpec string `env:"SCHEDULER_OVERDUE_SPEC, default=0 2 * * *"`
	// Cron expression for monthly fee generation; empty disables it.
	MonthlySpec string `env:"SCHEDULER_MONTHLY_SPEC, default=0 3 1 * *"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=imusici"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// TokenTTL returns the session lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLDays) * 24 * time.Hour
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
