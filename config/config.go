package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `env:"APPNAME" env-default:"Doctor Profile API"`
	AppEnv  string `env:"APPENV" env-default:"local"`
	AppPort uint16 `env:"APPPORT" env-default:"8000"`
	GinMode string `env:"GINMODE" env-default:"debug"`

	MongoURI string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" env-default:"starcoach-db"`

	JWTSecret      string        `env:"JWTSECRET" env-required:"true"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"60m"`
	BcryptCost     int           `env:"BCRYPT_COST" env-default:"10"`
	// RequireAuth puts the bearer check on doctor creation and appointment mutations.
	RequireAuth bool `env:"REQUIRE_AUTH" env-default:"false"`

	RedisEnabled bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisAddr    string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPass    string `env:"REDIS_PASS"`
	RedisDB      int    `env:"REDIS_DB" env-default:"0"`

	RateLimit  int           `env:"RATE_LIMIT" env-default:"5"`
	RateWindow time.Duration `env:"RATE_WINDOW" env-default:"15m"`

	AuditDSN    string `env:"AUDIT_DB_DSN"`
	GeoIPDBPath string `env:"GEOIP_DB_PATH"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Load reads the given .env files (default ".env", missing files are fine)
// and then the process environment into a Config. Variables already set in
// the environment win over .env entries.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// godotenv.Load fails the whole batch on one missing file
		_ = godotenv.Load(f)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWTSECRET must not be empty")
	}
	return &cfg, nil
}

// MustLoad is Load for main: it panics on invalid configuration.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
