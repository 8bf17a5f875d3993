package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	minProductionSecretLength = 32
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	Debug     bool   `env:"DEBUG,      default=false"`
	APIPrefix string `env:"API_PREFIX, default=/api"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	Auth      AuthConfig
	Store     StoreConfig
	Redis     RedisConfig
	AccessLog AccessLogConfig
}

type AuthConfig struct {
	JWTSecret       Secret `env:"JWT_SECRET"`
	TokenTTLSeconds int    `env:"TOKEN_TTL,   default=86400"`
	BcryptCost      int    `env:"BCRYPT_COST, default=10"`
}

// TokenTTL is the default lifetime of issued tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLSeconds) * time.Second
}

type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER, default=postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE, default=true"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=platform"`
}

// RedisConfig selects the token revocation backend. An empty address keeps
// revocations in process memory.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password Secret `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AccessLogConfig struct {
	Enabled bool `env:"ACCESS_LOG_ENABLED, default=true"`
	Workers int  `env:"ACCESS_LOG_WORKERS, default=4"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Load reads configuration from environment variables using go-envconfig and
// validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service must not start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret.Empty() {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if c.IsProduction() && len(c.Auth.JWTSecret) < minProductionSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters in production", minProductionSecretLength))
	}
	if c.Debug && c.IsProduction() {
		errs = append(errs, errors.New("DEBUG must not be enabled in production"))
	}
	if c.Auth.TokenTTLSeconds <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if !strings.HasPrefix(c.APIPrefix, "/") {
		errs = append(errs, fmt.Errorf("API_PREFIX must start with '/', got %q", c.APIPrefix))
	}

	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case "mongo":
		if c.Store.Mongo.URI == "" {
			errs = append(errs, errors.New("MONGO_URI is required for the mongo store"))
		}
	case "memory":
		if c.IsProduction() {
			errs = append(errs, errors.New("the memory store is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
