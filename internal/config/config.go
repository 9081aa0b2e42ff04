package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, for example
// HOSPITAL_JWT_SECRET or HOSPITAL_DATABASE_DRIVER.
const EnvPrefix = "HOSPITAL"

// DevJWTSecret signs tokens outside production when no secret is set.
// Production refuses to start with it.
const DevJWTSecret = "dev-secret-change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	Env            string `mapstructure:"env"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" split_words:"true"`
}

type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type MongoConfig struct {
	URI                   string `mapstructure:"uri"`
	Name                  string `mapstructure:"name"`
	ConnectTimeoutSeconds int    `mapstructure:"connect_timeout_seconds" split_words:"true"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" envconfig:"SSLMODE"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours" split_words:"true"`
}

// RedisConfig is optional. An empty URL keeps revocation in process and
// drops domain events.
type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// SMTPConfig is optional. An empty host disables confirmation emails.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.ExpiryHours) * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.env", EnvDevelopment)
	v.SetDefault("server.timeout_seconds", 30)

	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("database.mongo.name", "hospital")
	v.SetDefault("database.mongo.connect_timeout_seconds", 10)
	v.SetDefault("database.postgres.host", "localhost")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.user", "postgres")
	v.SetDefault("database.postgres.name", "hospital")
	v.SetDefault("database.postgres.sslmode", "disable")

	v.SetDefault("jwt.expiry_hours", 24)

	v.SetDefault("smtp.port", 587)

	v.SetDefault("rate_limit.rps", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("log.level", "info")
}

// Load reads config.yaml from the given directories (or the usual ones),
// then applies HOSPITAL_* environment overrides. A missing file is fine.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{".", "./config", "/app", "/app/config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if cfg.JWT.Secret == "" && !cfg.IsProduction() {
		log.Warn().Msg("jwt secret not set, using the development default")
		cfg.JWT.Secret = DevJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Database.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.JWT.ExpiryHours <= 0 {
		return errors.New("jwt expiry_hours must be positive")
	}
	if c.IsProduction() && (c.JWT.Secret == "" || c.JWT.Secret == DevJWTSecret) {
		return errors.New("jwt secret must be set in production")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return errors.New("rate_limit rps and burst must be positive")
	}
	return nil
}
