package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyDir(t *testing.T) string {
	t.Helper()
	return t.TempDir()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(emptyDir(t))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Server.Env)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, DevJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestLoadFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  port: 8080
database:
  driver: postgres
  postgres:
    host: db.internal
    sslmode: require
jwt:
  secret: from-file
cors:
  allowed_origins:
    - https://dash.hospital.io
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	t.Setenv("HOSPITAL_JWT_SECRET", "from-env")
	t.Setenv("HOSPITAL_DATABASE_POSTGRES_PORT", "6543")
	t.Setenv("HOSPITAL_RATE_LIMIT_BURST", "5")
	t.Setenv("HOSPITAL_REDIS_URL", "redis://cache:6379/0")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 6543, cfg.Database.Postgres.Port)
	assert.Equal(t, "require", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, []string{"https://dash.hospital.io"}, cfg.CORS.AllowedOrigins)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("HOSPITAL_SERVER_ENV", EnvProduction)

	_, err := Load(emptyDir(t))
	require.Error(t, err)

	t.Setenv("HOSPITAL_JWT_SECRET", DevJWTSecret)
	_, err = Load(emptyDir(t))
	require.Error(t, err)

	t.Setenv("HOSPITAL_JWT_SECRET", "a-real-secret")
	cfg, err := Load(emptyDir(t))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 5000, Env: EnvDevelopment},
			Database:  DatabaseConfig{Driver: DriverMemory},
			JWT:       JWTConfig{Secret: "s", ExpiryHours: 1},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		}
	}
	require.NoError(t, base().Validate())

	tests := map[string]func(*Config){
		"bad port":       func(c *Config) { c.Server.Port = 0 },
		"bad driver":     func(c *Config) { c.Database.Driver = "sqlite" },
		"bad expiry":     func(c *Config) { c.JWT.ExpiryHours = 0 },
		"no rate":        func(c *Config) { c.RateLimit.RPS = 0 },
		"prod no secret": func(c *Config) { c.Server.Env = EnvProduction; c.JWT.Secret = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}
