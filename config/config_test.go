package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	// GIVEN: A file that sets the database and worker count only
	// WHEN: Loading it
	// THEN: Those fields change and everything else keeps its default

	path := writeFile(t, "config.yaml", `
database:
  driver: postgres
  dsn: postgres://pmo@localhost/pmo?sslmode=disable
  schema: pmo
  conn_max_lifetime: 5m
engine:
  workers: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "pmo", cfg.Database.Schema)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 3, cfg.Engine.Workers)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	path := writeFile(t, "bad.yaml", "server: [unclosed")
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgresql://user@db/pmo")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("ENGINE_WORKERS", "16")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver) // inferred from the URL
	assert.Equal(t, "postgresql://user@db/pmo", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv("ENGINE_WORKERS", "many")

	cfg := Default()
	err := ApplyEnv(&cfg)
	assert.ErrorContains(t, err, "invalid ENGINE_WORKERS")
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "CAPACITY_TEST_DOTENV=loaded\n")
	t.Setenv("CAPACITY_TEST_DOTENV", "")
	os.Unsetenv("CAPACITY_TEST_DOTENV")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env"))
	assert.Equal(t, "loaded", os.Getenv("CAPACITY_TEST_DOTENV"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad port", func(c *Config) { c.Server.Port = "http" }, "invalid server.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"no workers", func(c *Config) { c.Engine.Workers = 0 }, "engine.workers"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
