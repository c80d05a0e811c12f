/*
Package config loads server settings.

PURPOSE:
  One place that resolves where settings come from. Later sources win:

    1. Default()              built-in values (SQLite file, port 8080)
    2. YAML file              -config path, optional
    3. .env file              loaded into the process environment if present
    4. Environment variables  PORT, DATABASE_DRIVER, DATABASE_URL, ...
    5. Command-line flags     applied by cmd/server

SEE ALSO:
  - cmd/server/main.go: Flag parsing and the load order above
  - store/sqldb: Consumes Database
*/
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Engine   EngineConfig   `yaml:"engine"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the driver and pool. Driver is "sqlite3" or
// "postgres"; Schema qualifies table names on PostgreSQL (for example "pmo").
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	Schema          string        `yaml:"schema"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type EngineConfig struct {
	// Workers bounds concurrent per-resource computations in composed views.
	Workers int `yaml:"workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Default returns a config that runs locally against a SQLite file.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite3",
			DSN:          "capacity.db",
			MaxOpenConns: 20,
			MaxIdleConns: 1,
		},
		Engine: EngineConfig{Workers: 8},
		CORS:   CORSConfig{AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"}},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a YAML file over Default(). An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads .env files into the environment. Missing files are fine.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err == nil {
			log.Printf("[Config] Loaded %s", f)
		}
	}
}

// ApplyEnv overrides cfg with environment variables. Invalid numbers fail
// instead of being ignored.
func ApplyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
		if cfg.Database.Driver == "sqlite3" && isPostgresURL(v) {
			cfg.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("DATABASE_SCHEMA"); v != "" {
		cfg.Database.Schema = v
	}
	if err := envInt("DB_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns); err != nil {
		return err
	}
	if err := envInt("DB_MAX_IDLE_CONNS", &cfg.Database.MaxIdleConns); err != nil {
		return err
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", v, err)
		}
		cfg.Database.ConnMaxLifetime = d
	}
	if err := envInt("ENGINE_WORKERS", &cfg.Engine.Workers); err != nil {
		return err
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}
	return nil
}

// Validate checks the fields the server cannot start without.
func (c Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must be set")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("invalid server.port %q: %w", c.Server.Port, err)
	}
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn must be set")
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		return errors.New("database pool sizes must not be negative")
	}
	if c.Engine.Workers < 1 {
		return fmt.Errorf("engine.workers must be at least 1, got %d", c.Engine.Workers)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isPostgresURL(v string) bool {
	return strings.HasPrefix(v, "postgres://") || strings.HasPrefix(v, "postgresql://")
}
