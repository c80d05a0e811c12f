/*
Package sqldb provides a database/sql implementation of generic.Store.

PURPOSE:
  Persists resources, projects, allocations, time-off and timesheet entries
  and serves the engine's read contracts. The same queries run on SQLite
  (mattn/go-sqlite3, dev and tests) and PostgreSQL (lib/pq, production).

DIALECT:
  Queries use $N placeholders numbered in order of first appearance. SQLite
  treats them as named parameters bound by position, PostgreSQL natively.
  Both accept ON CONFLICT ... DO UPDATE and RETURNING, so inserts and
  upserts share one statement.

KEY TABLES:
  resources:           Roster with yearly capacity and blended rate
  projects:            Projects with estimated dates
  resource_allocation: Planned work (pct or hours per week)
  timeoff:             Unavailable ranges per resource
  timesheet_entry:     Logged hours per resource, project and day

SCHEMA:
  On PostgreSQL, tables live in the configured schema (for example "pmo")
  and are managed outside this package. On SQLite the schema is created on
  Open with CREATE TABLE IF NOT EXISTS.

CONCURRENCY:
  Uses sync.RWMutex like the in-memory store. ":memory:" databases are
  pinned to one connection so every query sees the same data.

USAGE:
  store, err := sqldb.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
  - config/config.go: DatabaseConfig
*/
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"sync"

	"github.com/warp/capacity-engine/config"
	"github.com/warp/capacity-engine/generic"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store implements generic.Store over database/sql.
type Store struct {
	db     *sql.DB
	driver string
	schema string
	mu     sync.RWMutex
}

var (
	_ generic.Store    = (*Store)(nil)
	_ generic.Resetter = (*Store)(nil)
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New opens a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	return Open(config.DatabaseConfig{Driver: DriverSQLite, DSN: dbPath})
}

// Open connects with the configured driver and pool limits.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	if cfg.Schema != "" && !identifier.MatchString(cfg.Schema) {
		return nil, fmt.Errorf("invalid schema name %q", cfg.Schema)
	}

	dsn := cfg.DSN
	switch cfg.Driver {
	case DriverSQLite:
		dsn += "?_foreign_keys=on&_journal_mode=WAL"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.Driver == DriverSQLite && cfg.DSN == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db, driver: cfg.Driver, schema: cfg.Schema}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		if err := store.migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	log.Printf("[Store] Connected (%s)", cfg.Driver)
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// table qualifies a table name with the configured schema.
func (s *Store) table(name string) string {
	if s.schema == "" {
		return name
	}
	return s.schema + "." + name
}

// migrate creates the SQLite schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS resources (
		resource_id INTEGER PRIMARY KEY,
		resource_name TEXT NOT NULL,
		resource_email TEXT NOT NULL DEFAULT '',
		resource_type TEXT NOT NULL DEFAULT '',
		resource_role TEXT NOT NULL DEFAULT '',
		strategic_portfolio TEXT NOT NULL DEFAULT '',
		product_line TEXT NOT NULL DEFAULT '',
		manager_name TEXT NOT NULL DEFAULT '',
		manager_email TEXT NOT NULL DEFAULT '',
		yearly_capacity REAL NOT NULL DEFAULT 0,
		blended_rate REAL,
		timesheet_resource_name TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_resources_portfolio
		ON resources(strategic_portfolio, product_line);

	CREATE TABLE IF NOT EXISTS projects (
		project_id INTEGER PRIMARY KEY,
		project_name TEXT NOT NULL,
		strategic_portfolio TEXT NOT NULL DEFAULT '',
		product_line TEXT NOT NULL DEFAULT '',
		start_date_est TEXT,
		end_date_est TEXT,
		timesheet_project_name TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS resource_allocation (
		allocation_id INTEGER PRIMARY KEY,
		resource_id INTEGER NOT NULL REFERENCES resources(resource_id),
		project_id INTEGER NOT NULL REFERENCES projects(project_id),
		allocation_start_date TEXT NOT NULL,
		allocation_end_date TEXT NOT NULL,
		allocation_pct REAL,
		allocation_hrs_per_week REAL
	);

	CREATE INDEX IF NOT EXISTS idx_allocation_resource_dates
		ON resource_allocation(resource_id, allocation_start_date, allocation_end_date);
	CREATE INDEX IF NOT EXISTS idx_allocation_project
		ON resource_allocation(project_id);

	CREATE TABLE IF NOT EXISTS timeoff (
		timeoff_id TEXT PRIMARY KEY,
		resource_id INTEGER NOT NULL REFERENCES resources(resource_id),
		timeoff_start_date TEXT NOT NULL,
		timeoff_end_date TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_timeoff_resource_dates
		ON timeoff(resource_id, timeoff_start_date, timeoff_end_date);

	CREATE TABLE IF NOT EXISTS timesheet_entry (
		ts_entry_id TEXT PRIMARY KEY,
		resource_id INTEGER NOT NULL REFERENCES resources(resource_id),
		project_id INTEGER NOT NULL REFERENCES projects(project_id),
		ts_entry_date TEXT NOT NULL,
		ts_total_hrs REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_timesheet_resource_date
		ON timesheet_entry(resource_id, ts_entry_date);
	CREATE INDEX IF NOT EXISTS idx_timesheet_project
		ON timesheet_entry(project_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"timesheet_entry", "timeoff", "resource_allocation", "projects", "resources"}
	if s.driver == DriverPostgres {
		qualified := ""
		for i, t := range tables {
			if i > 0 {
				qualified += ", "
			}
			qualified += s.table(t)
		}
		_, err := s.db.ExecContext(ctx, "TRUNCATE "+qualified+" RESTART IDENTITY")
		return err
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.table(t)); err != nil {
			return err
		}
	}
	return nil
}
