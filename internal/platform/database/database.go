// Package database opens the relational store and applies the schema.
package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"threecs/internal/platform/config"
)

var (
	//go:embed migrations/postgres.sql
	postgresSchema string
	//go:embed migrations/sqlite.sql
	sqliteSchema string
)

// Open connects to the configured driver, pings it and applies the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", cfg.Driver)
		}
		db, err := sql.Open("postgres", cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		return finish(ctx, db, postgresSchema)
	case config.DriverSQLite:
		db, err := sql.Open("sqlite", SQLiteDSN(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite serializes writers; a single connection also keeps :memory: databases shared.
		db.SetMaxOpenConns(1)
		return finish(ctx, db, sqliteSchema)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the schema for driver to db. Statements are idempotent.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema := postgresSchema
	if driver == config.DriverSQLite {
		schema = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply %s schema: %w", driver, err)
	}
	return nil
}

// SQLiteDSN turns a path (or empty for in-memory) into a DSN with foreign keys on.
func SQLiteDSN(path string) string {
	path = strings.TrimPrefix(path, "sqlite://")
	if path == "" {
		path = ":memory:"
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func finish(ctx context.Context, db *sql.DB, schema string) (*sql.DB, error) {
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
