package store

import (
	"database/sql"
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"threecs/pkg/platform/sentinel"
)

// NewSQLite constructs a SQLite-backed assessment store for single-node deployments.
func NewSQLite(db *sql.DB) *SQLStore {
	return &SQLStore{
		db: db,
		dialect: dialect{
			name:      "sqlite",
			bind:      func(q string) string { return q },
			translate: translateSQLiteError,
		},
	}
}

func translateSQLiteError(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(sentinel.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(sentinel.ErrNotFound, err)
		}
	}
	return err
}
