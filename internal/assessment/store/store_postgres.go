package store

import (
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"threecs/pkg/platform/sentinel"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// NewPostgres constructs a PostgreSQL-backed assessment store.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{
		db: db,
		dialect: dialect{
			name:      "postgres",
			bind:      rebindDollar,
			translate: translatePostgresError,
		},
	}
}

// rebindDollar rewrites "?" placeholders as $1, $2, ...
func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func translatePostgresError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return errors.Join(sentinel.ErrConflict, err)
		case pqForeignKeyViolation:
			return errors.Join(sentinel.ErrNotFound, err)
		}
	}
	return err
}
