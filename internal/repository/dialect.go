package repository

import (
	"strconv"
	"strings"
)

// Dialect selects placeholder style and DDL for the ratings store.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) Dialect {
	switch driver {
	case "pgx", "postgres":
		return DialectPostgres
	default:
		return DialectSQLite
	}
}

// rebind rewrites ? placeholders into $n for Postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
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

func (d Dialect) schema() string {
	if d == DialectPostgres {
		return `
		CREATE TABLE IF NOT EXISTS ratings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			doctor_id BIGINT NOT NULL,
			doctor_name TEXT NOT NULL,
			visited BOOLEAN NOT NULL,
			rating SMALLINT CHECK (rating BETWEEN 1 AND 5),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_ratings_doctor_id ON ratings (doctor_id);
		`
	}
	return `
	CREATE TABLE IF NOT EXISTS ratings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		doctor_id INTEGER NOT NULL,
		doctor_name TEXT NOT NULL,
		visited BOOLEAN NOT NULL,
		rating INTEGER CHECK (rating BETWEEN 1 AND 5),
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_ratings_doctor_id ON ratings (doctor_id);
	`
}
