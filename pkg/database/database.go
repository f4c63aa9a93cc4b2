// Package database provides the relational store shared by every social
// component. It wraps sqlx over either a local SQLite file (mattn/go-sqlite3)
// or an rqlite cluster (gorqlite's database/sql driver), classifies
// constraint violations, and applies embedded schema migrations.
package database

import (
	"context"
	"database/sql"
)

// Database is the query surface the stores depend on.
type Database interface {
	// Query executes a SELECT query and scans results into dest
	// dest should be a pointer to a slice of structs with `db` tags
	Query(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// QueryOne executes a SELECT query and scans a single result into dest.
	// Returns sql.ErrNoRows when nothing matched.
	QueryOne(ctx context.Context, dest interface{}, query string, args ...interface{}) error

	// Exec executes an INSERT, UPDATE, or DELETE statement.
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// RowsAffected returns res.RowsAffected, treating an unsupported count as 0.
func RowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
