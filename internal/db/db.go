package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		password TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users (username)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		is_completed INTEGER,
		user_id INTEGER REFERENCES users (id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_user_id ON items (user_id)`,
}

// Open initializes the connection pool for a SQLite database at dbPath
// and makes sure the schema exists. ":memory:" is accepted and pinned to a
// single connection so every query sees the same database.
func Open(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if dbPath == ":memory:" {
		pool.SetMaxOpenConns(1)
	}

	if err := InitializeDB(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "connected to sqlite database", "path", dbPath)
	return pool, nil
}

// DSN adds the connection pragmas to dbPath. Pragmas in the DSN run on
// every connection the pool opens, unlike a one-off PRAGMA statement.
func DSN(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)"
}

// InitializeDB creates the users and items tables.
// Usernames are deliberately not UNIQUE: registration checks for them.
func InitializeDB(ctx context.Context, DB *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.DebugContext(ctx, "sqlite schema verified")
	return nil
}
