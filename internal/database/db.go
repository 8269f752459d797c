package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema owned by this process. The route cache is the
// only table the core keeps: persistence for anchor metadata and the rest
// of the peripheral system's schema live outside the core (spec.md §1).
func (db *DB) Migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS route_cache (
	cache_key    TEXT PRIMARY KEY,
	source_asset TEXT NOT NULL,
	dest_asset   TEXT NOT NULL,
	source_amount TEXT NOT NULL,
	routes_json  BLOB NOT NULL,
	computed_at  TIMESTAMP NOT NULL,
	expires_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_route_cache_expires_at ON route_cache(expires_at);
`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate route_cache schema: %w", err)
	}
	return nil
}
