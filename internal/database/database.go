// Package database provides persistence for the beastmaster pet catalog
// and the per-player tracked-pet records, on SQLite or PostgreSQL.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Database wraps the SQL connection and provides persistence operations.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open opens the database for the given dialect.
// For SQLite, dsn is a file path and the parent directory is created.
// For PostgreSQL, dsn is a connection string.
func Open(dialectType DialectType, dsn string) (*Database, error) {
	dialect := NewDialect(dialectType)

	if dialectType == DialectSQLite {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	for _, stmt := range dialect.InitStatements() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run init statement: %w", err)
		}
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// OpenSQLite opens or creates a SQLite database at the given path.
func OpenSQLite(path string) (*Database, error) {
	return Open(DialectSQLite, path)
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// migrate creates the module schema if it doesn't exist.
// The statements are dialect-neutral and idempotent.
func (d *Database) migrate() error {
	migrations := []string{
		// Adoptable creature catalog
		`CREATE TABLE IF NOT EXISTS beastmaster_tames (
			entry BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			family BIGINT NOT NULL DEFAULT 0,
			rarity TEXT NOT NULL DEFAULT 'normal'
		)`,

		// Per-player tracked pets, at most one row per (owner, entry)
		`CREATE TABLE IF NOT EXISTS beastmaster_tamed_pets (
			owner_id BIGINT NOT NULL,
			entry BIGINT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			date_tamed TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(owner_id, entry)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_tamed_pets_owner ON beastmaster_tamed_pets(owner_id)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	return nil
}

// DB returns the underlying sql.DB for advanced operations.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Dialect returns the active SQL dialect.
func (d *Database) Dialect() Dialect {
	return d.dialect
}
