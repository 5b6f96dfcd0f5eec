// Package storage provides persistence for game scores and round records.
// SQLite files use the pure-Go modernc.org/sqlite driver; postgres:// data
// source names use lib/pq.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the database connection for score persistence.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// Open creates or opens a database. A postgres:// or postgresql:// DSN
// connects to PostgreSQL; anything else is a SQLite file path, whose parent
// directories are created as needed. Migrations run in both cases.
func Open(dsn string) (*Store, error) {
	d := sqliteDialect
	if isPostgresDSN(dsn) {
		d = postgresDialect
	} else {
		path, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// prepareSQLitePath expands ~ and creates the parent directories.
func prepareSQLitePath(dbPath string) (string, error) {
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return dbPath, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(s.dialect.schema)
	return err
}

// Driver returns the name of the database backend ("sqlite" or "postgres").
func (s *Store) Driver() string {
	return s.dialect.name
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// insert runs an INSERT and returns the new row ID. lib/pq has no
// LastInsertId, so PostgreSQL uses RETURNING instead.
func (s *Store) insert(query string, args ...any) (int64, error) {
	if s.dialect.numbered {
		var id int64
		if err := s.db.QueryRow(s.dialect.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.Query(s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRow(s.dialect.rebind(query), args...)
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.db.Exec(s.dialect.rebind(query), args...)
}
