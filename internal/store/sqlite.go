// Package store archives chat transcripts in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/soyeahso/relay/internal/logging"
)

// MemoryPath opens a private in-memory archive.
const MemoryPath = ":memory:"

// pragmas run on every new archive connection, in order.
var pragmas = []struct {
	stmt string
	what string
}{
	{"PRAGMA journal_mode=WAL", "setting WAL mode"},
	{"PRAGMA foreign_keys=ON", "enabling foreign keys"},
	// `relay history` may read while a chat session holds the write lock.
	{"PRAGMA busy_timeout=5000", "setting busy timeout"},
	{"PRAGMA synchronous=NORMAL", "setting synchronous mode"},
}

// DB is an archive database with its schema migrated.
type DB struct {
	sql  *sql.DB
	path string
	log  *logging.Logger
}

// Open opens the archive at path, creating the file and its directory when
// missing, and brings the schema up to date.
func Open(path string, log *logging.Logger) (*DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating archive directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	// A single connection keeps pragmas and in-memory data visible to every query.
	sqlDB.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := sqlDB.Exec(p.stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	db := &DB{sql: sqlDB, path: path, log: log.Sub("store")}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	db.log.Debug().Str("path", path).Int("schema", db.mustVersion()).Msg("archive opened")
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	db.log.Debug().Str("path", db.path).Msg("closing archive")
	return db.sql.Close()
}

// SQL returns the underlying *sql.DB.
func (db *DB) SQL() *sql.DB {
	return db.sql
}

// Path returns the file the archive was opened from.
func (db *DB) Path() string {
	return db.path
}

// SchemaVersion returns the highest applied migration.
func (db *DB) SchemaVersion() (int, error) {
	var v sql.NullInt64
	if err := db.sql.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return int(v.Int64), nil
}

func (db *DB) mustVersion() int {
	v, _ := db.SchemaVersion()
	return v
}

func (db *DB) migrate() error {
	if _, err := db.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	current, err := db.SchemaVersion()
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := db.apply(m); err != nil {
			return err
		}
		db.log.Debug().Int("version", m.Version).Str("name", m.Name).Msg("migration applied")
	}
	return nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.SQL); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("recording migration %d: %w", m.Version, err)
	}
	return tx.Commit()
}
