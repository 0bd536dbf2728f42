// Package cache persists content digests between runs so unchanged files
// are not rehashed.
//
// Entries are keyed by absolute path and validated against file size and
// modification time: any change to either invalidates the entry. The cache
// is advisory — a cold or missing cache only costs rehashing, never
// correctness.
package cache

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/cpconfirm/internal/confirm"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema (digests table)
const currentSchemaVersion = 1

// Cache stores file digests in a SQLite database.
// Uses WAL mode so lookups stay readable while entries are written.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the digest database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open digest cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to digest cache: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1) // Single writer to avoid SQLITE_BUSY errors
	db.SetMaxIdleConns(1) // Keep one connection ready

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached digest for path if an entry exists with a
// matching size and modification time. ok is false on a miss or a stale
// entry.
func (c *Cache) Lookup(path string, size, mtimeNS int64) (d confirm.Digest, ok bool, err error) {
	var blob []byte
	row := c.db.QueryRow(
		`SELECT digest FROM digests WHERE path = ? AND size = ? AND mtime_ns = ?`,
		path, size, mtimeNS,
	)
	switch err := row.Scan(&blob); err {
	case nil:
	case sql.ErrNoRows:
		return confirm.Digest{}, false, nil
	default:
		return confirm.Digest{}, false, fmt.Errorf("cache lookup for %s: %w", path, err)
	}

	if len(blob) != confirm.DigestSize {
		// Entry written by an incompatible version; treat as a miss.
		return confirm.Digest{}, false, nil
	}
	copy(d[:], blob)
	return d, true, nil
}

// Store upserts the digest for path under the given size and modification
// time, replacing any previous entry for the path.
func (c *Cache) Store(path string, size, mtimeNS int64, d confirm.Digest) error {
	_, err := c.db.Exec(
		`INSERT INTO digests (path, size, mtime_ns, digest) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET size = excluded.size, mtime_ns = excluded.mtime_ns, digest = excluded.digest`,
		path, size, mtimeNS, d[:],
	)
	if err != nil {
		return fmt.Errorf("cache store for %s: %w", path, err)
	}
	return nil
}

// Len returns the number of cached entries. Used for testing and stats.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM digests`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache count: %w", err)
	}
	return n, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates tables if they don't exist. Idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}
