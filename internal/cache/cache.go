// Package cache tracks per-document build signatures so unchanged documents
// can be skipped on rebuild.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is a SQLite-backed signature store.
// Use ":memory:" for an in-memory database, or a file path for persistence
// across builds.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and if needed initializes) a signature cache.
func Open(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A second pooled connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	c := &Cache{db: db}
	if err := c.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS doc_signatures (
		path TEXT PRIMARY KEY,
		signature TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Signature computes the build signature of one document: the sha256 of its
// source bytes combined with the config hash, so a config change invalidates
// every document.
func Signature(source []byte, configHash string) string {
	h := sha256.New()
	h.Write(source)
	h.Write([]byte{0})
	h.Write([]byte(configHash))
	return hex.EncodeToString(h.Sum(nil))
}

// Fresh reports whether the stored signature for path matches signature.
func (c *Cache) Fresh(ctx context.Context, path, signature string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var stored string
	err := c.db.QueryRowContext(ctx,
		"SELECT signature FROM doc_signatures WHERE path = ?", path,
	).Scan(&stored)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query signature: %w", err)
	}
	return stored == signature, nil
}

// Record stores the signature for path, replacing any previous value.
func (c *Cache) Record(ctx context.Context, path, signature string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO doc_signatures (path, signature, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET signature = excluded.signature, updated_at = excluded.updated_at`,
		path, signature, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record signature: %w", err)
	}
	return nil
}

// Invalidate removes all stored signatures (used by --force builds).
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, "DELETE FROM doc_signatures"); err != nil {
		return fmt.Errorf("invalidate cache: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
