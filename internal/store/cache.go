package store

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Cache is the local device tier for theme settings: a plain string
// key/value table, one row per top-level settings field. Writes are
// per-key; there is no atomicity across keys and none is promised.
//
// It implements theme.Cache.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and if needed creates) the settings cache at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Get answers absent-or-string. Read errors are deliberately folded into
// "absent": the caller's fallback path (hardcoded defaults) handles both.
func (c *Cache) Get(key string) (string, bool) {
	var v string
	err := c.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if err != nil {
		return "", false
	}
	return v, true
}

func (c *Cache) Set(key, value string) error {
	if key == "" {
		return errors.New("empty cache key")
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, key, value)
	return err
}

// Delete removes a key. Missing keys are not an error.
func (c *Cache) Delete(key string) error {
	_, err := c.db.Exec(`DELETE FROM kv WHERE k = ?`, key)
	return err
}

// Keys returns all stored keys, sorted.
func (c *Cache) Keys() ([]string, error) {
	rows, err := c.db.Query(`SELECT k FROM kv ORDER BY k`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (c *Cache) Close() error {
	return c.db.Close()
}
