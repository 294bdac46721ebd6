// Package cache stores computed outlines in SQLite, keyed by document
// content and pipeline options, so unchanged documents are not decoded twice.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/thywilljoshua/pdf-outline/internal/outline"
)

const schema = `
CREATE TABLE IF NOT EXISTS outlines (
	key        TEXT PRIMARY KEY,
	document   TEXT NOT NULL,
	created_at INTEGER NOT NULL
);`

// Store is a SQLite-backed outline cache. It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("cache: mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range append(pragmas, schema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("cache: %s: %w", p, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Key derives the cache key of a document from its bytes, the options the
// outline is computed with and the decoder fingerprint (e.g. whether
// preflight validation ran).
func Key(r io.Reader, opts outline.Options, decoder string) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("cache: hash: %w", err)
	}
	fp, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("cache: options: %w", err)
	}
	h.Write([]byte{0})
	h.Write(fp)
	h.Write([]byte{0})
	h.Write([]byte(decoder))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// KeyFile is Key for the file at path.
func KeyFile(path string, opts outline.Options, decoder string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cache: %w", err)
	}
	defer f.Close()
	return Key(f, opts, decoder)
}

// Get returns the cached outline for key. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (doc outline.Document, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx, `SELECT document FROM outlines WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return outline.Document{}, false, nil
	}
	if err != nil {
		return outline.Document{}, false, fmt.Errorf("cache: get: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return outline.Document{}, false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	if doc.Outline == nil {
		doc.Outline = []outline.Entry{}
	}
	return doc, true, nil
}

// Put stores doc under key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key string, doc outline.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO outlines (key, document, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET document = excluded.document, created_at = excluded.created_at`,
		key, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache: put: %w", err)
	}
	return nil
}

// Len returns the number of cached outlines.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outlines`).Scan(&n); err != nil {
		return 0, fmt.Errorf("cache: count: %w", err)
	}
	return n, nil
}
