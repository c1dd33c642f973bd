package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists fetched source text across compiler runs in SQLite.
//
// Cross-session reuse of cached text is only sound when the entries are
// unchanged, so every row carries a content hash that Load re-verifies; a
// row whose text no longer matches its recorded hash is dropped instead of
// being trusted.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sources (
	path   TEXT PRIMARY KEY,
	text   TEXT NOT NULL,
	sha256 TEXT NOT NULL
);
`

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to cache database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load seeds a fresh Codes cache with every verified row.
func (s *Store) Load() (*Codes, error) {
	rows, err := s.db.Query("SELECT path, text, sha256 FROM sources")
	if err != nil {
		return nil, fmt.Errorf("reading cached sources: %w", err)
	}
	defer rows.Close()

	codes := NewCodes()
	var stale []string
	for rows.Next() {
		var path, text, sum string
		if err := rows.Scan(&path, &text, &sum); err != nil {
			return nil, fmt.Errorf("scanning cached source: %w", err)
		}
		if hashText(text) != sum {
			stale = append(stale, path)
			continue
		}
		if err := codes.Put(path, text); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cached sources: %w", err)
	}

	for _, path := range stale {
		if _, err := s.db.Exec("DELETE FROM sources WHERE path = ?", path); err != nil {
			return nil, fmt.Errorf("dropping stale cache row %q: %w", path, err)
		}
	}
	return codes, nil
}

// Save persists every entry of codes, replacing existing rows.
func (s *Store) Save(codes *Codes) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO sources (path, text, sha256) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing cache insert: %w", err)
	}
	defer stmt.Close()

	for _, path := range codes.Paths() {
		text, _ := codes.Get(path)
		if _, err := stmt.Exec(path, text, hashText(text)); err != nil {
			return fmt.Errorf("writing cache row %q: %w", path, err)
		}
	}
	return tx.Commit()
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
