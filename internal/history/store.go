// Package history is the local store of pipeline results: a single sqlite
// table keyed by record ID, with a content-hash column for duplicate
// screenshot lookup. Records are stored as the JSON the pipeline produced;
// the store never reinterprets them.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/tundeoj/snapsort/constants"
)

// Entry is one stored pipeline result.
type Entry struct {
	ID          uuid.UUID
	ImagePath   string
	ContentHash string
	Type        constants.ScreenshotType
	Confidence  float32
	RecordJSON  string
	CreatedAt   time.Time
}

// Store provides access to the snapsort history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id            TEXT PRIMARY KEY,
	image_path    TEXT NOT NULL,
	content_hash  TEXT NOT NULL,
	type          TEXT NOT NULL,
	confidence    REAL NOT NULL,
	record_json   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_hash ON extractions(content_hash);
CREATE INDEX IF NOT EXISTS idx_extractions_type ON extractions(type);
`

// Open opens (creating if needed) the history database at path. The parent
// directory is created when missing. Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts an entry, assigning ID and CreatedAt when unset.
func (s *Store) Save(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO extractions (id, image_path, content_hash, type, confidence, record_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID.String(), e.ImagePath, e.ContentHash, string(e.Type), e.Confidence, e.RecordJSON,
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert extraction: %w", err)
	}
	return nil
}

// List returns stored entries newest-first, optionally filtered by type.
// limit <= 0 means no limit.
func (s *Store) List(ctx context.Context, typeFilter constants.ScreenshotType, limit int) ([]Entry, error) {
	query := `
		SELECT id, image_path, content_hash, type, confidence, record_json, created_at
		FROM extractions
	`
	var args []any
	if typeFilter != "" {
		query += " WHERE type = ?"
		args = append(args, string(typeFilter))
	}
	query += " ORDER BY created_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindByHash returns the most recent entry for a content hash, or nil when
// the screenshot has not been processed before.
func (s *Store) FindByHash(ctx context.Context, hash string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, image_path, content_hash, type, confidence, record_json, created_at
		FROM extractions
		WHERE content_hash = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, hash)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var id, typ, createdAt string
	if err := row.Scan(&id, &e.ImagePath, &e.ContentHash, &typ, &e.Confidence, &e.RecordJSON, &createdAt); err != nil {
		return Entry{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Entry{}, fmt.Errorf("parse entry id: %w", err)
	}
	e.ID = parsed
	e.Type = constants.ScreenshotType(typ)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		e.CreatedAt = t
	}
	return e, nil
}

// HashFile returns the lowercase hex SHA-256 of a file's content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
