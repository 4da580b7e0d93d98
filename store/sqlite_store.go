package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/josephgoksu/taskpilot/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the snapshot as a single JSON document row in SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and creates if needed) the database at path.
// Use ":memory:" for an in-process database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		document TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Load returns the stored snapshot, or an empty one when the table or row is
// missing or the row cannot be decoded. Other query failures are returned.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var document string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM snapshots WHERE id = 1`).Scan(&document)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Snapshot{}, nil
	}
	if err != nil && strings.Contains(err.Error(), "no such table") {
		slog.Warn("snapshots table missing, starting from an empty snapshot", "backend", "sqlite", "location", s.path)
		return &models.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	return decodeDocument([]byte(document), "sqlite", s.path), nil
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	if err := s.initSchema(); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, document, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func encodeDocument(snap *models.Snapshot) ([]byte, error) {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	if snap.Requests == nil {
		snap.Requests = []models.Request{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decodeDocument(data []byte, backend, location string) *models.Snapshot {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("stored snapshot could not be parsed, starting from an empty snapshot", "backend", backend, "location", location, "error", err)
		return &models.Snapshot{}
	}
	if err := models.ValidateStruct(snap); err != nil {
		slog.Warn("stored snapshot is invalid, starting from an empty snapshot", "backend", backend, "location", location, "error", err)
		return &models.Snapshot{}
	}
	return &snap
}
