package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/josephgoksu/taskpilot/models"
)

// PostgresStore keeps the snapshot as a single JSONB document row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects using dsn and ensures the table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresStore{pool: pool}
	if err := s.EnsureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureTable creates the snapshots table if it doesn't exist.
func (s *PostgresStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS taskpilot_snapshots (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or an empty one when the table or row is
// missing. Other query failures are returned.
func (s *PostgresStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var document []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM taskpilot_snapshots WHERE id = 1`).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return &models.Snapshot{}, nil
	}
	if isUndefinedTable(err) {
		slog.Warn("snapshots table missing, starting from an empty snapshot", "backend", "postgres")
		return &models.Snapshot{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	return decodeDocument(document, "postgres", "taskpilot_snapshots"), nil
}

// Save upserts the snapshot row.
func (s *PostgresStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := encodeDocument(snap)
	if err != nil {
		return err
	}
	if err := s.EnsureTable(ctx); err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO taskpilot_snapshots (id, document, updated_at) VALUES (1, $1::jsonb, NOW())
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		string(data))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// undefinedTable is the SQLSTATE for a missing relation.
const undefinedTable = "42P01"

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTable
}
