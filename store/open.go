package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config selects and parameterizes a backend.
type Config struct {
	Backend string // file (default), sqlite or postgres
	File    string // data file for file, database file for sqlite
	Format  string // json, yaml or toml; file backend only
	DSN     string // postgres connection string
}

// Open creates the SnapshotStore described by cfg.
func Open(ctx context.Context, cfg Config) (SnapshotStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFile:
		return NewFileStore(cfg.File, cfg.Format)
	case BackendSQLite:
		if cfg.File == "" {
			return nil, errors.New("sqlite backend requires a database file")
		}
		return NewSQLiteStore(cfg.File)
	case BackendPostgres:
		if cfg.DSN == "" {
			return nil, errors.New("postgres backend requires a DSN")
		}
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
