package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/josephgoksu/taskpilot/models"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"
)

const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatTOML     = "toml"
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
	lockRetryDelay = 50 * time.Millisecond
)

// FileStore implements SnapshotStore on a single flat file. It supports JSON, YAML
// and TOML, writes through a temp file plus rename, and keeps a SHA-256 sidecar so
// out-of-band edits are noticed.
type FileStore struct {
	fs     afero.Fs
	path   string
	format string
	flk    *flock.Flock // nil unless fs is the OS filesystem
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFs swaps the filesystem, mostly for tests. Cross-process locking is only
// available on the OS filesystem.
func WithFs(fsys afero.Fs) FileOption {
	return func(s *FileStore) { s.fs = fsys }
}

// NewFileStore creates a store for path. An empty format is inferred from the file
// extension and falls back to JSON.
func NewFileStore(path, format string, opts ...FileOption) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("data file path is required")
	}
	resolved, err := resolveFormat(path, format)
	if err != nil {
		return nil, err
	}
	s := &FileStore{fs: afero.NewOsFs(), path: path, format: resolved}
	for _, opt := range opts {
		opt(s)
	}
	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(path + lockSuffix)
	}
	return s, nil
}

// Path returns the data file location.
func (s *FileStore) Path() string { return s.path }

// Format returns the serialization format in use.
func (s *FileStore) Format() string { return s.format }

func resolveFormat(path, format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case formatJSON, formatYAML, formatTOML:
		return f, nil
	case "yml":
		return formatYAML, nil
	case "":
	default:
		return "", fmt.Errorf("unsupported data format: %s. Supported formats are json, yaml, toml", format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return formatJSON, nil
}

// Lock takes an exclusive advisory lock on <path>.lock for the duration of one
// operation. It is a no-op on non-OS filesystems. When the lock file cannot be
// created because the target is read-only, the operation proceeds unlocked so
// reads still work; a later Save reports the failure.
func (s *FileStore) Lock(ctx context.Context) (func() error, error) {
	noop := func() error { return nil }
	if s.flk == nil {
		return noop, nil
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		if lockUnavailable(err) {
			slog.Warn("data directory is not writable, continuing without lock", "path", s.path, "error", err)
			return noop, nil
		}
		return nil, fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}
	locked, err := s.flk.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if lockUnavailable(err) {
			slog.Warn("lock file is not writable, continuing without lock", "lock", s.flk.Path(), "error", err)
			return noop, nil
		}
		return nil, fmt.Errorf("failed to lock %s: %w", s.flk.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire lock on %s", s.flk.Path())
	}
	return s.flk.Unlock, nil
}

// lockUnavailable reports whether err means the lock file cannot be written at
// all, as opposed to being held by someone else.
func lockUnavailable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS)
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Load reads the snapshot. Missing, unreadable, unparsable or invalid files (for
// example an unknown status) yield an empty snapshot; the reason is logged.
func (s *FileStore) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("data file unreadable, starting from an empty snapshot", "path", s.path, "error", err)
		}
		return &models.Snapshot{}, nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &models.Snapshot{}, nil
	}

	if expected, err := afero.ReadFile(s.fs, s.path+checksumSuffix); err == nil {
		if strings.TrimSpace(string(expected)) != calculateChecksum(data) {
			slog.Warn("checksum mismatch, data file was modified outside taskpilot", "path", s.path)
		}
	}

	snap, err := s.decode(data)
	if err != nil {
		slog.Warn("data file could not be loaded, starting from an empty snapshot", "path", s.path, "format", s.format, "error", err)
		return &models.Snapshot{}, nil
	}
	return snap, nil
}

func (s *FileStore) decode(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	var err error
	switch s.format {
	case formatYAML:
		err = yaml.Unmarshal(data, &snap)
	case formatTOML:
		err = toml.Unmarshal(data, &snap)
	default:
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", s.format, err)
	}
	if err := models.ValidateStruct(snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return &snap, nil
}

func (s *FileStore) encode(snap *models.Snapshot) ([]byte, error) {
	switch s.format {
	case formatYAML:
		return yaml.Marshal(snap)
	case formatTOML:
		buf := new(bytes.Buffer)
		if err := toml.NewEncoder(buf).Encode(snap); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return json.MarshalIndent(snap, "", "  ")
	}
}

// Save writes the data file and then its checksum, each via temp file and rename.
func (s *FileStore) Save(ctx context.Context, snap *models.Snapshot) error {
	if snap == nil {
		snap = &models.Snapshot{}
	}
	if snap.Requests == nil {
		snap.Requests = []models.Request{}
	}
	data, err := s.encode(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot to %s: %w", s.format, err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	tempFilePath := s.path + ".tmp"
	checksumFilePath := s.path + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"
	defer func() { _ = s.fs.Remove(tempFilePath) }()
	defer func() { _ = s.fs.Remove(tempChecksumFilePath) }()

	if err := afero.WriteFile(s.fs, tempFilePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempFilePath, err)
	}
	if err := afero.WriteFile(s.fs, tempChecksumFilePath, []byte(calculateChecksum(data)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumFilePath, err)
	}
	if err := s.fs.Rename(tempFilePath, s.path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempFilePath, s.path, err)
	}
	if err := s.fs.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		// The data file is already replaced; a stale checksum only produces a warning on next load.
		return fmt.Errorf("data file %s updated but checksum %s was not: %w", s.path, checksumFilePath, err)
	}
	return nil
}

// Close is a no-op; the file store holds no open handles between operations.
func (s *FileStore) Close() error { return nil }
