package store

import (
	"context"

	"github.com/josephgoksu/taskpilot/models"
)

// SnapshotStore defines the persistence contract for the whole task document.
// The engine loads the snapshot at the start of every operation and saves it after
// any mutation; backends never see partial state.
type SnapshotStore interface {
	// Load returns the persisted snapshot. When nothing can be read or parsed it
	// returns an empty snapshot with nil metadata rather than an error.
	Load(ctx context.Context) (*models.Snapshot, error)

	// Save replaces the persisted snapshot. Failures (e.g. a read-only target) are
	// returned to the caller unchanged in meaning; the previous document stays
	// authoritative.
	Save(ctx context.Context, snap *models.Snapshot) error

	// Close releases backend resources.
	Close() error
}

// Locker is implemented by backends that can serialize a whole load→save cycle
// across processes. The returned function releases the lock.
type Locker interface {
	Lock(ctx context.Context) (unlock func() error, err error)
}
