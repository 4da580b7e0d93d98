package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/josephgoksu/taskpilot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_EmptyUntilSaved(t *testing.T) {
	s := setupSQLiteStore(t)

	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Requests)
	assert.Nil(t, snap.Metadata)
}

func TestSQLiteStore_SaveOverwrites(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	next := sampleSnapshot()
	next.Requests[0].Completed = true
	next.Requests = append(next.Requests, models.Request{RequestID: "req-2"})
	require.NoError(t, s.Save(ctx, next))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Requests, 2)
	assert.True(t, got.Requests[0].Completed)
	assert.Equal(t, "task-2", got.Requests[0].Tasks[1].ID)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Save(context.Background(), sampleSnapshot()))
	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, got.Requests, 1)
}

func TestSQLiteStore_MissingTableIsEmpty(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `DROP TABLE snapshots`)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Requests)

	require.NoError(t, s.Save(ctx, sampleSnapshot()), "save recreates the table")
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Requests, 1)
}

func TestSQLiteStore_InvalidDocumentIsEmpty(t *testing.T) {
	s := setupSQLiteStore(t)
	ctx := context.Background()
	_, err := s.db.ExecContext(ctx, `INSERT INTO snapshots (id, document, updated_at) VALUES (1, ?, '')`,
		`{"requests":[{"requestId":"req-1","tasks":[{"id":"task-1","status":"bogus","priority":"high"}]}]}`)
	require.NoError(t, err)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Requests)
}

func TestSQLiteStore_ClosedDatabaseFails(t *testing.T) {
	s := setupSQLiteStore(t)
	require.NoError(t, s.Close())

	_, err := s.Load(context.Background())
	assert.Error(t, err, "query failures other than a missing table are reported")
}
