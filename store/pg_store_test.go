package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TASKPILOT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TASKPILOT_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Save(ctx, sampleSnapshot()))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Requests, 1)
	assert.Len(t, got.Requests[0].Tasks, 3)
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, isUndefinedTable(fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01"})))
	assert.False(t, isUndefinedTable(&pgconn.PgError{Code: "28P01"}))
	assert.False(t, isUndefinedTable(errors.New("connection refused")))
	assert.False(t, isUndefinedTable(nil))
}
