package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ftr/internal/config"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLStore(config.DriverSQLite, filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStore_SaveAndHistory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := sampleSummary()
	second := sampleSummary()
	second.RunID = NewRunID()
	second.StartedAt = first.StartedAt.Add(time.Hour)
	second.Failed, second.Passed = 0, 3

	require.NoError(t, s.Save(first, nil))
	require.NoError(t, s.Save(second, nil))

	runs, err := s.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.RunID, runs[0].RunID, "newest first")
	assert.Equal(t, first.RunID, runs[1].RunID)
	assert.Equal(t, 1500*time.Millisecond, runs[1].Elapsed)
	assert.Equal(t, 1, runs[1].Failed)
	assert.Equal(t, 2, runs[1].Errors)
	assert.True(t, runs[1].StartedAt.Equal(first.StartedAt))

	runs, err = s.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLStore_Jobs(t *testing.T) {
	s := openTestStore(t)
	sum := sampleSummary()
	require.NoError(t, s.Save(sum, nil))

	jobs, err := s.Jobs(context.Background(), sum.RunID)
	require.NoError(t, err)
	assert.Equal(t, sum.Jobs, jobs)

	jobs, err = s.Jobs(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestSQLStore_DuplicateRun(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(sampleSummary(), nil))
	assert.Error(t, s.Save(sampleSummary(), nil))

	runs, err := s.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := OpenSQLStore(config.DriverSQLite, path)
	require.NoError(t, err)
	require.NoError(t, s.Save(sampleSummary(), nil))
	require.NoError(t, s.Close())

	s, err = OpenSQLStore(config.DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()
	runs, err := s.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestOpenSQLStore_UnknownDriver(t *testing.T) {
	_, err := OpenSQLStore("oracle", "x")
	assert.Error(t, err)
}
