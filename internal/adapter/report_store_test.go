package adapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

func TestLocalReportStore_SaveAndLoad(t *testing.T) {
	store := NewLocalReportStore(NewLocalSourceFSAdapter())
	ctx := context.Background()
	dir := m.Path(filepath.Join(t.TempDir(), ".reports"))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	later := m.CoverageSnapshot{Success: true, Percent: 85, MeasuredAt: base.Add(time.Minute)}
	earlier := m.CoverageSnapshot{Success: false, Percent: 0, MeasuredAt: base}

	path, err := store.SaveSnapshot(ctx, dir, "run-2", later)
	require.NoError(t, err)
	assert.Contains(t, string(path), "coverage-20260301T120100")
	assert.Contains(t, string(path), "run-2.json")

	_, err = store.SaveSnapshot(ctx, dir, "run-1", earlier)
	require.NoError(t, err)

	writeTestFile(t, filepath.Join(string(dir), "coverage-broken.json"), "{")
	writeTestFile(t, filepath.Join(string(dir), "notes.txt"), "ignored")

	records, err := store.LoadSnapshots(ctx, dir)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "run-1", records[0].RunID)
	assert.False(t, records[0].Snapshot.Success)
	assert.Equal(t, "run-2", records[1].RunID)
	assert.InDelta(t, 85.0, records[1].Snapshot.Percent, 0.001)
	assert.True(t, records[1].Snapshot.MeasuredAt.Equal(later.MeasuredAt))
	assert.Equal(t, path, records[1].Path)
}

func TestLocalReportStore_LoadMissingDirectory(t *testing.T) {
	store := NewLocalReportStore(NewLocalSourceFSAdapter())

	records, err := store.LoadSnapshots(context.Background(), m.Path(filepath.Join(t.TempDir(), "none")))
	require.NoError(t, err)
	assert.Empty(t, records)
}
