package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tellocheck/internal/models"
)

func snapshotAt(ts time.Time, internetOK, deviceOK bool) models.Snapshot {
	return models.Snapshot{
		Timestamp: ts,
		Internet:  models.ProbeResult{Target: "https://example.com", OK: internetOK, CheckedAt: ts},
		Device:    models.ProbeResult{Target: "192.168.10.1", OK: deviceOK, CheckedAt: ts},
	}
}

func TestAppendAndLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "snapshot_history.json")
	store, err := NewSnapshotStorage(path)
	require.NoError(t, err)

	_, ok := store.Latest()
	assert.False(t, ok)

	first := snapshotAt(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC), true, true)
	second := snapshotAt(time.Date(2026, 8, 23, 10, 1, 0, 0, time.UTC), true, false)
	require.NoError(t, store.Append(first))
	require.NoError(t, store.Append(second))

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, second, latest)
	assert.Len(t, store.History(), 2)
}

func TestHistorySurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_history.json")

	store, err := NewSnapshotStorage(path)
	require.NoError(t, err)
	snap := snapshotAt(time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC), false, true)
	snap.Handshake = &models.HandshakeResult{Connected: true, Battery: 64, StreamOK: true}
	require.NoError(t, store.Append(snap))

	reloaded, err := NewSnapshotStorage(path)
	require.NoError(t, err)

	latest, ok := reloaded.Latest()
	require.True(t, ok)
	assert.Equal(t, snap, latest)
}

func TestHistoryN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_history.json")
	store, err := NewSnapshotStorage(path)
	require.NoError(t, err)

	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(snapshotAt(base.Add(time.Duration(i)*time.Minute), true, true)))
	}

	recent := store.HistoryN(2)
	require.Len(t, recent, 2)
	assert.Equal(t, base.Add(3*time.Minute), recent[0].Timestamp)
	assert.Equal(t, base.Add(4*time.Minute), recent[1].Timestamp)

	assert.Len(t, store.HistoryN(10), 5)
	assert.Nil(t, store.HistoryN(0))
}

func TestEmptyFileIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_history.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := NewSnapshotStorage(path)
	require.NoError(t, err)
	assert.Empty(t, store.History())
}

func TestCorruptFileIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewSnapshotStorage(path)
	require.Error(t, err)
}
