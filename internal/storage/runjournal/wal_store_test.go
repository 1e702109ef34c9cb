package runjournal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWALStoreAppendAndReadBack(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	base := store.CurrentIndex()

	entries := []Entry{
		{RunID: "run-1", At: time.Now().UTC(), Kind: "run", Today: "2025-10-20", TargetDate: "2025-10-17"},
		{RunID: "run-1", At: time.Now().UTC(), Kind: "change", Date: "2025-10-17", Instrument: "TIPS Bond ETF", New: "6.64", Reason: "tracked"},
		{RunID: "run-1", At: time.Now().UTC(), Kind: "change", Date: "2025-10-15", Instrument: "JPM EM Bonds ETF", Old: "5.0", New: "6.2", Reason: "corrected"},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(e))
	}

	records, err := store.EntriesAfter(base)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "run", records[0].Entry.Kind)
	assert.Equal(t, "2025-10-17", records[0].Entry.TargetDate)
	assert.Equal(t, "TIPS Bond ETF", records[1].Entry.Instrument)
	assert.Equal(t, "corrected", records[2].Entry.Reason)
	assert.Equal(t, base+3, store.CurrentIndex())
}

func TestWALStoreRejectsEntryWithoutRunID(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.Error(t, store.Append(Entry{Kind: "run"}))
}

func TestWALStoreEntriesAfterCurrentIndex(t *testing.T) {
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Append(Entry{RunID: "run-1", Kind: "run"}))

	records, err := store.EntriesAfter(store.CurrentIndex())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWALStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Append(Entry{RunID: "run-1", Kind: "run", Today: "2025-10-20"}))
	idx := store.CurrentIndex()
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, idx, reopened.CurrentIndex())
	records, err := reopened.EntriesAfter(idx - 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-1", records[0].Entry.RunID)
}
