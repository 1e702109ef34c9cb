// Package runjournal keeps an append-only audit trail of what each
// pipeline run changed in the series, backed by a write-ahead log.
package runjournal

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultJournalDir   = "./wal/runs"
	journalSegmentLimit = 1000
	journalMaxSegments  = 100
	entryKeyPrefix      = "run_entry_"
)

// Entry is one journal record: either a run marker or a single applied
// cell change.
type Entry struct {
	RunID      string    `json:"run_id"`
	At         time.Time `json:"at"`
	Kind       string    `json:"kind"` // "run" or "change"
	Today      string    `json:"today,omitempty"`
	TargetDate string    `json:"target_date,omitempty"`
	Date       string    `json:"date,omitempty"`
	Instrument string    `json:"instrument,omitempty"`
	Old        string    `json:"old,omitempty"`
	New        string    `json:"new,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// Record bundles an entry with the log index it originated from.
type Record struct {
	Index uint64
	Entry Entry
}

// WALStore persists journal entries in a WAL for later inspection.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed journal under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultJournalDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "journal_",
		SegmentThreshold: journalSegmentLimit,
		MaxSegments:      journalMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init run journal WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one entry. Callers must set RunID.
func (s *WALStore) Append(entry Entry) error {
	if s == nil || s.wal == nil {
		return errors.New("run journal store is not initialized")
	}
	if entry.RunID == "" {
		return errors.New("journal entry run id is required")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "marshal journal entry")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, entryKeyPrefix+entry.RunID, payload)
}

// EntriesAfter returns all journal entries written after the provided index.
func (s *WALStore) EntriesAfter(index uint64) ([]Record, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("run journal store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, entryKeyPrefix) {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, errors.Wrap(err, "decode journal entry")
		}
		records = append(records, Record{Index: idx, Entry: entry})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("run journal store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
