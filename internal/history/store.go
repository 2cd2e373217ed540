package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"voicebridge/internal/kv"
	"voicebridge/internal/translation"
)

// StorageKey is the single key the serialized log lives under.
const StorageKey = "translation_history"

// ErrIndexOutOfRange signals a delete aimed at a record that does not exist.
var ErrIndexOutOfRange = errors.New("history index out of range")

// Store keeps an append-only log of translation records as one JSON array
// in a key-value store. Records are stored in chronological order; the
// history view shows them newest first, so display indexes are converted
// back to storage indexes before a delete.
//
// Append, DeleteAt and Clear all read-modify-write the same blob, so they
// are serialized by a store-internal mutex.
type Store struct {
	logger *slog.Logger
	kv     kv.Store

	mu sync.Mutex
}

// NewStore constructs a Store.
func NewStore(logger *slog.Logger, store kv.Store) *Store {
	return &Store{logger: logger, kv: store}
}

// Append adds a record to the end of the log.
func (s *Store) Append(ctx context.Context, rec translation.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	records = append(records, rec)
	return s.write(ctx, records)
}

// LoadAll returns the log in chronological order. A log that was never
// written, or whose blob cannot be parsed, loads as empty.
func (s *Store) LoadAll(ctx context.Context) ([]translation.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx), nil
}

// LoadDisplay returns the log in display order, newest first.
func (s *Store) LoadDisplay(ctx context.Context) ([]translation.Record, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return DisplayOrder(records), nil
}

// DeleteAt removes the record at the given display index. The view is
// newest-first, so display index i addresses storage index len-1-i.
func (s *Store) DeleteAt(ctx context.Context, displayIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	if displayIndex < 0 || displayIndex >= len(records) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, displayIndex, len(records))
	}

	storageIndex := len(records) - 1 - displayIndex
	records = append(records[:storageIndex], records[storageIndex+1:]...)
	return s.write(ctx, records)
}

// Clear removes the persisted blob entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("%w: clear history: %w", translation.ErrStorage, err)
	}
	return nil
}

// load fails closed: any read or parse problem yields an empty log rather
// than an error reaching the caller. Callers must hold s.mu.
func (s *Store) load(ctx context.Context) []translation.Record {
	blob, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("history blob unreadable, treating as empty", slog.String("error", err.Error()))
		}
		return nil
	}

	var records []translation.Record
	if err := json.Unmarshal(blob, &records); err != nil {
		s.logger.Warn("history blob corrupt, treating as empty", slog.String("error", err.Error()))
		return nil
	}
	return records
}

func (s *Store) write(ctx context.Context, records []translation.Record) error {
	if records == nil {
		records = []translation.Record{}
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshal history: %w", translation.ErrStorage, err)
	}
	if err := s.kv.Set(ctx, StorageKey, blob); err != nil {
		return fmt.Errorf("%w: write history: %w", translation.ErrStorage, err)
	}
	return nil
}

// DisplayOrder returns a reversed copy of a chronological log, newest first.
func DisplayOrder(records []translation.Record) []translation.Record {
	out := make([]translation.Record, len(records))
	for i, rec := range records {
		out[len(records)-1-i] = rec
	}
	return out
}
