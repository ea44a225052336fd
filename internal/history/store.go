package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nao1215/sitepulse/internal/kvstore"
	"github.com/nao1215/sitepulse/internal/model"
)

// Key is the store key holding the history list.
const Key = "history"

// MaxEntries is the maximum number of entries kept.
const MaxEntries = 50

// Store persists HistoryEntry lists in a kvstore.Store.
type Store struct {
	mu    sync.Mutex
	kv    kvstore.Store
	newID func() string
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New creates a history Store on top of kv.
func New(kv kvstore.Store, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save records result as the newest entry, drops the oldest entries beyond
// MaxEntries, persists the list and returns it.
func (s *Store) Save(ctx context.Context, result *model.AnalysisResult) ([]model.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	entry := model.NewHistoryEntry(s.newID(), result)
	entries = append([]model.HistoryEntry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	if err := kvstore.SetJSON(ctx, s.kv, Key, entries); err != nil {
		return nil, fmt.Errorf("failed to save history: %w", err)
	}
	return entries, nil
}

// List returns the persisted entries, newest first. A missing or corrupt
// list reads as empty.
func (s *Store) List(ctx context.Context) ([]model.HistoryEntry, error) {
	return s.load(ctx)
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (*model.HistoryEntry, bool, error) {
	entries, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	e, ok := find(entries, id)
	return e, ok, nil
}

// Compare looks up both ids and returns their comparison. It returns nil
// without error when either id is unknown.
func (s *Store) Compare(ctx context.Context, id1, id2 string) (*model.Comparison, error) {
	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	a, ok := find(entries, id1)
	if !ok {
		return nil, nil
	}
	b, ok := find(entries, id2)
	if !ok {
		return nil, nil
	}
	return model.CompareEntries(*a, *b), nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context) ([]model.HistoryEntry, error) {
	var entries []model.HistoryEntry
	ok, err := kvstore.GetJSON(ctx, s.kv, Key, &entries)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if !ok || entries == nil {
		return []model.HistoryEntry{}, nil
	}
	return entries, nil
}

func find(entries []model.HistoryEntry, id string) (*model.HistoryEntry, bool) {
	for i := range entries {
		if entries[i].ID == id {
			e := entries[i]
			return &e, true
		}
	}
	return nil, false
}
