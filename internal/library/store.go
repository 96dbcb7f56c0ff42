package library

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JaimeStill/research-library/internal/backend"
)

// Status is the load state of the Store.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
)

// RefreshObserver receives the outcome of every refresh.
type RefreshObserver interface {
	ObserveRefresh(count int, err error)
}

// Store holds the client's snapshot of the library. It is written only by
// Refresh: there are no optimistic inserts or removals.
type Store struct {
	backend  Backend
	logger   *slog.Logger
	observer RefreshObserver

	mu       sync.RWMutex
	docs     []backend.Document
	tag      string
	inflight int
	lastErr  error
	loaded   bool
}

// NewStore creates an empty store. A nil observer disables refresh reporting.
func NewStore(b Backend, logger *slog.Logger, observer RefreshObserver) *Store {
	return &Store{
		backend:  b,
		logger:   logger.With("system", "store"),
		observer: observer,
		docs:     []backend.Document{},
	}
}

// Refresh replaces the snapshot with the backend's current listing. Each call
// performs exactly one List request. On failure the previous snapshot is kept
// and the error is returned and recorded.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.inflight++
	tag := s.tag
	s.mu.Unlock()

	result, err := s.backend.List(ctx, tag)

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.lastErr = err
	} else {
		s.docs = result.Documents
		s.lastErr = nil
		s.loaded = true
	}
	count := len(s.docs)
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveRefresh(count, err)
	}

	if err != nil {
		s.logger.Warn("refresh failed", "tag", tag, "error", err)
		return err
	}

	s.logger.Debug("refreshed", "tag", tag, "count", count)
	return nil
}

// SetTagFilter sets the tag used by subsequent refreshes. An empty tag lists
// everything.
func (s *Store) SetTagFilter(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tag = tag
}

// TagFilter returns the current filter.
func (s *Store) TagFilter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tag
}

// Documents returns a copy of the snapshot in backend order.
func (s *Store) Documents() []backend.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]backend.Document, len(s.docs))
	copy(docs, s.docs)
	return docs
}

// Find looks up a document in the current snapshot.
func (s *Store) Find(id string) (backend.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.docs {
		if d.ID == id {
			return d, true
		}
	}
	return backend.Document{}, false
}

// Status reports whether a refresh is in flight or the last one failed.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.inflight > 0:
		return StatusLoading
	case s.lastErr != nil:
		return StatusError
	default:
		return StatusIdle
	}
}

// Err returns the error of the last completed refresh, if it failed.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Loaded reports whether any refresh has succeeded yet.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}
