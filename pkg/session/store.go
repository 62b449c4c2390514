package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/adforge/pkg/errors"
)

// DefaultTTL is how long an idle editor is kept.
const DefaultTTL = 2 * time.Hour

// Store keeps editors by ID.
type Store interface {
	// Get returns the editor and marks it used. Missing or expired editors
	// give SESSION_NOT_FOUND.
	Get(ctx context.Context, id string) (*Editor, error)

	// Put stores e under e.ID().
	Put(ctx context.Context, e *Editor) error

	// Delete closes and removes an editor. Deleting a missing ID is not an
	// error.
	Delete(ctx context.Context, id string) error

	// Cleanup closes and removes expired editors and returns how many.
	Cleanup(ctx context.Context) (int, error)

	// Close closes every editor.
	Close() error
}

// MemoryStore keeps editors in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	editors map[string]*Editor
	now     func() time.Time
}

// NewMemoryStore returns a store expiring editors idle for longer than ttl
// (DefaultTTL when ttl <= 0).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, editors: make(map[string]*Editor), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Editor, error) {
	s.mu.Lock()
	e, ok := s.editors[id]
	if ok && s.expired(e) {
		delete(s.editors, id)
		s.mu.Unlock()
		e.Close()
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s expired", id)
	}
	s.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	e.Touch()
	return e, nil
}

func (s *MemoryStore) Put(_ context.Context, e *Editor) error {
	if e == nil || e.ID() == "" {
		return errors.New(errors.ErrCodeInvalidInput, "editor has no ID")
	}
	s.mu.Lock()
	old := s.editors[e.ID()]
	s.editors[e.ID()] = e
	s.mu.Unlock()
	if old != nil && old != e {
		old.Close()
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	e, ok := s.editors[id]
	delete(s.editors, id)
	s.mu.Unlock()
	if ok {
		e.Close()
	}
	return nil
}

func (s *MemoryStore) Cleanup(_ context.Context) (int, error) {
	s.mu.Lock()
	var expired []*Editor
	for id, e := range s.editors {
		if s.expired(e) {
			expired = append(expired, e)
			delete(s.editors, id)
		}
	}
	s.mu.Unlock()
	for _, e := range expired {
		e.Close()
	}
	return len(expired), nil
}

// Len returns the number of stored editors, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.editors)
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	editors := s.editors
	s.editors = make(map[string]*Editor)
	s.mu.Unlock()
	for _, e := range editors {
		e.Close()
	}
	return nil
}

func (s *MemoryStore) expired(e *Editor) bool {
	return s.now().Sub(e.LastUsed()) > s.ttl
}

var _ Store = (*MemoryStore)(nil)
