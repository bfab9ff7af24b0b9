// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package intent

import (
	"sync"

	"github.com/google/uuid"
)

// Sessions is a registry of live collectors keyed by session ID, so
// concurrent conversations never share interview state.
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*Collector
	factory func() *Collector
}

// NewSessions builds a registry; factory produces a fresh collector per
// session.
func NewSessions(factory func() *Collector) *Sessions {
	return &Sessions{
		byID:    make(map[string]*Collector),
		factory: factory,
	}
}

// Create registers a new session and returns its ID and collector.
func (s *Sessions) Create() (string, *Collector) {
	id := uuid.NewString()
	collector := s.factory()

	s.mu.Lock()
	s.byID[id] = collector
	s.mu.Unlock()
	return id, collector
}

// Get returns the session's collector, if it exists.
func (s *Sessions) Get(id string) (*Collector, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	return c, ok
}

// Reset clears the session's conversation state, keeping its ID. It
// reports whether the session exists.
func (s *Sessions) Reset(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[id]
	if ok {
		c.Reset()
	}
	return ok
}

// Remove drops the session.
func (s *Sessions) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
}
