// Package session keeps the per-visitor dashboard state. Each session owns
// its filter state and current view; nothing is shared between sessions and
// nothing outlives the process.
package session

import (
	"sync"
	"time"

	"github.com/okian/visitas/internal/domain/filter"
	"github.com/okian/visitas/internal/domain/types"
)

// State is the mutable part of a session.
type State struct {
	Filter filter.State
	View   types.View
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{Filter: filter.NewState(), View: types.ViewOverview}
}

// Session is one visitor's state. All access goes through Do, which runs
// one interaction at a time.
type Session struct {
	id      string
	created time.Time

	mu    sync.Mutex
	state State

	// guarded by Store.mu
	lastSeen time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Created returns when the session started.
func (s *Session) Created() time.Time { return s.created }

// Do runs fn with exclusive access to the session state.
func (s *Session) Do(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.state)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
