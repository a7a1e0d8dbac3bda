// Package uistate holds the process-wide visibility flags shared by the
// header, sidebar and command palette.
package uistate

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is a snapshot of the flags.
type State struct {
	SidebarOpen bool
	SearchOpen  bool
}

// Store is the single owner of State. Writers win in call order; subscribers
// are told only when a flag actually changes.
type Store struct {
	log   zerolog.Logger
	state State
	subs  map[string]func(State)
	mu    sync.RWMutex
}

// NewStore returns a store with the sidebar open and the search palette closed.
func NewStore(log zerolog.Logger) *Store {
	return &Store{
		log:   log.With().Str("component", "ui_state").Logger(),
		state: State{SidebarOpen: true},
		subs:  make(map[string]func(State)),
	}
}

// Snapshot returns the current flags.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) SidebarOpen() bool { return s.Snapshot().SidebarOpen }
func (s *Store) SearchOpen() bool  { return s.Snapshot().SearchOpen }

func (s *Store) SetSidebarOpen(open bool) {
	s.update(func(st *State) { st.SidebarOpen = open })
}

func (s *Store) ToggleSidebar() {
	s.update(func(st *State) { st.SidebarOpen = !st.SidebarOpen })
}

func (s *Store) SetSearchOpen(open bool) {
	s.update(func(st *State) { st.SearchOpen = open })
}

// Subscribe registers fn for changes and returns a function that removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	id := uuid.NewString()

	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) update(apply func(*State)) {
	s.mu.Lock()
	old := s.state
	apply(&s.state)
	next := s.state
	if next == old {
		s.mu.Unlock()
		return
	}
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug().
		Bool("sidebar_open", next.SidebarOpen).
		Bool("search_open", next.SearchOpen).
		Msg("UI state updated")

	for _, fn := range subs {
		fn(next)
	}
}
