package query

import (
	"context"
	"errors"
	"sync"
)

// ErrMutationPending is returned by Mutate while an earlier call has not finished.
var ErrMutationPending = errors.New("mutation already pending")

// MutationStatus of a write.
type MutationStatus int

const (
	MutationIdle MutationStatus = iota
	MutationPending
	MutationSuccess
	MutationError
)

func (s MutationStatus) String() string {
	switch s {
	case MutationIdle:
		return "idle"
	case MutationPending:
		return "pending"
	case MutationSuccess:
		return "success"
	case MutationError:
		return "error"
	default:
		return "unknown"
	}
}

// MutationState is a snapshot of a Mutation.
type MutationState[R any] struct {
	Status MutationStatus
	Data   R
	Err    error
}

func (s MutationState[R]) IsPending() bool { return s.Status == MutationPending }
func (s MutationState[R]) IsSuccess() bool { return s.Status == MutationSuccess }
func (s MutationState[R]) IsError() bool   { return s.Status == MutationError }

// Mutation is a write that invalidates cached queries when it succeeds.
// Writes are never retried.
type Mutation[V, R any] struct {
	c           *Client
	name        string
	fn          func(ctx context.Context, v V) (R, error)
	invalidates []Key

	mu       sync.Mutex
	state    MutationState[R]
	onChange func(MutationState[R])
}

// NewMutation creates a write named for logging. Every key in invalidates is
// used as a prefix and invalidated after a successful write.
func NewMutation[V, R any](c *Client, name string, fn func(ctx context.Context, v V) (R, error), invalidates ...Key) *Mutation[V, R] {
	return &Mutation[V, R]{
		c:           c,
		name:        name,
		fn:          fn,
		invalidates: invalidates,
	}
}

// OnChange registers a callback run after every state transition.
func (m *Mutation[V, R]) OnChange(fn func(MutationState[R])) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Mutate performs the write. On success the configured prefixes are
// invalidated before the state turns to success.
func (m *Mutation[V, R]) Mutate(ctx context.Context, v V) (R, error) {
	var zero R

	m.mu.Lock()
	if m.state.Status == MutationPending {
		m.mu.Unlock()
		return zero, ErrMutationPending
	}
	m.setLocked(MutationState[R]{Status: MutationPending})
	m.mu.Unlock()
	m.emit()

	log := m.c.log.With().Str("mutation", m.name).Logger()
	res, err := m.fn(ctx, v)
	if err != nil {
		log.Error().Err(err).Msg("Mutation failed")
		m.mu.Lock()
		m.setLocked(MutationState[R]{Status: MutationError, Err: err})
		m.mu.Unlock()
		m.emit()
		return zero, err
	}

	for _, k := range m.invalidates {
		m.c.Invalidate(k)
	}
	log.Info().Int("invalidated_prefixes", len(m.invalidates)).Msg("Mutation succeeded")

	m.mu.Lock()
	m.setLocked(MutationState[R]{Status: MutationSuccess, Data: res})
	m.mu.Unlock()
	m.emit()
	return res, nil
}

// State returns the current snapshot.
func (m *Mutation[V, R]) State() MutationState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns a settled mutation to idle.
func (m *Mutation[V, R]) Reset() {
	m.mu.Lock()
	if m.state.Status == MutationPending {
		m.mu.Unlock()
		return
	}
	m.setLocked(MutationState[R]{})
	m.mu.Unlock()
	m.emit()
}

func (m *Mutation[V, R]) setLocked(s MutationState[R]) {
	m.state = s
}

func (m *Mutation[V, R]) emit() {
	m.mu.Lock()
	fn, st := m.onChange, m.state
	m.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}
