package query

import "time"

// Status of a query as seen by its consumer.
type Status int

const (
	// StatusIdle: disabled and nothing cached.
	StatusIdle Status = iota
	// StatusLoading: no data yet, request in flight or about to start.
	StatusLoading
	// StatusSuccess: data present, last fetch succeeded.
	StatusSuccess
	// StatusError: last fetch failed. Previously fetched data stays available.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of one query.
type State[T any] struct {
	Status    Status
	Data      T
	HasData   bool
	Err       error
	Fetching  bool
	Stale     bool
	UpdatedAt time.Time
}

func (s State[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s State[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s State[T]) IsError() bool   { return s.Status == StatusError }

func snapshot[T any](e *entry, enabled, stale bool) State[T] {
	if e == nil {
		if enabled {
			return State[T]{Status: StatusLoading, Stale: true}
		}
		return State[T]{Status: StatusIdle, Stale: true}
	}

	st := State[T]{
		Err:       e.err,
		Fetching:  e.inflight != nil,
		Stale:     stale,
		UpdatedAt: e.updatedAt,
	}
	if e.hasData {
		if v, ok := e.data.(T); ok {
			st.Data = v
			st.HasData = true
		}
	}

	switch {
	case e.err != nil:
		st.Status = StatusError
	case st.HasData:
		st.Status = StatusSuccess
	case !enabled:
		st.Status = StatusIdle
	default:
		st.Status = StatusLoading
	}
	return st
}
