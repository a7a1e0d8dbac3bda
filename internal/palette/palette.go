// Package palette implements the command palette: a global search overlay
// that resolves a typed query into an instrument to open.
package palette

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/uistate"
)

// NoResults is shown when a non-empty query matched nothing.
const NoResults = "No results found."

// Mode of the palette.
type Mode int

const (
	Closed Mode = iota
	OpenEmpty
	OpenResults
)

func (m Mode) String() string {
	switch m {
	case Closed:
		return "closed"
	case OpenEmpty:
		return "open-empty"
	case OpenResults:
		return "open-results"
	default:
		return "unknown"
	}
}

// Palette tracks the query text and its search results. Visibility lives in
// the shared UI store so the header and keyboard shortcut can open it too.
type Palette struct {
	store   *uistate.Store
	queries *queries.Queries
	log     zerolog.Logger

	mu     sync.Mutex
	text   string
	search *query.Observer[[]domain.SearchResult]
}

// New creates a closed palette. onChange is called whenever search results change.
func New(store *uistate.Store, q *queries.Queries, log zerolog.Logger, onChange func()) *Palette {
	p := &Palette{
		store:   store,
		queries: q,
		log:     log.With().Str("component", "palette").Logger(),
	}
	p.search = query.Observe(q.Cache(), q.Search(""), func(query.State[[]domain.SearchResult]) {
		if onChange != nil {
			onChange()
		}
	})
	return p
}

// Mode derives the current state from visibility and query text.
func (p *Palette) Mode() Mode {
	if !p.store.SearchOpen() {
		return Closed
	}
	if p.Query() == "" {
		return OpenEmpty
	}
	return OpenResults
}

// Toggle opens or closes the palette. The query text is kept either way.
func (p *Palette) Toggle() {
	p.store.SetSearchOpen(!p.store.SearchOpen())
}

// Query returns the current text.
func (p *Palette) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.text
}

// SetQuery updates the text and re-keys the search. Empty text searches nothing.
func (p *Palette) SetQuery(text string) {
	p.mu.Lock()
	if text == p.text {
		p.mu.Unlock()
		return
	}
	p.text = text
	p.mu.Unlock()

	p.search.SetOptions(p.queries.Search(text))
}

// Results returns the search state for the current text.
func (p *Palette) Results() query.State[[]domain.SearchResult] {
	return p.search.State()
}

// Message returns the empty-state text, if any.
func (p *Palette) Message() string {
	if p.Mode() != OpenResults {
		return ""
	}
	st := p.Results()
	if st.IsSuccess() && len(st.Data) == 0 {
		return NoResults
	}
	return ""
}

// Select picks result i, closes the palette and clears the query.
// It returns the chosen symbol for navigation.
func (p *Palette) Select(i int) (symbol string, ok bool) {
	if p.Mode() != OpenResults {
		return "", false
	}
	st := p.Results()
	if !st.HasData || i < 0 || i >= len(st.Data) {
		return "", false
	}
	symbol = st.Data[i].Symbol

	p.log.Debug().Str("symbol", symbol).Msg("Palette selection")
	p.Dismiss()
	return symbol, true
}

// Dismiss closes the palette and clears the query.
func (p *Palette) Dismiss() {
	p.store.SetSearchOpen(false)
	p.SetQuery("")
}

// Close releases the search subscription.
func (p *Palette) Close() {
	p.search.Close()
}
