package table

import "github.com/aristath/surgedash/internal/domain"

// FilterState owns the surge list filters. Changing any field other than the
// page sends the list back to page 1.
type FilterState struct {
	f            domain.SurgeFilters
	defaultLimit int
}

func NewFilterState(defaultLimit int) *FilterState {
	s := &FilterState{defaultLimit: defaultLimit}
	s.Reset()
	return s
}

// Filters returns a copy of the current filters.
func (s *FilterState) Filters() domain.SurgeFilters {
	f := s.f
	if f.MinPct != nil {
		f.MinPct = domain.Float(*f.MinPct)
	}
	return f
}

func (s *FilterState) SetFromDate(v string) { s.f.FromDate = v; s.f.Page = 1 }
func (s *FilterState) SetToDate(v string)   { s.f.ToDate = v; s.f.Page = 1 }
func (s *FilterState) SetSector(v string)   { s.f.Sector = v; s.f.Page = 1 }

// SetMinPct sets the minimum change filter; nil clears it.
func (s *FilterState) SetMinPct(v *float64) {
	if v != nil {
		v = domain.Float(*v)
	}
	s.f.MinPct = v
	s.f.Page = 1
}

func (s *FilterState) SetLimit(v int) {
	if v <= 0 {
		v = s.defaultLimit
	}
	s.f.Limit = v
	s.f.Page = 1
}

// SetPage moves to page n, never below 1.
func (s *FilterState) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.f.Page = n
}

// Next advances one page if p allows it.
func (s *FilterState) Next(p Pager) bool {
	if !p.HasNext() {
		return false
	}
	s.SetPage(s.f.Page + 1)
	return true
}

// Prev goes back one page if p allows it.
func (s *FilterState) Prev(p Pager) bool {
	if !p.HasPrev() {
		return false
	}
	s.SetPage(s.f.Page - 1)
	return true
}

// Reset discards every filter and returns to the first page of default size.
func (s *FilterState) Reset() {
	s.f = domain.DefaultSurgeFilters(s.defaultLimit)
	if s.defaultLimit <= 0 {
		s.defaultLimit = s.f.Limit
	}
}
