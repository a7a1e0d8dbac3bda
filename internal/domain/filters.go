package domain

// DefaultPageSize is the surge list page size when none is configured.
const DefaultPageSize = 20

// SurgeFilters selects a page of the surge list.
// Zero values mean "not set" and are never sent to the backend.
type SurgeFilters struct {
	Page     int      `json:"page,omitempty" msgpack:"page,omitempty"`
	Limit    int      `json:"limit,omitempty" msgpack:"limit,omitempty"`
	FromDate string   `json:"from_date,omitempty" msgpack:"from_date,omitempty"`
	ToDate   string   `json:"to_date,omitempty" msgpack:"to_date,omitempty"`
	MinPct   *float64 `json:"min_pct,omitempty" msgpack:"min_pct,omitempty"`
	Sector   string   `json:"sector,omitempty" msgpack:"sector,omitempty"`
}

// DefaultSurgeFilters returns the first page with the given page size.
func DefaultSurgeFilters(limit int) SurgeFilters {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return SurgeFilters{Page: 1, Limit: limit}
}

// Float returns a pointer to v, for optional numeric filters.
func Float(v float64) *float64 {
	return &v
}
