// Package domain provides the entities exchanged with the surge backend.
// All of them are backend-owned; the client only holds transient copies.
package domain

// Horizons are the fixed post-surge tracking offsets, in trading days.
var Horizons = []int{1, 3, 7, 30}

// SurgeEvent is one detected large single-day move for one symbol on one date.
type SurgeEvent struct {
	ID        int64   `json:"id"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Sector    string  `json:"sector"`
	StockType string  `json:"stock_type"`
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	ChangePct float64 `json:"change_pct"`
}

// TrackingRecord is a later observation of a surged symbol's price.
type TrackingRecord struct {
	ID              int64   `json:"id"`
	SurgeID         int64   `json:"surge_id"`
	Symbol          string  `json:"symbol"`
	DaysAfter       int     `json:"days_after"`
	Date            string  `json:"date"`
	Close           float64 `json:"close"`
	ChangeFromSurge float64 `json:"change_from_surge"`
}

// SurgeDetail is a surge event joined with its tracking records.
type SurgeDetail struct {
	SurgeEvent
	Tracking []TrackingRecord `json:"tracking"`
}

// MonthlyTrend is one month of the surge count trend.
type MonthlyTrend struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RepeatSurger is a symbol that surged more than once.
type RepeatSurger struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Count        int     `json:"count"`
	AvgChangePct float64 `json:"avg_change_pct"`
}

// SurgeStats aggregates surge events.
type SurgeStats struct {
	SectorDistribution map[string]int `json:"sector_distribution"`
	DayOfWeek          map[string]int `json:"day_of_week"`
	MonthlyTrend       []MonthlyTrend `json:"monthly_trend"`
	TopRepeatSurgers   []RepeatSurger `json:"top_repeat_surgers"`
}

// TrackingPerformance holds average returns and win rates over all tracked surges.
// Win rates are fractions in [0, 1]; the backend may send NaN when nothing is tracked.
type TrackingPerformance struct {
	Avg1D        float64 `json:"avg_1d"`
	Avg3D        float64 `json:"avg_3d"`
	Avg7D        float64 `json:"avg_7d"`
	Avg30D       float64 `json:"avg_30d"`
	WinRate1D    float64 `json:"win_rate_1d"`
	WinRate7D    float64 `json:"win_rate_7d"`
	WinRate30D   float64 `json:"win_rate_30d"`
	TotalTracked int     `json:"total_tracked"`
}

// SectorTracking holds average returns for one sector.
type SectorTracking struct {
	Sector string  `json:"sector"`
	Avg1D  float64 `json:"avg_1d"`
	Avg3D  float64 `json:"avg_3d"`
	Avg7D  float64 `json:"avg_7d"`
	Avg30D float64 `json:"avg_30d"`
	Count  int     `json:"count"`
}

// OHLCVData is one daily candle.
type OHLCVData struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// SearchResult is a lightweight instrument lookup record.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`
}

// SearchResponse is the envelope returned by the search endpoint.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

// UserSettings is the single mutable backend record.
type UserSettings struct {
	SurgeThreshold float64 `json:"surge_threshold"`
}

// AdminStatus is the collection scheduler state.
type AdminStatus struct {
	SchedulerRunning bool    `json:"scheduler_running"`
	NextRun          *string `json:"next_run"`
	LastRun          *string `json:"last_run"`
	LastRunStatus    *string `json:"last_run_status"`
}

// CollectionLog is one collection run record.
type CollectionLog struct {
	ID          int64   `json:"id"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	SurgesFound int     `json:"surges_found"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at"`
	Error       *string `json:"error"`
}

// ActionResult is returned by the collect and backfill triggers.
type ActionResult struct {
	Message string `json:"message"`
	LogID   *int64 `json:"log_id"`
}
