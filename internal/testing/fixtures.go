package testing

import (
	"github.com/aristath/surgedash/internal/domain"
)

// NewSurgeFixtures returns surge events spread over January 2024.
func NewSurgeFixtures() []domain.SurgeEvent {
	return []domain.SurgeEvent{
		{ID: 1, Symbol: "ACME", Name: "Acme Robotics", Exchange: "NASDAQ", Sector: "Technology", StockType: "CS", Date: "2024-01-03", Open: 4.10, High: 5.60, Low: 4.05, Close: 5.45, Volume: 12_400_000, ChangePct: 32.9},
		{ID: 2, Symbol: "BIOX", Name: "Biox Therapeutics", Exchange: "NYSE", Sector: "Healthcare", StockType: "CS", Date: "2024-01-05", Open: 11.00, High: 14.20, Low: 10.90, Close: 13.95, Volume: 3_100_000, ChangePct: 26.8},
		{ID: 3, Symbol: "CRUX", Name: "Crux Energy", Exchange: "NYSE", Sector: "Energy", StockType: "CS", Date: "2024-01-10", Open: 2.00, High: 2.70, Low: 1.98, Close: 2.62, Volume: 850_000, ChangePct: 21.3},
		{ID: 4, Symbol: "ACME", Name: "Acme Robotics", Exchange: "NASDAQ", Sector: "Technology", StockType: "CS", Date: "2024-01-18", Open: 5.20, High: 7.10, Low: 5.15, Close: 6.95, Volume: 20_500_000, ChangePct: 41.2},
		{ID: 5, Symbol: "DYNA", Name: "Dyna Semiconductor", Exchange: "NASDAQ", Sector: "Technology", StockType: "CS", Date: "2024-01-24", Open: 30.50, High: 38.00, Low: 30.10, Close: 37.20, Volume: 7_800_000, ChangePct: 24.6},
		{ID: 6, Symbol: "ELMO", Name: "Elmo Foods", Exchange: "NYSE", Sector: "Consumer Staples", StockType: "CS", Date: "2024-01-31", Open: 8.00, High: 10.10, Low: 7.95, Close: 9.90, Volume: 999, ChangePct: 20.5},
	}
}

// NewTickerFixtures returns the instruments the search endpoint knows about.
func NewTickerFixtures() []domain.SearchResult {
	return []domain.SearchResult{
		{Symbol: "ACME", Name: "Acme Robotics", Exchange: "NASDAQ", Sector: "Technology"},
		{Symbol: "ACMR", Name: "Acmer Holdings", Exchange: "NYSE", Sector: "Industrials"},
		{Symbol: "BIOX", Name: "Biox Therapeutics", Exchange: "NYSE", Sector: "Healthcare"},
		{Symbol: "CRUX", Name: "Crux Energy", Exchange: "NYSE", Sector: "Energy"},
	}
}

// NewStatsFixture returns aggregate statistics consistent with NewSurgeFixtures.
func NewStatsFixture() domain.SurgeStats {
	return domain.SurgeStats{
		SectorDistribution: map[string]int{"Technology": 3, "Healthcare": 1, "Energy": 1, "Consumer Staples": 1},
		DayOfWeek:          map[string]int{"Monday": 0, "Tuesday": 0, "Wednesday": 4, "Thursday": 1, "Friday": 1},
		MonthlyTrend:       []domain.MonthlyTrend{{Month: "2023-12", Count: 2}, {Month: "2024-01", Count: 6}},
		TopRepeatSurgers:   []domain.RepeatSurger{{Symbol: "ACME", Name: "Acme Robotics", Count: 2, AvgChangePct: 37.05}},
	}
}

// NewTrackingFixture returns global post-surge performance.
func NewTrackingFixture() domain.TrackingPerformance {
	return domain.TrackingPerformance{
		Avg1D: -2.4, Avg3D: -4.1, Avg7D: -6.8, Avg30D: -12.5,
		WinRate1D: 0.42, WinRate7D: 0.35, WinRate30D: 0.28,
		TotalTracked: 6,
	}
}

// NewSectorTrackingFixtures returns per-sector post-surge performance.
func NewSectorTrackingFixtures() []domain.SectorTracking {
	return []domain.SectorTracking{
		{Sector: "Technology", Avg1D: -1.2, Avg3D: -3.0, Avg7D: -5.5, Avg30D: -10.0, Count: 3},
		{Sector: "Healthcare", Avg1D: 2.5, Avg3D: 1.0, Avg7D: -2.0, Avg30D: -15.0, Count: 1},
		{Sector: "Energy", Avg1D: -6.0, Avg3D: -8.0, Avg7D: -9.1, Avg30D: -20.0, Count: 1},
	}
}

// NewCandleFixtures returns daily candles for one symbol.
func NewCandleFixtures() []domain.OHLCVData {
	return []domain.OHLCVData{
		{Time: "2024-01-02", Open: 4.00, High: 4.20, Low: 3.90, Close: 4.10, Volume: 900_000},
		{Time: "2024-01-03", Open: 4.10, High: 5.60, Low: 4.05, Close: 5.45, Volume: 12_400_000},
		{Time: "2024-01-04", Open: 5.40, High: 5.50, Low: 4.80, Close: 4.95, Volume: 6_100_000},
		{Time: "2024-01-05", Open: 4.90, High: 5.05, Low: 4.70, Close: 4.85, Volume: 2_000_000},
	}
}
