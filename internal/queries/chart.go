package queries

import (
	"strings"
	"time"

	"github.com/aristath/surgedash/internal/domain"
)

// DateLayout is the backend's date format.
const DateLayout = "2006-01-02"

// HistoryLimit is how many of the most recent surges the stock view scans for a symbol.
const HistoryLimit = 100

// ChartRange is a selectable lookback window for the stock chart.
type ChartRange struct {
	Label  string
	Months int
}

// ChartRanges in display order.
var ChartRanges = []ChartRange{
	{Label: "1M", Months: 1},
	{Label: "3M", Months: 3},
	{Label: "6M", Months: 6},
	{Label: "1Y", Months: 12},
	{Label: "2Y", Months: 24},
}

// DefaultChartRange is 6M.
const DefaultChartRange = 2

// Window returns the from/to dates ending at now.
func (r ChartRange) Window(now time.Time) (from, to string) {
	return now.AddDate(0, -r.Months, 0).Format(DateLayout), now.Format(DateLayout)
}

// HistoryFilters selects the page scanned for a symbol's surge history.
func HistoryFilters() domain.SurgeFilters {
	return domain.SurgeFilters{Page: 1, Limit: HistoryLimit}
}

// FilterBySymbol keeps the events for symbol, ignoring case.
func FilterBySymbol(events []domain.SurgeEvent, symbol string) []domain.SurgeEvent {
	out := make([]domain.SurgeEvent, 0)
	for _, e := range events {
		if strings.EqualFold(e.Symbol, symbol) {
			out = append(out, e)
		}
	}
	return out
}
