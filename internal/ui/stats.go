package ui

import (
	"cmp"
	"math"
	"slices"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
)

// smaPeriod is the moving average window drawn over the price chart.
const smaPeriod = 20

const topN = 10

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Summary is the dashboard's headline numbers.
type Summary struct {
	TodayCount   int
	AvgSurgePct  float64
	TotalTracked int
	WinRate1D    string
}

func summarize(today []domain.SurgeEvent, perf *domain.TrackingPerformance) Summary {
	s := Summary{TodayCount: len(today), WinRate1D: "N/A"}
	if len(today) > 0 {
		changes := make([]float64, len(today))
		for i, e := range today {
			changes[i] = e.ChangePct
		}
		s.AvgSurgePct = stat.Mean(changes, nil)
	}
	if perf != nil {
		s.TotalTracked = perf.TotalTracked
		s.WinRate1D = format.WinRate(perf.WinRate1D)
	}
	return s
}

// closes extracts close prices in candle order.
func closes(candles []domain.OHLCVData) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// movingAverage returns the simple moving average aligned with data, NaN
// until the window fills. It is nil when data is shorter than the window.
func movingAverage(data []float64, period int) []float64 {
	if len(data) < period || period < 2 {
		return nil
	}
	sma := talib.Sma(data, period)
	for i := 0; i < period-1 && i < len(sma); i++ {
		sma[i] = math.NaN()
	}
	return sma
}

// surgeIndexes returns the candle positions that fall on a surge date.
func surgeIndexes(candles []domain.OHLCVData, surges []domain.SurgeEvent) []int {
	dates := make(map[string]bool, len(surges))
	for _, s := range surges {
		dates[format.Date(s.Date)] = true
	}
	var out []int
	for i, c := range candles {
		if dates[format.Date(c.Time)] {
			out = append(out, i)
		}
	}
	return out
}

func sectorBars(dist map[string]int) []Bar {
	bars := make([]Bar, 0, len(dist))
	for sector, n := range dist {
		bars = append(bars, Bar{Label: sector, Value: float64(n)})
	}
	slices.SortFunc(bars, func(a, b Bar) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return bars
}

func weekdayBars(dist map[string]int) []Bar {
	bars := make([]Bar, 0, len(weekdays))
	for _, d := range weekdays {
		n, ok := dist[d]
		if !ok && (d == "Saturday" || d == "Sunday") {
			continue
		}
		bars = append(bars, Bar{Label: d[:3], Value: float64(n)})
	}
	return bars
}

func trendBars(trend []domain.MonthlyTrend) []Bar {
	bars := make([]Bar, len(trend))
	for i, m := range trend {
		bars[i] = Bar{Label: m.Month, Value: float64(m.Count)}
	}
	return bars
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
