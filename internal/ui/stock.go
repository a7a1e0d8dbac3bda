package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/theme"
)

const chartHeight = 12

// stockPage charts one instrument and lists its recorded surges.
type stockPage struct {
	deps    Deps
	symbol  string
	rangeIx int
	chart   *query.Observer[[]domain.OHLCVData]
	history *query.Observer[domain.Page[domain.SurgeEvent]]
}

func newStockPage(d Deps, notify func(), symbol string) *stockPage {
	p := &stockPage{
		deps:    d,
		symbol:  strings.ToUpper(symbol),
		rangeIx: queries.DefaultChartRange,
	}
	c := d.Queries.Cache()
	p.chart = query.Observe(c, p.chartOptions(), func(query.State[[]domain.OHLCVData]) { notify() })
	p.history = query.Observe(c, d.Queries.Surges(queries.HistoryFilters()),
		func(query.State[domain.Page[domain.SurgeEvent]]) { notify() })
	return p
}

func (p *stockPage) chartOptions() query.Options[[]domain.OHLCVData] {
	from, to := queries.ChartRanges[p.rangeIx].Window(p.deps.Now())
	return p.deps.Queries.StockChart(p.symbol, from, to)
}

func (p *stockPage) Title() string   { return p.symbol }
func (p *stockPage) Capturing() bool { return false }

func (p *stockPage) Help() []key.Binding {
	return []key.Binding{keys.RangePrev, keys.RangeNext, keys.Back}
}

func (p *stockPage) Close() {
	p.chart.Close()
	p.history.Close()
}

func (p *stockPage) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.RangePrev):
		if p.rangeIx > 0 {
			p.rangeIx--
			p.chart.SetOptions(p.chartOptions())
		}
	case key.Matches(msg, keys.RangeNext):
		if p.rangeIx < len(queries.ChartRanges)-1 {
			p.rangeIx++
			p.chart.SetOptions(p.chartOptions())
		}
	}
	return nil
}

func (p *stockPage) surges() []domain.SurgeEvent {
	return queries.FilterBySymbol(p.history.State().Data.Items, p.symbol)
}

func (p *stockPage) View(width int) string {
	t := theme.Default
	surges := p.surges()

	heading := t.Title(p.symbol)
	if len(surges) > 0 {
		info := surges[0]
		heading += "  " + t.MutedText(info.Name)
		if info.Sector != "" {
			heading += " " + t.Badge(info.Sector, t.Text, t.Overlay)
		}
		if info.Exchange != "" {
			heading += " " + t.Badge(info.Exchange, t.Subtext, t.Surface)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		heading,
		"",
		t.Card("Price Chart  "+p.viewRanges(), p.viewChart(width-4, surges), width),
		t.Card("Surge History", p.viewHistory(surges), width),
	)
}

func (p *stockPage) viewRanges() string {
	t := theme.Default
	labels := make([]string, len(queries.ChartRanges))
	for i, r := range queries.ChartRanges {
		if i == p.rangeIx {
			labels[i] = t.Badge(r.Label, t.Base, t.Primary)
			continue
		}
		labels[i] = t.MutedText(" " + r.Label + " ")
	}
	return strings.Join(labels, "")
}

func (p *stockPage) viewChart(width int, surges []domain.SurgeEvent) string {
	t := theme.Default
	st := p.chart.State()

	switch {
	case !st.HasData && st.IsLoading():
		return t.MutedText("Loading chart...")
	case !st.HasData && st.IsError():
		return t.ErrorText("Unable to fetch chart data.")
	case len(st.Data) == 0:
		return t.MutedText("No chart data available for this period.")
	}

	prices := closes(st.Data)
	chart := AreaChart{
		Data:     prices,
		Overlay:  movingAverage(prices, smaPeriod),
		Baseline: prices[0],
		Width:    width,
		Height:   chartHeight,
		Above:    t.Gain,
		Below:    t.Loss,
		Line:     t.Warning,
	}

	last := st.Data[len(st.Data)-1]
	legend := t.MutedText(format.Date(st.Data[0].Time)+" → "+format.Date(last.Time)) +
		"  " + format.Price(last.Close) +
		"  " + lipgloss.NewStyle().Foreground(t.Warning).Render("• SMA 20")

	lines := []string{chart.Render()}
	if markers := MarkerRow(len(prices), surgeIndexes(st.Data, surges), width, t.Accent); markers != "" {
		lines = append(lines, markers)
		legend += "  " + lipgloss.NewStyle().Foreground(t.Accent).Render("▲ surge")
	}
	return strings.Join(append(lines, legend), "\n")
}

func (p *stockPage) viewHistory(surges []domain.SurgeEvent) string {
	t := theme.Default
	st := p.history.State()

	switch {
	case !st.HasData && st.IsLoading():
		return t.MutedText("Loading...")
	case len(surges) == 0:
		return t.MutedText("No surge events recorded for " + p.symbol + ".")
	}

	g := grid{headers: []string{"Date", "Change%", "Open", "Close", "High", "Low", "Volume"}, cursor: -1}
	for _, s := range surges {
		g.rows = append(g.rows, []string{
			format.Date(s.Date),
			format.Percent(s.ChangePct),
			format.Price(s.Open),
			format.Price(s.Close),
			format.Price(s.High),
			format.Price(s.Low),
			format.Volume(s.Volume),
		})
		g.colors = append(g.colors, []lipgloss.Color{"", t.ToneColor(format.PercentTone(s.ChangePct))})
	}
	return g.render(0)
}
