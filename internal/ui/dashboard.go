package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/theme"
)

// dashboardPage shows today's activity and the aggregate statistics.
type dashboardPage struct {
	stats    *query.Observer[domain.SurgeStats]
	today    *query.Observer[[]domain.SurgeEvent]
	tracking *query.Observer[domain.TrackingPerformance]

	// cursor walks repeat surgers first, then today's surges.
	cursor int
}

func newDashboardPage(d Deps, notify func()) *dashboardPage {
	q, c := d.Queries, d.Queries.Cache()
	return &dashboardPage{
		stats:    query.Observe(c, q.SurgeStats(), func(query.State[domain.SurgeStats]) { notify() }),
		today:    query.Observe(c, q.TodaySurges(), func(query.State[[]domain.SurgeEvent]) { notify() }),
		tracking: query.Observe(c, q.TrackingPerformance(), func(query.State[domain.TrackingPerformance]) { notify() }),
	}
}

func (p *dashboardPage) Title() string   { return "Dashboard" }
func (p *dashboardPage) Capturing() bool { return false }

func (p *dashboardPage) Help() []key.Binding {
	return []key.Binding{keys.Up, keys.Down, keys.Enter}
}

func (p *dashboardPage) Close() {
	p.stats.Close()
	p.today.Close()
	p.tracking.Close()
}

// symbols lists the rows the cursor can land on, in display order.
func (p *dashboardPage) symbols() []string {
	var out []string
	for _, r := range firstN(p.stats.State().Data.TopRepeatSurgers, topN) {
		out = append(out, r.Symbol)
	}
	for _, s := range firstN(p.today.State().Data, topN) {
		out = append(out, s.Symbol)
	}
	return out
}

func (p *dashboardPage) Update(msg tea.KeyMsg) tea.Cmd {
	symbols := p.symbols()
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(symbols)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if p.cursor < len(symbols) {
			return navigate(RouteStock, symbols[p.cursor])
		}
	}
	return nil
}

func (p *dashboardPage) View(width int) string {
	t := theme.Default
	stats := p.stats.State()
	today := p.today.State()
	tracking := p.tracking.State()

	var perf *domain.TrackingPerformance
	if tracking.HasData {
		perf = &tracking.Data
	}
	sum := summarize(today.Data, perf)

	hero := theme.GradientText(banner(strconv.Itoa(sum.TodayCount)), t.Primary, t.Accent)

	cardWidth := max(18, width/4)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		t.Card("Today's Surges", t.Title(strconv.Itoa(sum.TodayCount))+"\n"+t.MutedText("Stocks surging today"), cardWidth),
		t.Card("Avg Surge %", t.Percent(sum.AvgSurgePct)+"\n"+t.MutedText("Average change today"), cardWidth),
		t.Card("Total Tracked", t.Title(strconv.Itoa(sum.TotalTracked))+"\n"+t.MutedText("Stocks with tracking data"), cardWidth),
		t.Card("Win Rate (1d)", t.Title(sum.WinRate1D)+"\n"+t.MutedText("Positive after 1 day"), cardWidth),
	)

	sections := []string{hero, "", cards, ""}

	if stats.HasData {
		half := max(30, width/2)
		sections = append(sections,
			lipgloss.JoinHorizontal(lipgloss.Top,
				t.Card("Monthly Surge Trend", RenderBars(trendBars(stats.Data.MonthlyTrend), half-4, t.Primary), half),
				t.Card("Sector Distribution", RenderBars(sectorBars(stats.Data.SectorDistribution), half-4, t.Accent), half),
			),
			t.Card("Day of Week", RenderBars(weekdayBars(stats.Data.DayOfWeek), half-4, t.Info), half),
		)
	}

	sections = append(sections, t.Card("Top Repeat Surgers", p.viewRepeat(stats), width))
	sections = append(sections, t.Card("Today's Top Surges", p.viewToday(today), width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *dashboardPage) viewRepeat(st query.State[domain.SurgeStats]) string {
	t := theme.Default
	if !st.HasData {
		if st.IsError() {
			return t.ErrorText("Unable to fetch statistics.")
		}
		return t.MutedText("Loading...")
	}

	rows := firstN(st.Data.TopRepeatSurgers, topN)
	g := grid{headers: []string{"Symbol", "Name", "Count", "Avg Change"}, cursor: p.cursor}
	for _, r := range rows {
		g.rows = append(g.rows, []string{r.Symbol, r.Name, strconv.Itoa(r.Count), format.Percent(r.AvgChangePct)})
		g.colors = append(g.colors, []lipgloss.Color{"", "", "", t.ToneColor(format.PercentTone(r.AvgChangePct))})
	}
	return g.render(0)
}

func (p *dashboardPage) viewToday(st query.State[[]domain.SurgeEvent]) string {
	t := theme.Default
	switch {
	case !st.HasData && st.IsError():
		return t.ErrorText("Unable to fetch today's surges.")
	case !st.HasData:
		return t.MutedText("Loading...")
	case len(st.Data) == 0:
		return t.MutedText("No surges detected today.")
	}

	offset := len(firstN(p.stats.State().Data.TopRepeatSurgers, topN))
	g := grid{headers: []string{"Symbol", "Name", "Date", "Change%"}, cursor: p.cursor - offset}
	for _, s := range firstN(st.Data, topN) {
		g.rows = append(g.rows, []string{s.Symbol, s.Name, format.Date(s.Date), format.Percent(s.ChangePct)})
		g.colors = append(g.colors, []lipgloss.Color{"", "", "", t.ToneColor(format.PercentTone(s.ChangePct))})
	}
	return g.render(0) + "\n" + t.MutedText(fmt.Sprintf("%d surges today", len(st.Data)))
}
