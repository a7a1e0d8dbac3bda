package ui

import (
	"cmp"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/table"
	"github.com/aristath/surgedash/internal/theme"
)

func avgColumn(id, header string, get func(domain.SectorTracking) float64, sortable bool) table.Column[domain.SectorTracking] {
	return table.Column[domain.SectorTracking]{
		ID: id, Header: header, Sortable: sortable,
		Compare: func(a, b domain.SectorTracking) int { return cmp.Compare(get(a), get(b)) },
		Cell:    func(s domain.SectorTracking) string { return format.Percent(get(s)) },
	}
}

var sectorColumns = []table.Column[domain.SectorTracking]{
	{ID: "sector", Header: "Sector", Cell: func(s domain.SectorTracking) string { return s.Sector }},
	{
		ID: "count", Header: "Count", Sortable: true,
		Compare: func(a, b domain.SectorTracking) int { return cmp.Compare(a.Count, b.Count) },
		Cell:    func(s domain.SectorTracking) string { return strconv.Itoa(s.Count) },
	},
	avgColumn("avg_1d", "Avg 1D", func(s domain.SectorTracking) float64 { return s.Avg1D }, true),
	avgColumn("avg_3d", "Avg 3D", func(s domain.SectorTracking) float64 { return s.Avg3D }, false),
	avgColumn("avg_7d", "Avg 7D", func(s domain.SectorTracking) float64 { return s.Avg7D }, false),
	avgColumn("avg_30d", "Avg 30D", func(s domain.SectorTracking) float64 { return s.Avg30D }, false),
}

var sectorAverages = []func(domain.SectorTracking) float64{
	nil,
	nil,
	func(s domain.SectorTracking) float64 { return s.Avg1D },
	func(s domain.SectorTracking) float64 { return s.Avg3D },
	func(s domain.SectorTracking) float64 { return s.Avg7D },
	func(s domain.SectorTracking) float64 { return s.Avg30D },
}

// trackingPage shows post-surge performance overall and by sector.
type trackingPage struct {
	perf    *query.Observer[domain.TrackingPerformance]
	sectors *query.Observer[[]domain.SectorTracking]
	sorter  table.Sorter
}

func newTrackingPage(d Deps, notify func()) *trackingPage {
	q, c := d.Queries, d.Queries.Cache()
	return &trackingPage{
		perf:    query.Observe(c, q.TrackingPerformance(), func(query.State[domain.TrackingPerformance]) { notify() }),
		sectors: query.Observe(c, q.TrackingBySector(), func(query.State[[]domain.SectorTracking]) { notify() }),
	}
}

func (p *trackingPage) Title() string   { return "Post-Surge Tracking" }
func (p *trackingPage) Capturing() bool { return false }

func (p *trackingPage) Help() []key.Binding {
	return []key.Binding{keys.SortCount, keys.SortAvg}
}

func (p *trackingPage) Close() {
	p.perf.Close()
	p.sectors.Close()
}

func (p *trackingPage) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.SortCount):
		p.sorter.Toggle("count")
	case key.Matches(msg, keys.SortAvg):
		p.sorter.Toggle("avg_1d")
	}
	return nil
}

func (p *trackingPage) View(width int) string {
	return lipgloss.JoinVertical(lipgloss.Left, p.viewCards(width), "", p.viewSectors(width))
}

func (p *trackingPage) viewCards(width int) string {
	t := theme.Default
	st := p.perf.State()
	cardWidth := max(18, width/4)

	if !st.HasData {
		placeholder := t.Card("Loading...", t.Title("--"), cardWidth)
		if st.IsError() {
			placeholder = t.Card("Tracking", t.ErrorText("Unable to fetch tracking performance."), width)
			return placeholder
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, placeholder, placeholder, placeholder, placeholder)
	}

	d := st.Data
	card := func(title string, avg, winRate float64) string {
		return t.Card(title, t.Percent(avg)+"\n"+t.MutedText("Win rate: "+format.WinRate(winRate)), cardWidth)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Avg 1-Day Return", d.Avg1D, d.WinRate1D),
		card("Avg 7-Day Return", d.Avg7D, d.WinRate7D),
		card("Avg 30-Day Return", d.Avg30D, d.WinRate30D),
		t.Card("Total Tracked", t.Title(strconv.Itoa(d.TotalTracked))+"\n"+t.MutedText("Surge events with tracking"), cardWidth),
	)
}

func (p *trackingPage) viewSectors(width int) string {
	t := theme.Default
	st := p.sectors.State()

	switch {
	case !st.HasData && st.IsLoading():
		return t.MutedText("Loading tracking data...")
	case !st.HasData && st.IsError():
		return t.ErrorText("Unable to fetch tracking data.")
	case !st.HasData:
		return t.MutedText("No tracking data available.")
	}

	rows := table.Apply(st.Data, sectorColumns, p.sorter)
	if len(rows) == 0 {
		return t.MutedText("No results.")
	}

	bars := make([]Bar, len(rows))
	for i, r := range rows {
		bars[i] = Bar{Label: r.Sector, Value: float64(r.Count)}
	}

	g := grid{headers: table.Headers(sectorColumns, p.sorter), rows: table.Cells(rows, sectorColumns), cursor: -1}
	for _, r := range rows {
		line := make([]lipgloss.Color, len(sectorColumns))
		for col, get := range sectorAverages {
			if get != nil {
				line[col] = t.ToneColor(format.PercentTone(get(r)))
			}
		}
		g.colors = append(g.colors, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Card("Tracked Surges by Sector", RenderBars(bars, width-4, t.Accent), width),
		g.render(0),
	)
}
