package ui

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/table"
	"github.com/aristath/surgedash/internal/theme"
)

const (
	fieldFrom = iota
	fieldTo
	fieldMinPct
	fieldSector
	fieldCount
)

// focusTable means no filter field has focus.
const focusTable = -1

var surgeColumns = []table.Column[domain.SurgeEvent]{
	{
		ID: "date", Header: "Date", Sortable: true,
		Compare: func(a, b domain.SurgeEvent) int { return cmp.Compare(a.Date, b.Date) },
		Cell:    func(e domain.SurgeEvent) string { return format.Date(e.Date) },
	},
	{ID: "symbol", Header: "Symbol", Cell: func(e domain.SurgeEvent) string { return e.Symbol }},
	{ID: "name", Header: "Name", Cell: func(e domain.SurgeEvent) string { return truncate(e.Name, 24) }},
	{ID: "sector", Header: "Sector", Cell: func(e domain.SurgeEvent) string { return e.Sector }},
	{
		ID: "change_pct", Header: "Change%", Sortable: true,
		Compare: func(a, b domain.SurgeEvent) int { return cmp.Compare(a.ChangePct, b.ChangePct) },
		Cell:    func(e domain.SurgeEvent) string { return format.Percent(e.ChangePct) },
	},
	{
		ID: "volume", Header: "Volume", Sortable: true,
		Compare: func(a, b domain.SurgeEvent) int { return cmp.Compare(a.Volume, b.Volume) },
		Cell:    func(e domain.SurgeEvent) string { return format.Volume(e.Volume) },
	},
	{ID: "open", Header: "Open", Cell: func(e domain.SurgeEvent) string { return format.Price(e.Open) }},
	{ID: "close", Header: "Close", Cell: func(e domain.SurgeEvent) string { return format.Price(e.Close) }},
	{ID: "high", Header: "High", Cell: func(e domain.SurgeEvent) string { return format.Price(e.High) }},
	{ID: "low", Header: "Low", Cell: func(e domain.SurgeEvent) string { return format.Price(e.Low) }},
}

// surgesPage is the filterable, paginated surge list.
type surgesPage struct {
	queries *queries.Queries
	filters *table.FilterState
	sorter  table.Sorter
	list    *query.Observer[domain.Page[domain.SurgeEvent]]
	last    domain.Page[domain.SurgeEvent]
	hasLast bool

	inputs  [fieldCount]textinput.Model
	focus   int
	cursor  int
	invalid string
}

func newSurgesPage(d Deps, notify func()) *surgesPage {
	p := &surgesPage{
		queries: d.Queries,
		filters: table.NewFilterState(d.PageSize),
		focus:   focusTable,
	}
	for i, f := range []struct{ prompt, placeholder string }{
		{"From ", "YYYY-MM-DD"},
		{"To ", "YYYY-MM-DD"},
		{"Min % ", "20"},
		{"Sector ", "All sectors"},
	} {
		in := textinput.New()
		in.Prompt = f.prompt
		in.Placeholder = f.placeholder
		in.CharLimit = 32
		in.Width = 12
		p.inputs[i] = in
	}
	p.list = query.Observe(d.Queries.Cache(), d.Queries.Surges(p.filters.Filters()),
		func(query.State[domain.Page[domain.SurgeEvent]]) { notify() })
	return p
}

func (p *surgesPage) Title() string   { return "Surge Events" }
func (p *surgesPage) Capturing() bool { return p.focus != focusTable }
func (p *surgesPage) Close()          { p.list.Close() }

func (p *surgesPage) Help() []key.Binding {
	if p.Capturing() {
		return []key.Binding{keys.Focus, keys.Submit, keys.Reset, keys.Back}
	}
	return []key.Binding{keys.Focus, keys.Up, keys.Down, keys.Enter, keys.Prev, keys.Next,
		keys.SortDate, keys.SortChange, keys.SortVolume, keys.Reset}
}

// refetch re-keys the list observer to the current filters.
func (p *surgesPage) refetch() {
	p.cursor = 0
	p.list.SetOptions(p.queries.Surges(p.filters.Filters()))
}

// rows is the loaded page in display order.
func (p *surgesPage) rows() []domain.SurgeEvent {
	return table.Apply(p.list.State().Data.Items, surgeColumns, p.sorter)
}

func (p *surgesPage) pager() table.Pager {
	if st := p.list.State(); st.IsSuccess() {
		p.last, p.hasLast = st.Data, true
	}
	return table.Pager{Page: p.last.Page, Pages: p.last.Pages}
}

func (p *surgesPage) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Reset):
		p.filters.Reset()
		for i := range p.inputs {
			p.inputs[i].SetValue("")
		}
		p.invalid = ""
		p.refetch()
		return nil
	case key.Matches(msg, keys.Focus):
		return p.moveFocus(1)
	case key.Matches(msg, keys.Unfoc):
		return p.moveFocus(-1)
	}

	if p.Capturing() {
		switch {
		case key.Matches(msg, keys.Back):
			p.inputs[p.focus].Blur()
			p.focus = focusTable
			return nil
		case key.Matches(msg, keys.Submit):
			p.apply()
			return nil
		}
		var cmd tea.Cmd
		p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
		return cmd
	}

	rows := p.rows()
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(rows)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if p.cursor < len(rows) {
			return navigate(RouteStock, rows[p.cursor].Symbol)
		}
	case key.Matches(msg, keys.Next):
		if p.filters.Next(p.pager()) {
			p.refetch()
		}
	case key.Matches(msg, keys.Prev):
		if p.filters.Prev(p.pager()) {
			p.refetch()
		}
	case key.Matches(msg, keys.SortDate):
		p.sorter.Toggle("date")
	case key.Matches(msg, keys.SortChange):
		p.sorter.Toggle("change_pct")
	case key.Matches(msg, keys.SortVolume):
		p.sorter.Toggle("volume")
	}
	return nil
}

func (p *surgesPage) moveFocus(delta int) tea.Cmd {
	if p.Capturing() {
		p.inputs[p.focus].Blur()
	}
	// Cycle through the fields and the table.
	next := p.focus + 1 + delta
	n := fieldCount + 1
	next = ((next % n) + n) % n
	p.focus = next - 1
	if p.focus == focusTable {
		return nil
	}
	return p.inputs[p.focus].Focus()
}

// apply copies the edited fields into the filters. Any change returns to page 1.
func (p *surgesPage) apply() {
	before := p.filters.Filters()

	from := strings.TrimSpace(p.inputs[fieldFrom].Value())
	to := strings.TrimSpace(p.inputs[fieldTo].Value())
	sector := strings.TrimSpace(p.inputs[fieldSector].Value())
	minText := strings.TrimSpace(p.inputs[fieldMinPct].Value())

	for _, d := range []string{from, to} {
		if d != "" && !validDate(d) {
			p.invalid = "Dates must be YYYY-MM-DD."
			return
		}
	}
	var minPct *float64
	if minText != "" {
		v, err := strconv.ParseFloat(minText, 64)
		if err != nil {
			p.invalid = "Min change must be a number."
			return
		}
		minPct = domain.Float(v)
	}
	p.invalid = ""

	if from != before.FromDate {
		p.filters.SetFromDate(from)
	}
	if to != before.ToDate {
		p.filters.SetToDate(to)
	}
	if !samePct(minPct, before.MinPct) {
		p.filters.SetMinPct(minPct)
	}
	if sector != before.Sector {
		p.filters.SetSector(sector)
	}
	p.refetch()
}

func samePct(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (p *surgesPage) View(width int) string {
	t := theme.Default

	fields := make([]string, len(p.inputs))
	for i, in := range p.inputs {
		style := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
		if i == p.focus {
			style = style.BorderForeground(t.Primary)
		}
		fields[i] = style.Render(in.View())
	}
	form := lipgloss.JoinHorizontal(lipgloss.Top, fields...)
	formHint := t.MutedText("tab to edit filters, enter to apply, ctrl+r to reset")
	if p.invalid != "" {
		formHint = t.ErrorText(p.invalid)
	}

	return lipgloss.JoinVertical(lipgloss.Left, form, formHint, "", p.viewList(width))
}

func (p *surgesPage) viewList(width int) string {
	t := theme.Default
	st := p.list.State()
	pager := p.pager()

	switch {
	case !st.HasData && st.IsLoading():
		return t.MutedText("Loading surge data...")
	case !st.HasData && st.IsError():
		return t.ErrorText("Unable to fetch surge data.")
	case !st.HasData:
		return t.MutedText("No data available.")
	}

	rows := p.rows()
	var body string
	if len(rows) == 0 {
		body = t.MutedText("No results.")
	} else {
		g := grid{headers: table.Headers(surgeColumns, p.sorter), rows: table.Cells(rows, surgeColumns), cursor: p.cursor}
		if p.Capturing() {
			g.cursor = -1
		}
		for _, r := range rows {
			line := make([]lipgloss.Color, len(surgeColumns))
			line[4] = t.ToneColor(format.PercentTone(r.ChangePct))
			g.colors = append(g.colors, line)
		}
		body = g.render(0)
	}

	prev, next := t.MutedText("‹ Previous"), t.MutedText("Next ›")
	if pager.HasPrev() {
		prev = t.Title("‹ Previous")
	}
	if pager.HasNext() {
		next = t.Title("Next ›")
	}
	footer := t.MutedText(pager.String()) + "   " + prev + "  " + next
	if st.IsError() {
		footer += "  " + t.ErrorText("Refresh failed.")
	}
	return body + "\n" + footer
}
