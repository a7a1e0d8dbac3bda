package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/format"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/theme"
)

const (
	fieldCollect = iota
	fieldBackfillFrom
	fieldBackfillTo
	adminFieldCount
)

// adminPage shows scheduler status and triggers manual collection runs.
type adminPage struct {
	status   *query.Observer[domain.AdminStatus]
	collect  *query.Mutation[string, domain.ActionResult]
	backfill *query.Mutation[queries.DateRange, domain.ActionResult]
	inputs   [adminFieldCount]textinput.Model
	focus    int
	invalid  string
}

func newAdminPage(d Deps, notify func()) *adminPage {
	p := &adminPage{
		collect:  d.Queries.Collect(),
		backfill: d.Queries.Backfill(),
		focus:    focusTable,
	}
	for i := range p.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = "YYYY-MM-DD"
		in.CharLimit = 10
		in.Width = 10
		p.inputs[i] = in
	}
	p.collect.OnChange(func(query.MutationState[domain.ActionResult]) { notify() })
	p.backfill.OnChange(func(query.MutationState[domain.ActionResult]) { notify() })
	p.status = query.Observe(d.Queries.Cache(), d.Queries.AdminStatus(), func(query.State[domain.AdminStatus]) { notify() })
	return p
}

func (p *adminPage) Title() string   { return "Admin" }
func (p *adminPage) Capturing() bool { return p.focus != focusTable }
func (p *adminPage) Close()          { p.status.Close() }

func (p *adminPage) Help() []key.Binding {
	if p.Capturing() {
		return []key.Binding{keys.Focus, keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Focus}
}

// backfillReady reports whether both backfill dates are filled in.
func (p *adminPage) backfillReady() bool {
	return strings.TrimSpace(p.inputs[fieldBackfillFrom].Value()) != "" &&
		strings.TrimSpace(p.inputs[fieldBackfillTo].Value()) != ""
}

func (p *adminPage) Update(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Focus):
		return p.moveFocus(1)
	case key.Matches(msg, keys.Unfoc):
		return p.moveFocus(-1)
	}
	if !p.Capturing() {
		return nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		p.inputs[p.focus].Blur()
		p.focus = focusTable
		return nil
	case key.Matches(msg, keys.Submit):
		if p.focus == fieldCollect {
			return p.runCollect()
		}
		return p.runBackfill()
	}

	var cmd tea.Cmd
	p.inputs[p.focus], cmd = p.inputs[p.focus].Update(msg)
	p.invalid = ""
	return cmd
}

func (p *adminPage) moveFocus(delta int) tea.Cmd {
	if p.Capturing() {
		p.inputs[p.focus].Blur()
	}
	n := adminFieldCount + 1
	next := ((p.focus+1+delta)%n + n) % n
	p.focus = next - 1
	if p.focus == focusTable {
		return nil
	}
	return p.inputs[p.focus].Focus()
}

func (p *adminPage) runCollect() tea.Cmd {
	date := strings.TrimSpace(p.inputs[fieldCollect].Value())
	if date != "" && !validDate(date) {
		p.invalid = "Dates must be YYYY-MM-DD."
		return nil
	}
	if p.collect.State().IsPending() {
		return nil
	}
	return mutate("collect", func(ctx context.Context) error {
		_, err := p.collect.Mutate(ctx, date)
		return err
	})
}

func (p *adminPage) runBackfill() tea.Cmd {
	if !p.backfillReady() {
		return nil
	}
	r := queries.DateRange{
		From: strings.TrimSpace(p.inputs[fieldBackfillFrom].Value()),
		To:   strings.TrimSpace(p.inputs[fieldBackfillTo].Value()),
	}
	if !validDate(r.From) || !validDate(r.To) {
		p.invalid = "Dates must be YYYY-MM-DD."
		return nil
	}
	if p.backfill.State().IsPending() {
		return nil
	}
	return mutate("backfill", func(ctx context.Context) error {
		_, err := p.backfill.Mutate(ctx, r)
		return err
	})
}

func (p *adminPage) field(i int, label string) string {
	t := theme.Default
	border := t.Border
	if i == p.focus {
		border = t.Primary
	}
	box := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1).Render(p.inputs[i].View())
	return lipgloss.JoinVertical(lipgloss.Left, t.MutedText(label), box)
}

func (p *adminPage) View(width int) string {
	t := theme.Default
	cardWidth := min(width, 70)

	sections := []string{
		t.Card("Scheduler Status", p.viewStatus(), cardWidth),
		t.Card("Manual Collection", p.viewCollect(), cardWidth),
		t.Card("Backfill", p.viewBackfill(), cardWidth),
	}
	if p.invalid != "" {
		sections = append(sections, t.ErrorText(p.invalid))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (p *adminPage) viewStatus() string {
	t := theme.Default
	st := p.status.State()
	switch {
	case !st.HasData && st.IsLoading():
		return t.MutedText("Loading...")
	case !st.HasData:
		return t.ErrorText("Unable to fetch status.")
	}

	s := st.Data
	badge := t.Badge("Stopped", t.Base, t.Loss)
	if s.SchedulerRunning {
		badge = t.Badge("Running", t.Base, t.Gain)
	}
	lines := []string{
		"Status: " + badge,
		"Next run: " + nullableTime(s.NextRun),
	}
	last := "Last run: " + nullableTime(s.LastRun)
	if s.LastRunStatus != nil && *s.LastRunStatus != "" {
		last += " " + t.MutedText("("+*s.LastRunStatus+")")
	}
	return strings.Join(append(lines, last), "\n")
}

func nullableTime(s *string) string {
	v := format.Or(s, "")
	if v == "" {
		return "N/A"
	}
	return format.DateTime(v)
}

func (p *adminPage) viewCollect() string {
	t := theme.Default
	lines := []string{p.field(fieldCollect, "Date (leave empty for today)")}

	st := p.collect.State()
	button := "[ Run Collection ]"
	if st.IsPending() {
		button = "[ Collecting... ]"
	}
	lines = append(lines, t.Title(button))
	switch {
	case st.IsSuccess():
		lines = append(lines, t.SuccessText("Collection completed."))
	case st.IsError():
		lines = append(lines, t.ErrorText("Collection failed."))
	}
	return strings.Join(lines, "\n")
}

func (p *adminPage) viewBackfill() string {
	t := theme.Default
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top,
		p.field(fieldBackfillFrom, "From"), "  ", p.field(fieldBackfillTo, "To"))}

	st := p.backfill.State()
	button := t.Title("[ Run Backfill ]")
	switch {
	case st.IsPending():
		button = t.Title("[ Running... ]")
	case !p.backfillReady():
		button = t.MutedText("[ Run Backfill ]")
	}
	lines = append(lines, button)
	switch {
	case st.IsSuccess():
		lines = append(lines, t.SuccessText("Backfill completed."))
	case st.IsError():
		lines = append(lines, t.ErrorText("Backfill failed."))
	}
	return strings.Join(lines, "\n")
}
