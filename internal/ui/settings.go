package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/query"
	"github.com/aristath/surgedash/internal/theme"
)

const (
	minThreshold = 1
	maxThreshold = 100
)

var errThresholdRange = errors.New("threshold must be between 1 and 100")

// parseThreshold validates the threshold field.
func parseThreshold(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < minThreshold || v > maxThreshold {
		return 0, errThresholdRange
	}
	return v, nil
}

// settingsPage edits the surge detection threshold.
type settingsPage struct {
	settings *query.Observer[domain.UserSettings]
	save     *query.Mutation[domain.UserSettings, domain.UserSettings]
	input    textinput.Model
	seeded   time.Time
	invalid  bool
}

func newSettingsPage(d Deps, notify func()) *settingsPage {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 6
	in.Width = 6
	in.SetValue("20")

	p := &settingsPage{
		save:  d.Queries.UpdateSettings(),
		input: in,
	}
	p.save.OnChange(func(query.MutationState[domain.UserSettings]) { notify() })
	p.settings = query.Observe(d.Queries.Cache(), d.Queries.Settings(), func(query.State[domain.UserSettings]) { notify() })
	return p
}

func (p *settingsPage) Title() string   { return "Settings" }
func (p *settingsPage) Capturing() bool { return p.input.Focused() }
func (p *settingsPage) Close()          { p.settings.Close() }

func (p *settingsPage) Help() []key.Binding {
	if p.Capturing() {
		return []key.Binding{keys.Submit, keys.Back}
	}
	return []key.Binding{keys.Focus}
}

// seed copies fetched settings into the field unless the user is editing it.
func (p *settingsPage) seed() {
	st := p.settings.State()
	if !st.HasData || p.input.Focused() || !st.UpdatedAt.After(p.seeded) {
		return
	}
	p.seeded = st.UpdatedAt
	p.input.SetValue(strconv.FormatFloat(st.Data.SurgeThreshold, 'f', -1, 64))
}

func (p *settingsPage) Update(msg tea.KeyMsg) tea.Cmd {
	p.seed()

	if !p.input.Focused() {
		if key.Matches(msg, keys.Focus) || key.Matches(msg, keys.Enter) {
			return p.input.Focus()
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		p.input.Blur()
		return nil
	case key.Matches(msg, keys.Submit):
		return p.submit()
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.invalid = false
	return cmd
}

func (p *settingsPage) submit() tea.Cmd {
	v, err := parseThreshold(p.input.Value())
	if err != nil {
		p.invalid = true
		return nil
	}
	if p.save.State().IsPending() {
		return nil
	}
	p.input.Blur()
	return mutate("update_settings", func(ctx context.Context) error {
		_, err := p.save.Mutate(ctx, domain.UserSettings{SurgeThreshold: v})
		return err
	})
}

func (p *settingsPage) View(width int) string {
	t := theme.Default
	p.seed()

	st := p.settings.State()
	if !st.HasData && st.IsLoading() {
		return t.Card("Surge Detection Threshold", t.MutedText("Loading settings..."), min(width, 60))
	}

	border := t.Border
	if p.input.Focused() {
		border = t.Primary
	}
	field := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Padding(0, 1).Render(p.input.View())

	lines := []string{
		t.MutedText("Minimum daily change percentage to qualify as a surge"),
		lipgloss.JoinHorizontal(lipgloss.Center, field, " %"),
	}
	if st.IsError() && !st.HasData {
		lines = append(lines, t.ErrorText("Unable to fetch settings."))
	}

	button := "[ Save ]"
	m := p.save.State()
	switch {
	case m.IsPending():
		button = "[ Saving... ]"
	case p.invalid:
		lines = append(lines, t.ErrorText("Threshold must be between 1 and 100."))
	case m.IsSuccess():
		lines = append(lines, t.SuccessText("Settings saved."))
	case m.IsError():
		lines = append(lines, t.ErrorText("Failed to save settings. Please try again."))
	}
	lines = append(lines, t.Title(button))

	return t.Card("Surge Detection Threshold", strings.Join(lines, "\n"), min(width, 60))
}
