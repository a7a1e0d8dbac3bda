package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	figure "github.com/common-nighthawk/go-figure"

	"github.com/aristath/surgedash/internal/palette"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/theme"
)

func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}
	t := theme.Default

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		m.viewBody(),
		m.viewFooter(),
	)
	if m.deps.Store.SidebarOpen() {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), main)
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Foreground(t.Text).
		Render(main)
}

func (m Model) body() string {
	return lipgloss.NewStyle().Padding(0, 1).Render(m.page.View(m.bodyWidth() - 2))
}

func (m Model) viewBody() string {
	if m.palette.Mode() == palette.Closed {
		return m.viewport.View()
	}
	return lipgloss.Place(m.bodyWidth(), m.bodyHeight(), lipgloss.Center, lipgloss.Top, m.viewPalette())
}

func (m Model) viewSidebar() string {
	t := theme.Default

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Render("▲ Surge Analyzer"),
		"",
	}
	for i, item := range navItems {
		label := fmt.Sprintf(" %d  %s", i+1, item.label)
		style := lipgloss.NewStyle().Width(sidebarWidth - 3).Foreground(t.Muted)
		if item.route == m.route || (m.route == RouteStock && item.route == m.back) {
			style = style.Foreground(t.Text).Background(t.Overlay).Bold(true)
		}
		lines = append(lines, style.Render(label))
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth - 1).
		Height(m.height).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(t.Border).
		Render(strings.Join(lines, "\n"))
}

func (m Model) viewHeader() string {
	t := theme.Default
	w := m.bodyWidth()

	title := t.Title(m.page.Title())
	hint := t.MutedText("Search stocks... ctrl+k")
	gap := w - lipgloss.Width(title) - lipgloss.Width(hint) - 2
	if gap < 1 {
		gap = 1
	}
	row := " " + title + strings.Repeat(" ", gap) + hint + " "
	rule := lipgloss.NewStyle().Foreground(t.Border).Render(strings.Repeat("─", w))
	return row + "\n" + rule
}

func (m Model) viewFooter() string {
	bindings := []key.Binding{keys.Palette, keys.Sidebar}
	if !m.page.Capturing() {
		bindings = append(bindings, keys.Navigate)
	}
	bindings = append(bindings, m.page.Help()...)
	if !m.page.Capturing() {
		bindings = append(bindings, keys.Quit)
	}
	return ansi.Truncate(" "+m.help.ShortHelpView(bindings), m.bodyWidth(), "…")
}

func (m Model) viewPalette() string {
	t := theme.Default
	width := min(60, m.bodyWidth()-4)

	lines := []string{m.paletteInput.View(), ""}
	switch m.palette.Mode() {
	case palette.OpenEmpty:
		lines = append(lines, t.MutedText("Type to search by symbol or name."))
	case palette.OpenResults:
		st := m.palette.Results()
		switch {
		case st.IsError():
			lines = append(lines, t.ErrorText("Search failed."))
		case m.palette.Message() != "":
			lines = append(lines, t.MutedText(m.palette.Message()))
		case !st.HasData:
			lines = append(lines, t.MutedText("Searching..."))
		default:
			lines = append(lines, t.MutedText("Stocks"))
			for i, r := range st.Data {
				line := fmt.Sprintf("%-6s %s", r.Symbol, ansi.Truncate(r.Name, width-24, "…"))
				meta := t.MutedText(r.Exchange)
				style := lipgloss.NewStyle().Width(width - 4)
				if i == m.paletteCursor {
					style = style.Background(t.Overlay).Bold(true)
				}
				lines = append(lines, style.Render(line+"  "+meta))
			}
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// grid renders rows through lipgloss tables with optional per-cell colors
// and a highlighted cursor row.
type grid struct {
	headers []string
	rows    [][]string
	colors  [][]lipgloss.Color
	cursor  int
}

func (g grid) render(width int) string {
	t := theme.Default
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border)).
		Headers(g.headers...).
		Rows(g.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(t.Subtext)
			}
			s = s.Foreground(t.Text)
			if row < len(g.colors) && col < len(g.colors[row]) && g.colors[row][col] != "" {
				s = s.Foreground(g.colors[row][col])
			}
			if row == g.cursor {
				s = s.Background(t.Overlay).Bold(true)
			}
			return s
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}
	return tbl.String()
}

// banner renders text as a figlet heading.
func banner(text string) string {
	fig := figure.NewFigure(text, "small", false)
	return strings.TrimRight(strings.Join(fig.Slicify(), "\n"), "\n ")
}

func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "…")
}

func validDate(s string) bool {
	_, err := time.Parse(queries.DateLayout, s)
	return err == nil
}
