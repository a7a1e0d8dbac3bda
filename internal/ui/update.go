package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/surgedash/internal/palette"
)

const headerHeight = 2
const footerHeight = 1

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.bodyWidth(), m.bodyHeight())
		m.viewport.KeyMap = scrollKeys
		m.ready = true

	case changedMsg:
		cmds = append(cmds, waitForChange(m.changes))

	case navigateMsg:
		m.navigate(msg.route, msg.symbol)

	case mutationDoneMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Str("mutation", msg.name).Msg("Mutation finished with error")
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			m.Close()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
	}

	if m.ready {
		m.viewport.Width = m.bodyWidth()
		m.viewport.Height = m.bodyHeight()
		m.viewport.SetContent(m.body())
		if k, ok := msg.(tea.KeyMsg); ok && (key.Matches(k, scrollKeys.PageDown) || key.Matches(k, scrollKeys.PageUp)) {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		if _, ok := msg.(tea.MouseMsg); ok {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, keys.ForceQ) {
		return nil, true
	}

	if key.Matches(msg, keys.Palette) {
		m.palette.Toggle()
		return m.syncPaletteInput(), false
	}
	if m.palette.Mode() != palette.Closed {
		return m.handlePaletteKey(msg), false
	}

	if key.Matches(msg, keys.Sidebar) {
		m.deps.Store.ToggleSidebar()
		return nil, false
	}

	if !m.page.Capturing() {
		switch {
		case key.Matches(msg, keys.Quit):
			return nil, true
		case key.Matches(msg, keys.Navigate):
			idx := int(msg.Runes[0] - '1')
			m.navigate(navItems[idx].route, "")
			return nil, false
		case key.Matches(msg, keys.Back) && m.route == RouteStock:
			m.navigate(m.back, "")
			return nil, false
		}
	}

	return m.page.Update(msg), false
}

func (m *Model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Back):
		m.palette.Dismiss()
		m.paletteInput.SetValue("")
		m.paletteInput.Blur()
		m.paletteCursor = 0
		return nil

	case msg.Type == tea.KeyUp:
		if m.paletteCursor > 0 {
			m.paletteCursor--
		}
		return nil

	case msg.Type == tea.KeyDown:
		if n := len(m.palette.Results().Data); m.paletteCursor < n-1 {
			m.paletteCursor++
		}
		return nil

	case msg.Type == tea.KeyEnter:
		symbol, ok := m.palette.Select(m.paletteCursor)
		if !ok {
			return nil
		}
		m.paletteInput.SetValue("")
		m.paletteInput.Blur()
		m.paletteCursor = 0
		return navigate(RouteStock, symbol)
	}

	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	if v := m.paletteInput.Value(); v != m.palette.Query() {
		m.palette.SetQuery(v)
		m.paletteCursor = 0
	}
	return cmd
}

// syncPaletteInput focuses the search field while the palette is open.
func (m *Model) syncPaletteInput() tea.Cmd {
	if m.palette.Mode() == palette.Closed {
		m.paletteInput.Blur()
		return nil
	}
	m.paletteInput.SetValue(m.palette.Query())
	m.paletteInput.CursorEnd()
	return m.paletteInput.Focus()
}

func (m *Model) navigate(r Route, symbol string) {
	if r == RouteStock && m.route != RouteStock {
		m.back = m.route
	}
	m.page.Close()
	m.route = r
	m.page = m.newPage(r, symbol)
	m.viewport.GotoTop()
	m.log.Debug().Int("route", int(r)).Str("symbol", symbol).Msg("Navigated")
}

func (m Model) bodyWidth() int {
	w := m.width
	if m.deps.Store.SidebarOpen() {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) bodyHeight() int {
	h := m.height - headerHeight - footerHeight
	if h < 3 {
		h = 3
	}
	return h
}
