// Package ui is the terminal dashboard: a sidebar, a header with the search
// palette, and one page per resource.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/aristath/surgedash/internal/palette"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/uistate"
)

// Route is a top-level page.
type Route int

const (
	RouteDashboard Route = iota
	RouteSurges
	RouteTracking
	RouteSettings
	RouteAdmin
	RouteStock
)

var navItems = []struct {
	route Route
	label string
}{
	{RouteDashboard, "Dashboard"},
	{RouteSurges, "Surges"},
	{RouteTracking, "Tracking"},
	{RouteSettings, "Settings"},
	{RouteAdmin, "Admin"},
}

const sidebarWidth = 22

// Deps are the collaborators the dashboard renders from.
type Deps struct {
	Queries  *queries.Queries
	Store    *uistate.Store
	PageSize int
	APIURL   string
	Log      zerolog.Logger
	Now      func() time.Time
}

// page is one routed view. Pages own their query observers and release them on Close.
type page interface {
	Title() string
	Update(msg tea.KeyMsg) tea.Cmd
	View(width int) string
	// Capturing reports whether a text field has focus.
	Capturing() bool
	Help() []key.Binding
	Close()
}

// Messages

type changedMsg struct{}

type navigateMsg struct {
	route  Route
	symbol string
}

type mutationDoneMsg struct {
	name string
	err  error
}

type Model struct {
	deps    Deps
	log     zerolog.Logger
	changes chan struct{}
	notify  func()

	palette       *palette.Palette
	paletteInput  textinput.Model
	paletteCursor int
	unsubscribe   func()

	route Route
	back  Route
	page  page

	width    int
	height   int
	ready    bool
	viewport viewport.Model
	help     help.Model
}

func NewModel(deps Deps) Model {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	log := deps.Log.With().Str("component", "ui").Logger()

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	input := textinput.New()
	input.Prompt = "› "
	input.Placeholder = "Search stocks..."
	input.CharLimit = 32

	m := Model{
		deps:         deps,
		log:          log,
		changes:      changes,
		notify:       notify,
		palette:      palette.New(deps.Store, deps.Queries, deps.Log, notify),
		paletteInput: input,
		unsubscribe:  deps.Store.Subscribe(func(uistate.State) { notify() }),
		help:         help.New(),
	}
	m.route = RouteDashboard
	m.page = m.newPage(RouteDashboard, "")
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Close releases every subscription held by the dashboard.
func (m Model) Close() {
	if m.page != nil {
		m.page.Close()
	}
	m.palette.Close()
	m.unsubscribe()
}

func (m Model) newPage(r Route, symbol string) page {
	switch r {
	case RouteSurges:
		return newSurgesPage(m.deps, m.notify)
	case RouteTracking:
		return newTrackingPage(m.deps, m.notify)
	case RouteSettings:
		return newSettingsPage(m.deps, m.notify)
	case RouteAdmin:
		return newAdminPage(m.deps, m.notify)
	case RouteStock:
		return newStockPage(m.deps, m.notify, symbol)
	default:
		return newDashboardPage(m.deps, m.notify)
	}
}

// Commands

// waitForChange turns cache and store notifications into a redraw.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

func navigate(r Route, symbol string) tea.Cmd {
	return func() tea.Msg {
		return navigateMsg{route: r, symbol: symbol}
	}
}

// mutate runs a write off the update loop.
func mutate(name string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{name: name, err: fn(context.Background())}
	}
}
