package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/surgedash/internal/clients/surgeapi"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	fake "github.com/aristath/surgedash/internal/testing"
	"github.com/aristath/surgedash/internal/uistate"
)

func newTestDeps(t *testing.T) (Deps, *fake.FakeAPI) {
	t.Helper()
	api := fake.NewFakeAPI(t)
	cache := query.NewClient(query.Config{StaleTime: time.Minute}, zerolog.Nop())
	t.Cleanup(cache.Close)

	return Deps{
		Queries:  queries.New(surgeapi.NewClient(api.URL(), 0, zerolog.Nop()), cache),
		Store:    uistate.NewStore(zerolog.Nop()),
		PageSize: 50,
		APIURL:   api.URL(),
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) },
	}, api
}

func newTestModel(t *testing.T) (Model, *fake.FakeAPI) {
	t.Helper()
	deps, api := newTestDeps(t)
	m := NewModel(deps)
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 60})
	return next.(Model), api
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	return send(m, msg)
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = press(m, runes(string(r)))
	}
	return m
}

func plain(m Model) string {
	return ansi.Strip(m.View())
}

func TestModel_ViewBeforeResize(t *testing.T) {
	deps, _ := newTestDeps(t)
	m := NewModel(deps)
	t.Cleanup(m.Close)

	assert.Contains(t, m.View(), "Loading...")
}

func TestModel_StartsOnDashboard(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, RouteDashboard, m.route)

	view := plain(m)
	assert.Contains(t, view, "Surge Analyzer")
	assert.Contains(t, view, "Search stocks...")
}

func TestModel_NumberKeysNavigate(t *testing.T) {
	m, _ := newTestModel(t)

	for _, tc := range []struct {
		key   string
		route Route
		title string
	}{
		{"2", RouteSurges, "Surge Events"},
		{"3", RouteTracking, "Post-Surge Tracking"},
		{"4", RouteSettings, "Settings"},
		{"5", RouteAdmin, "Admin"},
		{"1", RouteDashboard, "Dashboard"},
	} {
		m, _ = press(m, runes(tc.key))
		assert.Equal(t, tc.route, m.route, tc.key)
		assert.Equal(t, tc.title, m.page.Title(), tc.key)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_SidebarToggle(t *testing.T) {
	m, _ := newTestModel(t)
	require.True(t, m.deps.Store.SidebarOpen())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.False(t, m.deps.Store.SidebarOpen())
	assert.NotContains(t, plain(m), "Surge Analyzer")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.True(t, m.deps.Store.SidebarOpen())
}

func TestModel_PaletteSelectNavigatesToStock(t *testing.T) {
	m, api := newTestModel(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	assert.True(t, m.deps.Store.SearchOpen())

	m = typeText(m, "acme")
	assert.Equal(t, "acme", m.palette.Query())
	require.Eventually(t, func() bool {
		st := m.palette.Results()
		return st.IsSuccess() && !st.Fetching
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, api.Calls(fake.RouteSearch), 1)
	assert.Contains(t, plain(m), "Acme Robotics")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	assert.Equal(t, RouteStock, m.route)
	assert.Equal(t, "ACME", m.page.Title())
	assert.False(t, m.deps.Store.SearchOpen())
	assert.Equal(t, "", m.palette.Query())

	// esc returns to the page the stock was opened from
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, RouteDashboard, m.route)
}

func TestModel_PaletteEscapeDismisses(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(m, "x")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEscape})

	assert.False(t, m.deps.Store.SearchOpen())
	assert.Equal(t, "", m.palette.Query())
	assert.Equal(t, RouteDashboard, m.route)
}

func TestModel_PaletteCapturesNavigationKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(m, "q2")
	assert.Equal(t, RouteDashboard, m.route)
	assert.Equal(t, "q2", m.palette.Query())
}
