package table

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/surgedash/internal/clients/surgeapi"
	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/queries"
	"github.com/aristath/surgedash/internal/query"
	fake "github.com/aristath/surgedash/internal/testing"
)

func TestSurgeList_FilterChangeRefetchesFirstPage(t *testing.T) {
	api := fake.NewFakeAPI(t)
	cache := query.NewClient(query.Config{StaleTime: time.Minute}, zerolog.Nop())
	t.Cleanup(cache.Close)
	q := queries.New(surgeapi.NewClient(api.URL(), 0, zerolog.Nop()), cache)

	state := NewFilterState(2)
	state.SetFromDate("2024-01-01")
	state.SetToDate("2024-01-31")
	state.SetMinPct(domain.Float(20))
	require.Equal(t, 1, state.Filters().Page)

	list := query.Observe(cache, q.Surges(state.Filters()), nil)
	defer list.Close()
	require.Eventually(t, func() bool { return list.State().IsSuccess() }, 2*time.Second, 5*time.Millisecond)

	page := list.State().Data
	pager := Pager{Page: page.Page, Pages: page.Pages}
	assert.Equal(t, "Page 1 of 3", pager.String())

	require.True(t, state.Next(pager))
	list.SetOptions(q.Surges(state.Filters()))
	require.Eventually(t, func() bool { return list.State().Data.Page == 2 }, 2*time.Second, 5*time.Millisecond)

	firstKey := queries.SurgesKey(state.Filters())
	state.SetMinPct(domain.Float(30))
	assert.Equal(t, 1, state.Filters().Page)
	assert.NotEqual(t, firstKey, queries.SurgesKey(state.Filters()))

	list.SetOptions(q.Surges(state.Filters()))
	require.Eventually(t, func() bool {
		st := list.State()
		return st.IsSuccess() && st.Data.Total == 2
	}, 2*time.Second, 5*time.Millisecond)

	sent := api.LastQuery(fake.RouteSurges)
	assert.Equal(t, "1", sent.Get("page"))
	assert.Equal(t, "30", sent.Get("min_pct"))
	assert.Equal(t, "2024-01-01", sent.Get("from_date"))
	assert.Equal(t, 3, api.Calls(fake.RouteSurges))
}

func TestSurgeList_EmptyResultIsNotAnError(t *testing.T) {
	api := fake.NewFakeAPI(t)
	api.SetSurges(nil)
	cache := query.NewClient(query.Config{}, zerolog.Nop())
	t.Cleanup(cache.Close)
	q := queries.New(surgeapi.NewClient(api.URL(), 0, zerolog.Nop()), cache)

	list := query.Observe(cache, q.Surges(domain.DefaultSurgeFilters(20)), nil)
	defer list.Close()
	require.Eventually(t, func() bool { return list.State().IsSuccess() }, 2*time.Second, 5*time.Millisecond)

	page := list.State().Data
	assert.True(t, page.Empty())
	assert.Equal(t, domain.Page[domain.SurgeEvent]{Items: []domain.SurgeEvent{}, Total: 0, Page: 1, Limit: 20, Pages: 0}, page)
}
