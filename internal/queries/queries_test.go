package queries

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/surgedash/internal/clients/surgeapi"
	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/query"
	fake "github.com/aristath/surgedash/internal/testing"
)

func newTestQueries(t *testing.T, staleTime time.Duration) (*Queries, *fake.FakeAPI) {
	t.Helper()
	api := fake.NewFakeAPI(t)
	cache := query.NewClient(query.Config{
		StaleTime:  staleTime,
		RetryDelay: func(int) time.Duration { return time.Millisecond },
	}, zerolog.Nop())
	t.Cleanup(cache.Close)
	return New(surgeapi.NewClient(api.URL(), 0, zerolog.Nop()), cache), api
}

func observeUntilSuccess[T any](t *testing.T, c *query.Client, opts query.Options[T]) *query.Observer[T] {
	t.Helper()
	o := query.Observe(c, opts, nil)
	t.Cleanup(o.Close)
	require.Eventually(t, func() bool {
		st := o.State()
		return st.IsSuccess() && !st.Fetching
	}, 2*time.Second, 5*time.Millisecond)
	return o
}

func TestKeys_ShareResourcePrefix(t *testing.T) {
	assert.Equal(t, query.Key{"surges", "today"}, TodaySurgesKey())
	assert.Equal(t, query.Key{"surges", "stats"}, SurgeStatsKey())
	assert.Equal(t, query.Key{"surges", int64(7)}, SurgeDetailKey(7))
	assert.Equal(t, query.Key{"tracking", "by-sector"}, TrackingBySectorKey())
	assert.Equal(t, query.Key{"stockChart", "ACME", "2024-01-01", "2024-02-01"}, StockChartKey("ACME", "2024-01-01", "2024-02-01"))
	assert.Equal(t, query.Key{"admin", "status"}, AdminStatusKey())
	assert.Equal(t, query.Key{"settings"}, SettingsKey())
}

func TestSurges_ConcurrentObserversShareOneRequest(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)
	release := api.Hold(fake.RouteSurges)

	filters := domain.DefaultSurgeFilters(20)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := query.Fetch(context.Background(), q.Cache(), q.Surges(filters))
			assert.NoError(t, err)
			assert.Len(t, page.Items, 6)
		}()
	}

	require.Eventually(t, func() bool { return api.Calls(fake.RouteSurges) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()

	assert.Equal(t, 1, api.Calls(fake.RouteSurges))
}

func TestSurges_FilterChangeIssuesNewRequest(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)

	filters := domain.SurgeFilters{Page: 1, Limit: 20, FromDate: "2024-01-01", ToDate: "2024-01-31", MinPct: domain.Float(20)}
	o := observeUntilSuccess(t, q.Cache(), q.Surges(filters))
	assert.Equal(t, 6, o.State().Data.Total)

	filters.MinPct = domain.Float(30)
	o.SetOptions(q.Surges(filters))
	require.Eventually(t, func() bool {
		st := o.State()
		return st.IsSuccess() && st.Data.Total == 2
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, api.Calls(fake.RouteSurges))
	assert.Equal(t, "30", api.LastQuery(fake.RouteSurges).Get("min_pct"))
	assert.Equal(t, "1", api.LastQuery(fake.RouteSurges).Get("page"))
}

func TestSurges_EmptyPageIsSuccess(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)
	api.SetSurges(nil)

	o := observeUntilSuccess(t, q.Cache(), q.Surges(domain.DefaultSurgeFilters(20)))
	st := o.State()
	assert.True(t, st.Data.Empty())
	assert.Equal(t, 0, st.Data.Pages)
	assert.NoError(t, st.Err)
}

func TestSearch_EmptyQueryIssuesNoRequest(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)

	o := query.Observe(q.Cache(), q.Search(""), nil)
	defer o.Close()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, 0, api.Calls(fake.RouteSearch))
	assert.Equal(t, query.StatusIdle, o.State().Status)
}

func TestSearch_OneRequestPerDistinctQuery(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)
	ctx := context.Background()

	for _, text := range []string{"acm", "acm", "bio", "acm"} {
		_, err := query.Fetch(ctx, q.Cache(), q.Search(text))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, api.Calls(fake.RouteSearch))

	results, ok := query.GetQueryData[[]domain.SearchResult](q.Cache(), SearchKey("acm"))
	require.True(t, ok)
	require.Len(t, results, 2)
	assert.Equal(t, "ACME", results[0].Symbol)
}

func TestSearchResults_MissingEnvelopeField(t *testing.T) {
	assert.Equal(t, []domain.SearchResult{}, searchResults(domain.SearchResponse{}))
	assert.Len(t, searchResults(domain.SearchResponse{Results: fake.NewTickerFixtures(), Count: 4}), 4)
}

func TestStockChart_DisabledWithoutSymbol(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)

	o := query.Observe(q.Cache(), q.StockChart("", "2024-01-01", "2024-02-01"), nil)
	defer o.Close()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, api.Calls(fake.RouteStockChart))

	o.SetOptions(q.StockChart("ACME", "2024-01-01", "2024-02-01"))
	require.Eventually(t, func() bool { return o.State().IsSuccess() }, 2*time.Second, 5*time.Millisecond)
	assert.Len(t, o.State().Data, 4)

	o.SetOptions(q.StockChart("ACME", "2024-01-03", "2024-02-01"))
	require.Eventually(t, func() bool { return api.Calls(fake.RouteStockChart) == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestSurgeDetail_DisabledForZeroID(t *testing.T) {
	q, api := newTestQueries(t, time.Minute)

	o := query.Observe(q.Cache(), q.SurgeDetail(0), nil)
	defer o.Close()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, api.Calls(fake.RouteSurgeDetail))

	detail, err := query.Fetch(context.Background(), q.Cache(), q.SurgeDetail(4))
	require.NoError(t, err)
	assert.Equal(t, "ACME", detail.Symbol)
	assert.Len(t, detail.Tracking, len(domain.Horizons))
}

func TestCollect_InvalidatesAdminAndSurges(t *testing.T) {
	q, api := newTestQueries(t, time.Hour)
	ctx := context.Background()
	cache := q.Cache()

	_, err := query.Fetch(ctx, cache, q.AdminStatus())
	require.NoError(t, err)
	_, err = query.Fetch(ctx, cache, q.TodaySurges())
	require.NoError(t, err)
	_, err = query.Fetch(ctx, cache, q.Settings())
	require.NoError(t, err)
	_, err = query.Fetch(ctx, cache, q.TrackingPerformance())
	require.NoError(t, err)

	res, err := q.Collect().Mutate(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "today")
	_, sent := api.LastQuery(fake.RouteCollect)["date"]
	assert.False(t, sent)

	assert.True(t, cache.IsStale(AdminStatusKey()))
	assert.True(t, cache.IsStale(TodaySurgesKey()))
	assert.False(t, cache.IsStale(SettingsKey()))
	assert.False(t, cache.IsStale(TrackingPerformanceKey()))

	_, err = query.Fetch(ctx, cache, q.TodaySurges())
	require.NoError(t, err)
	assert.Equal(t, 2, api.Calls(fake.RouteTodaySurges))
}

func TestBackfill_RequiresBothDates(t *testing.T) {
	q, api := newTestQueries(t, time.Hour)
	m := q.Backfill()

	_, err := m.Mutate(context.Background(), DateRange{From: "2024-01-01"})
	assert.ErrorIs(t, err, ErrBackfillRange)
	assert.True(t, m.State().IsError())
	assert.Equal(t, 0, api.Calls(fake.RouteBackfill))

	_, err = query.Fetch(context.Background(), q.Cache(), q.SurgeStats())
	require.NoError(t, err)
	_, err = query.Fetch(context.Background(), q.Cache(), q.AdminStatus())
	require.NoError(t, err)
	_, err = query.Fetch(context.Background(), q.Cache(), q.Settings())
	require.NoError(t, err)
	require.False(t, q.Cache().IsStale(AdminStatusKey()))

	_, err = m.Mutate(context.Background(), DateRange{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", api.LastQuery(fake.RouteBackfill).Get("from_date"))
	assert.True(t, q.Cache().IsStale(SurgeStatsKey()))
	assert.True(t, q.Cache().IsStale(AdminStatusKey()))
	assert.False(t, q.Cache().IsStale(SettingsKey()))
}

func TestUpdateSettings_InvalidatesOnlySettings(t *testing.T) {
	q, api := newTestQueries(t, time.Hour)
	ctx := context.Background()
	cache := q.Cache()

	settings := observeUntilSuccess(t, cache, q.Settings())
	_, err := query.Fetch(ctx, cache, q.SurgeStats())
	require.NoError(t, err)
	_, err = query.Fetch(ctx, cache, q.AdminStatus())
	require.NoError(t, err)

	_, err = q.UpdateSettings().Mutate(ctx, domain.UserSettings{SurgeThreshold: 25})
	require.NoError(t, err)
	assert.Equal(t, 25.0, api.SettingsValue().SurgeThreshold)

	assert.Eventually(t, func() bool {
		return settings.State().Data.SurgeThreshold == 25
	}, 2*time.Second, 5*time.Millisecond)
	assert.False(t, cache.IsStale(SurgeStatsKey()))
	assert.False(t, cache.IsStale(AdminStatusKey()))
}

func TestUpdateSettings_FailureKeepsCachedData(t *testing.T) {
	q, api := newTestQueries(t, time.Hour)
	ctx := context.Background()

	settings := observeUntilSuccess(t, q.Cache(), q.Settings())
	api.FailWith(fake.RouteUpdateSettings, http.StatusInternalServerError)

	m := q.UpdateSettings()
	_, err := m.Mutate(ctx, domain.UserSettings{SurgeThreshold: 50})
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, surgeapi.StatusCode(err))
	assert.Equal(t, 1, api.Calls(fake.RouteUpdateSettings))
	assert.True(t, m.State().IsError())

	st := settings.State()
	assert.True(t, st.IsSuccess())
	assert.Equal(t, 20.0, st.Data.SurgeThreshold)
}

func TestChartRange_Window(t *testing.T) {
	now := time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC)

	from, to := ChartRanges[DefaultChartRange].Window(now)
	assert.Equal(t, "6M", ChartRanges[DefaultChartRange].Label)
	assert.Equal(t, "2024-01-15", from)
	assert.Equal(t, "2024-07-15", to)

	from, _ = ChartRanges[4].Window(now)
	assert.Equal(t, "2022-07-15", from)
}

func TestFilterBySymbol(t *testing.T) {
	events := fake.NewSurgeFixtures()

	got := FilterBySymbol(events, "acme")
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	assert.Empty(t, FilterBySymbol(events, "ZZZ"))
}
