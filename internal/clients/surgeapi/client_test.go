package surgeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/surgedash/internal/domain"
	fake "github.com/aristath/surgedash/internal/testing"
)

func newTestClient(t *testing.T) (*Client, *fake.FakeAPI) {
	t.Helper()
	api := fake.NewFakeAPI(t)
	return NewClient(api.URL(), 0, zerolog.Nop()), api
}

func TestRequest_DefaultHeaders(t *testing.T) {
	client, api := newTestClient(t)

	_, err := client.Settings(context.Background())
	require.NoError(t, err)

	headers := api.LastHeader(fake.RouteSettings)
	assert.Equal(t, "application/json", headers.Get("Content-Type"))
	assert.NotEmpty(t, headers.Get("X-Request-ID"))
}

func TestRequest_HeaderOverride(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, zerolog.Nop())
	err := client.Request(context.Background(), http.MethodGet, "/x", nil, nil,
		WithHeader("Content-Type", "text/plain"),
		WithHeader("X-Extra", "1"))
	require.NoError(t, err)

	assert.Equal(t, "text/plain", got.Get("Content-Type"))
	assert.Equal(t, "1", got.Get("X-Extra"))
}

func TestRequest_HTTPError(t *testing.T) {
	client, api := newTestClient(t)
	api.FailWith(fake.RouteSurgeStats, http.StatusServiceUnavailable)

	_, err := client.SurgeStats(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, "Service Unavailable", httpErr.StatusText)
	assert.Equal(t, "API error: 503 Service Unavailable", err.Error())
	assert.True(t, httpErr.Retryable())
	assert.Equal(t, http.StatusServiceUnavailable, StatusCode(err))
}

func TestRequest_NotFoundIsNotTemporary(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SurgeDetail(context.Background(), 999)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.False(t, httpErr.Retryable())
}

func TestRequest_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, 0, zerolog.Nop())
	_, err := client.TodaySurges(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, StatusCode(err))
}

func TestRequest_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": "nope"`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, zerolog.Nop())
	_, err := client.ListSurges(context.Background(), domain.DefaultSurgeFilters(20))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestListSurges_SendsOnlySetFilters(t *testing.T) {
	client, api := newTestClient(t)

	page, err := client.ListSurges(context.Background(), domain.SurgeFilters{
		Page:     1,
		Limit:    20,
		FromDate: "2024-01-01",
		ToDate:   "2024-01-31",
		MinPct:   domain.Float(25),
	})
	require.NoError(t, err)

	q := api.LastQuery(fake.RouteSurges)
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "2024-01-01", q.Get("from_date"))
	assert.Equal(t, "25", q.Get("min_pct"))
	assert.NotContains(t, q, "sector")

	assert.Equal(t, 3, page.Total)
	assert.True(t, page.Consistent())
	for _, s := range page.Items {
		assert.GreaterOrEqual(t, s.ChangePct, 25.0)
	}
}

func TestListSurges_EmptyPage(t *testing.T) {
	client, api := newTestClient(t)
	api.SetSurges(nil)

	page, err := client.ListSurges(context.Background(), domain.DefaultSurgeFilters(20))
	require.NoError(t, err)

	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.Pages)
	assert.True(t, page.Consistent())
}

func TestStockChart_OptionalRange(t *testing.T) {
	client, api := newTestClient(t)

	candles, err := client.StockChart(context.Background(), "ACME", "", "")
	require.NoError(t, err)
	assert.Len(t, candles, 4)
	assert.Empty(t, api.LastQuery(fake.RouteStockChart))

	candles, err = client.StockChart(context.Background(), "ACME", "2024-01-04", "2024-01-05")
	require.NoError(t, err)
	assert.Len(t, candles, 2)
	assert.Equal(t, "2024-01-04", api.LastQuery(fake.RouteStockChart).Get("from"))
}

func TestSearch_ReturnsEnvelope(t *testing.T) {
	client, _ := newTestClient(t)

	resp, err := client.Search(context.Background(), "acm")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "ACME", resp.Results[0].Symbol)
}

func TestUpdateSettings_SendsBody(t *testing.T) {
	client, api := newTestClient(t)

	updated, err := client.UpdateSettings(context.Background(), domain.UserSettings{SurgeThreshold: 35})
	require.NoError(t, err)
	assert.Equal(t, 35.0, updated.SurgeThreshold)

	var body map[string]any
	require.NoError(t, json.Unmarshal(api.LastBody(fake.RouteUpdateSettings), &body))
	assert.Equal(t, map[string]any{"surge_threshold": 35.0}, body)
}

func TestCollect_OmitsEmptyDate(t *testing.T) {
	client, api := newTestClient(t)

	result, err := client.Collect(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "Collection completed for today", result.Message)
	assert.NotContains(t, api.LastQuery(fake.RouteCollect), "date")

	_, err = client.Collect(context.Background(), "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", api.LastQuery(fake.RouteCollect).Get("date"))
}

func TestBackfill_SendsRange(t *testing.T) {
	client, api := newTestClient(t)

	result, err := client.Backfill(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, result.LogID)

	q := api.LastQuery(fake.RouteBackfill)
	assert.Equal(t, "2024-01-01", q.Get("from_date"))
	assert.Equal(t, "2024-01-31", q.Get("to_date"))
}
