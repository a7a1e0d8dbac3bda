package surgeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aristath/surgedash/internal/domain"
)

// SurgeParams maps surge filters to query parameters. Unset fields are absent.
func SurgeParams(f domain.SurgeFilters) Params {
	return Params{
		{"page", optionalInt(f.Page)},
		{"limit", optionalInt(f.Limit)},
		{"from_date", f.FromDate},
		{"to_date", f.ToDate},
		{"min_pct", f.MinPct},
		{"sector", f.Sector},
	}
}

func optionalInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}

// Surges

func (c *Client) ListSurges(ctx context.Context, filters domain.SurgeFilters) (domain.Page[domain.SurgeEvent], error) {
	var page domain.Page[domain.SurgeEvent]
	err := c.Request(ctx, http.MethodGet, "/api/surges/"+BuildQuery(SurgeParams(filters)), nil, &page)
	return page, err
}

func (c *Client) TodaySurges(ctx context.Context) ([]domain.SurgeEvent, error) {
	var surges []domain.SurgeEvent
	err := c.Request(ctx, http.MethodGet, "/api/surges/today", nil, &surges)
	return surges, err
}

func (c *Client) SurgeDetail(ctx context.Context, id int64) (domain.SurgeDetail, error) {
	var detail domain.SurgeDetail
	err := c.Request(ctx, http.MethodGet, fmt.Sprintf("/api/surges/%d", id), nil, &detail)
	return detail, err
}

func (c *Client) SurgeStats(ctx context.Context) (domain.SurgeStats, error) {
	var stats domain.SurgeStats
	err := c.Request(ctx, http.MethodGet, "/api/surges/stats", nil, &stats)
	return stats, err
}

// Tracking

func (c *Client) TrackingPerformance(ctx context.Context) (domain.TrackingPerformance, error) {
	var perf domain.TrackingPerformance
	err := c.Request(ctx, http.MethodGet, "/api/tracking/", nil, &perf)
	return perf, err
}

func (c *Client) TrackingBySector(ctx context.Context) ([]domain.SectorTracking, error) {
	var sectors []domain.SectorTracking
	err := c.Request(ctx, http.MethodGet, "/api/tracking/by-sector", nil, &sectors)
	return sectors, err
}

// Stocks

// StockChart returns daily candles for symbol; from and to are optional ISO dates.
func (c *Client) StockChart(ctx context.Context, symbol, from, to string) ([]domain.OHLCVData, error) {
	var candles []domain.OHLCVData
	path := "/api/stocks/" + url.PathEscape(symbol) + "/chart" + BuildQuery(Params{{"from", from}, {"to", to}})
	err := c.Request(ctx, http.MethodGet, path, nil, &candles)
	return candles, err
}

// Search returns the raw search envelope.
func (c *Client) Search(ctx context.Context, q string) (domain.SearchResponse, error) {
	var resp domain.SearchResponse
	err := c.Request(ctx, http.MethodGet, "/api/search"+BuildQuery(Params{{"q", q}}), nil, &resp)
	return resp, err
}

// Settings

func (c *Client) Settings(ctx context.Context) (domain.UserSettings, error) {
	var s domain.UserSettings
	err := c.Request(ctx, http.MethodGet, "/api/settings", nil, &s)
	return s, err
}

func (c *Client) UpdateSettings(ctx context.Context, s domain.UserSettings) (domain.UserSettings, error) {
	var updated domain.UserSettings
	err := c.Request(ctx, http.MethodPut, "/api/settings", s, &updated)
	return updated, err
}

// Admin

func (c *Client) AdminStatus(ctx context.Context) (domain.AdminStatus, error) {
	var status domain.AdminStatus
	err := c.Request(ctx, http.MethodGet, "/api/admin/status", nil, &status)
	return status, err
}

// Collect triggers a one-day collection; an empty date lets the backend pick today.
func (c *Client) Collect(ctx context.Context, date string) (domain.ActionResult, error) {
	var result domain.ActionResult
	err := c.Request(ctx, http.MethodPost, "/api/admin/collect"+BuildQuery(Params{{"date", date}}), nil, &result)
	return result, err
}

// Backfill triggers a ranged collection.
func (c *Client) Backfill(ctx context.Context, fromDate, toDate string) (domain.ActionResult, error) {
	var result domain.ActionResult
	path := "/api/admin/backfill" + BuildQuery(Params{{"from_date", fromDate}, {"to_date", toDate}})
	err := c.Request(ctx, http.MethodPost, path, nil, &result)
	return result, err
}
