// Package queries binds each backend resource to a cache key and a fetcher.
package queries

import (
	"context"
	"time"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/query"
)

// AdminPollInterval keeps scheduler status current while it is on screen.
const AdminPollInterval = 30 * time.Second

// API is the backend surface the queries read from and write to.
type API interface {
	ListSurges(ctx context.Context, filters domain.SurgeFilters) (domain.Page[domain.SurgeEvent], error)
	TodaySurges(ctx context.Context) ([]domain.SurgeEvent, error)
	SurgeDetail(ctx context.Context, id int64) (domain.SurgeDetail, error)
	SurgeStats(ctx context.Context) (domain.SurgeStats, error)
	TrackingPerformance(ctx context.Context) (domain.TrackingPerformance, error)
	TrackingBySector(ctx context.Context) ([]domain.SectorTracking, error)
	StockChart(ctx context.Context, symbol, from, to string) ([]domain.OHLCVData, error)
	Search(ctx context.Context, q string) (domain.SearchResponse, error)
	Settings(ctx context.Context) (domain.UserSettings, error)
	UpdateSettings(ctx context.Context, s domain.UserSettings) (domain.UserSettings, error)
	AdminStatus(ctx context.Context) (domain.AdminStatus, error)
	Collect(ctx context.Context, date string) (domain.ActionResult, error)
	Backfill(ctx context.Context, fromDate, toDate string) (domain.ActionResult, error)
}

// Queries builds query options and mutations over one API and one cache.
type Queries struct {
	api   API
	cache *query.Client
}

func New(api API, cache *query.Client) *Queries {
	return &Queries{api: api, cache: cache}
}

// Cache returns the underlying cache.
func (q *Queries) Cache() *query.Client {
	return q.cache
}

// Surges reads one filtered page of the surge list.
func (q *Queries) Surges(f domain.SurgeFilters) query.Options[domain.Page[domain.SurgeEvent]] {
	return query.Options[domain.Page[domain.SurgeEvent]]{
		Key: SurgesKey(f),
		Fn: func(ctx context.Context) (domain.Page[domain.SurgeEvent], error) {
			return q.api.ListSurges(ctx, f)
		},
	}
}

func (q *Queries) TodaySurges() query.Options[[]domain.SurgeEvent] {
	return query.Options[[]domain.SurgeEvent]{
		Key: TodaySurgesKey(),
		Fn:  q.api.TodaySurges,
	}
}

// SurgeDetail is disabled until a positive id is known.
func (q *Queries) SurgeDetail(id int64) query.Options[domain.SurgeDetail] {
	return query.Options[domain.SurgeDetail]{
		Key: SurgeDetailKey(id),
		Fn: func(ctx context.Context) (domain.SurgeDetail, error) {
			return q.api.SurgeDetail(ctx, id)
		},
		Disabled: id <= 0,
	}
}

func (q *Queries) SurgeStats() query.Options[domain.SurgeStats] {
	return query.Options[domain.SurgeStats]{
		Key: SurgeStatsKey(),
		Fn:  q.api.SurgeStats,
	}
}

func (q *Queries) TrackingPerformance() query.Options[domain.TrackingPerformance] {
	return query.Options[domain.TrackingPerformance]{
		Key: TrackingPerformanceKey(),
		Fn:  q.api.TrackingPerformance,
	}
}

func (q *Queries) TrackingBySector() query.Options[[]domain.SectorTracking] {
	return query.Options[[]domain.SectorTracking]{
		Key: TrackingBySectorKey(),
		Fn:  q.api.TrackingBySector,
	}
}

// StockChart is keyed by symbol and range, and disabled without a symbol.
func (q *Queries) StockChart(symbol, from, to string) query.Options[[]domain.OHLCVData] {
	return query.Options[[]domain.OHLCVData]{
		Key: StockChartKey(symbol, from, to),
		Fn: func(ctx context.Context) ([]domain.OHLCVData, error) {
			return q.api.StockChart(ctx, symbol, from, to)
		},
		Disabled: symbol == "",
	}
}

// Search issues no request for an empty query.
func (q *Queries) Search(text string) query.Options[[]domain.SearchResult] {
	return query.Options[[]domain.SearchResult]{
		Key: SearchKey(text),
		Fn: func(ctx context.Context) ([]domain.SearchResult, error) {
			resp, err := q.api.Search(ctx, text)
			if err != nil {
				return nil, err
			}
			return searchResults(resp), nil
		},
		Disabled: len(text) < 1,
	}
}

func searchResults(resp domain.SearchResponse) []domain.SearchResult {
	if resp.Results == nil {
		return []domain.SearchResult{}
	}
	return resp.Results
}

func (q *Queries) Settings() query.Options[domain.UserSettings] {
	return query.Options[domain.UserSettings]{
		Key: SettingsKey(),
		Fn:  q.api.Settings,
	}
}

// AdminStatus polls every AdminPollInterval while observed.
func (q *Queries) AdminStatus() query.Options[domain.AdminStatus] {
	return query.Options[domain.AdminStatus]{
		Key:             AdminStatusKey(),
		Fn:              q.api.AdminStatus,
		RefetchInterval: AdminPollInterval,
	}
}
