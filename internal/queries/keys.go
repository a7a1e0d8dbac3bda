package queries

import (
	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/query"
)

// Resource names, used as the first key part and as invalidation prefixes.
const (
	ResourceSurges     = "surges"
	ResourceTracking   = "tracking"
	ResourceStockChart = "stockChart"
	ResourceSearch     = "search"
	ResourceSettings   = "settings"
	ResourceAdmin      = "admin"
)

func SurgesKey(f domain.SurgeFilters) query.Key { return query.Key{ResourceSurges, f} }
func TodaySurgesKey() query.Key                { return query.Key{ResourceSurges, "today"} }
func SurgeDetailKey(id int64) query.Key        { return query.Key{ResourceSurges, id} }
func SurgeStatsKey() query.Key                 { return query.Key{ResourceSurges, "stats"} }
func TrackingPerformanceKey() query.Key        { return query.Key{ResourceTracking, "performance"} }
func TrackingBySectorKey() query.Key           { return query.Key{ResourceTracking, "by-sector"} }
func SearchKey(q string) query.Key             { return query.Key{ResourceSearch, q} }
func SettingsKey() query.Key                   { return query.Key{ResourceSettings} }
func AdminStatusKey() query.Key                { return query.Key{ResourceAdmin, "status"} }

func StockChartKey(symbol, from, to string) query.Key {
	return query.Key{ResourceStockChart, symbol, from, to}
}
