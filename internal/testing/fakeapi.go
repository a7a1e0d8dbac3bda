// Package testing provides an in-process fake of the surge backend for tests.
package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/aristath/surgedash/internal/domain"
)

// Route identifiers, one per backend endpoint.
const (
	RouteSurges           = "GET /api/surges/"
	RouteTodaySurges      = "GET /api/surges/today"
	RouteSurgeDetail      = "GET /api/surges/{id}"
	RouteSurgeStats       = "GET /api/surges/stats"
	RouteTracking         = "GET /api/tracking/"
	RouteTrackingBySector = "GET /api/tracking/by-sector"
	RouteStockChart       = "GET /api/stocks/{symbol}/chart"
	RouteSearch           = "GET /api/search"
	RouteSettings         = "GET /api/settings"
	RouteUpdateSettings   = "PUT /api/settings"
	RouteAdminStatus      = "GET /api/admin/status"
	RouteCollect          = "POST /api/admin/collect"
	RouteBackfill         = "POST /api/admin/backfill"
)

// FakeAPI serves every backend endpoint from in-memory state, counting calls per route.
type FakeAPI struct {
	mu sync.Mutex

	server *httptest.Server

	surges      []domain.SurgeEvent
	today       []domain.SurgeEvent
	stats       domain.SurgeStats
	performance domain.TrackingPerformance
	sectors     []domain.SectorTracking
	candles     map[string][]domain.OHLCVData
	tickers     []domain.SearchResult
	settings    domain.UserSettings
	status      domain.AdminStatus

	calls    map[string]int
	queries  map[string]url.Values
	headers  map[string]http.Header
	bodies   map[string][]byte
	failures map[string]int
	holds    map[string]chan struct{}
}

// NewFakeAPI starts a fake backend seeded with the fixtures; it is closed when t finishes.
func NewFakeAPI(t testing.TB) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		surges:      NewSurgeFixtures(),
		stats:       NewStatsFixture(),
		performance: NewTrackingFixture(),
		sectors:     NewSectorTrackingFixtures(),
		candles:     map[string][]domain.OHLCVData{"ACME": NewCandleFixtures()},
		tickers:     NewTickerFixtures(),
		settings:    domain.UserSettings{SurgeThreshold: 20},
		status:      domain.AdminStatus{SchedulerRunning: true},
		calls:       make(map[string]int),
		queries:     make(map[string]url.Values),
		headers:     make(map[string]http.Header),
		bodies:      make(map[string][]byte),
		failures:    make(map[string]int),
		holds:       make(map[string]chan struct{}),
	}
	f.today = f.surges[len(f.surges)-2:]

	f.server = httptest.NewServer(f.routes())
	t.Cleanup(f.Close)
	return f
}

func (f *FakeAPI) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/surges", func(r chi.Router) {
			r.Get("/", f.handle(RouteSurges, f.listSurges))
			r.Get("/today", f.handle(RouteTodaySurges, f.todaySurges))
			r.Get("/stats", f.handle(RouteSurgeStats, f.surgeStats))
			r.Get("/{id}", f.handle(RouteSurgeDetail, f.surgeDetail))
		})
		r.Get("/tracking/", f.handle(RouteTracking, f.trackingPerformance))
		r.Get("/tracking/by-sector", f.handle(RouteTrackingBySector, f.trackingBySector))
		r.Get("/stocks/{symbol}/chart", f.handle(RouteStockChart, f.stockChart))
		r.Get("/search", f.handle(RouteSearch, f.search))
		r.Get("/settings", f.handle(RouteSettings, f.getSettings))
		r.Put("/settings", f.handle(RouteUpdateSettings, f.updateSettings))
		r.Route("/admin", func(r chi.Router) {
			r.Get("/status", f.handle(RouteAdminStatus, f.adminStatus))
			r.Post("/collect", f.handle(RouteCollect, f.collect))
			r.Post("/backfill", f.handle(RouteBackfill, f.backfill))
		})
	})
	return r
}

// URL returns the base URL of the fake backend.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Close stops the server, releasing any held requests first.
func (f *FakeAPI) Close() {
	f.mu.Lock()
	for route, ch := range f.holds {
		close(ch)
		delete(f.holds, route)
	}
	f.mu.Unlock()
	f.server.Close()
}

// Calls returns how many requests reached route.
func (f *FakeAPI) Calls(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[route]
}

// LastQuery returns the query parameters of the most recent request to route.
func (f *FakeAPI) LastQuery(route string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[route]
}

// LastHeader returns the headers of the most recent request to route.
func (f *FakeAPI) LastHeader(route string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[route]
}

// LastBody returns the body of the most recent request to route.
func (f *FakeAPI) LastBody(route string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[route]
}

// FailWith makes route answer with status until ClearFailure is called.
func (f *FakeAPI) FailWith(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = status
}

// ClearFailure restores normal responses for route.
func (f *FakeAPI) ClearFailure(route string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, route)
}

// Hold blocks requests to route (after they are counted) until release is called.
func (f *FakeAPI) Hold(route string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[route] = ch
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			if f.holds[route] == ch {
				delete(f.holds, route)
				close(ch)
			}
			f.mu.Unlock()
		})
	}
}

// Fixture setters

func (f *FakeAPI) SetSurges(surges []domain.SurgeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.surges = surges
}

func (f *FakeAPI) SetTodaySurges(surges []domain.SurgeEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.today = surges
}

func (f *FakeAPI) SetStats(stats domain.SurgeStats) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
}

func (f *FakeAPI) SetTrackingPerformance(perf domain.TrackingPerformance) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.performance = perf
}

func (f *FakeAPI) SetTrackingBySector(sectors []domain.SectorTracking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sectors = sectors
}

func (f *FakeAPI) SetCandles(symbol string, candles []domain.OHLCVData) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candles[strings.ToUpper(symbol)] = candles
}

func (f *FakeAPI) SetAdminStatus(status domain.AdminStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *FakeAPI) SettingsValue() domain.UserSettings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// handle records the call, applies injected failures and holds, then serves.
func (f *FakeAPI) handle(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = readAll(r)
		}

		f.mu.Lock()
		f.calls[route]++
		f.queries[route] = r.URL.Query()
		f.headers[route] = r.Header.Clone()
		f.bodies[route] = body
		status, failing := f.failures[route]
		hold := f.holds[route]
		f.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}

		if failing {
			http.Error(w, http.StatusText(status), status)
			return
		}
		r.Body = newBody(body)
		next(w, r)
	}
}

func (f *FakeAPI) listSurges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := atoiDefault(q.Get("page"), 1)
	limit := atoiDefault(q.Get("limit"), domain.DefaultPageSize)
	fromDate, toDate := q.Get("from_date"), q.Get("to_date")
	sector := strings.ToLower(q.Get("sector"))
	minPct, hasMin := parseFloat(q.Get("min_pct"))

	f.mu.Lock()
	var matched []domain.SurgeEvent
	for _, s := range f.surges {
		if fromDate != "" && s.Date < fromDate {
			continue
		}
		if toDate != "" && s.Date > toDate {
			continue
		}
		if hasMin && s.ChangePct < minPct {
			continue
		}
		if sector != "" && !strings.Contains(strings.ToLower(s.Sector), sector) {
			continue
		}
		matched = append(matched, s)
	}
	f.mu.Unlock()

	items := []domain.SurgeEvent{}
	start := (page - 1) * limit
	if start >= 0 && start < len(matched) {
		end := start + limit
		if end > len(matched) {
			end = len(matched)
		}
		items = matched[start:end]
	}

	writeJSON(w, domain.Page[domain.SurgeEvent]{
		Items: items,
		Total: len(matched),
		Page:  page,
		Limit: limit,
		Pages: domain.PageCount(len(matched), limit),
	})
}

func (f *FakeAPI) todaySurges(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	today := append([]domain.SurgeEvent{}, f.today...)
	f.mu.Unlock()
	writeJSON(w, today)
}

func (f *FakeAPI) surgeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusUnprocessableEntity)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.surges {
		if s.ID != id {
			continue
		}
		detail := domain.SurgeDetail{SurgeEvent: s}
		for i, days := range domain.Horizons {
			detail.Tracking = append(detail.Tracking, domain.TrackingRecord{
				ID:              s.ID*10 + int64(i),
				SurgeID:         s.ID,
				Symbol:          s.Symbol,
				DaysAfter:       days,
				Date:            s.Date,
				Close:           s.Close,
				ChangeFromSurge: -float64(days) / 2,
			})
		}
		writeJSON(w, detail)
		return
	}
	http.Error(w, "surge not found", http.StatusNotFound)
}

func (f *FakeAPI) surgeStats(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.stats)
}

func (f *FakeAPI) trackingPerformance(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.performance)
}

func (f *FakeAPI) trackingBySector(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.sectors)
}

func (f *FakeAPI) stockChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")

	f.mu.Lock()
	defer f.mu.Unlock()
	candles := []domain.OHLCVData{}
	for _, c := range f.candles[symbol] {
		if from != "" && c.Time < from {
			continue
		}
		if to != "" && c.Time > to {
			continue
		}
		candles = append(candles, c)
	}
	writeJSON(w, candles)
}

func (f *FakeAPI) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q is required", http.StatusUnprocessableEntity)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	results := []domain.SearchResult{}
	for _, t := range f.tickers {
		if strings.HasPrefix(strings.ToLower(t.Symbol), q) || strings.Contains(strings.ToLower(t.Name), q) {
			results = append(results, t)
		}
	}
	writeJSON(w, domain.SearchResponse{Results: results, Count: len(results)})
}

func (f *FakeAPI) getSettings(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.settings)
}

func (f *FakeAPI) updateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid body", http.StatusUnprocessableEntity)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings = update
	writeJSON(w, f.settings)
}

func (f *FakeAPI) adminStatus(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, f.status)
}

func (f *FakeAPI) collect(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = "today"
	}
	logID := int64(f.Calls(RouteCollect))
	writeJSON(w, domain.ActionResult{Message: "Collection completed for " + date, LogID: &logID})
}

func (f *FakeAPI) backfill(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from_date"), q.Get("to_date")
	if from == "" || to == "" {
		http.Error(w, "from_date and to_date are required", http.StatusUnprocessableEntity)
		return
	}
	logID := int64(f.Calls(RouteBackfill))
	writeJSON(w, domain.ActionResult{Message: "Backfill completed from " + from + " to " + to, LogID: &logID})
}
