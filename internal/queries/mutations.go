package queries

import (
	"context"
	"errors"

	"github.com/aristath/surgedash/internal/domain"
	"github.com/aristath/surgedash/internal/query"
)

// ErrBackfillRange is returned when a backfill is requested without both dates.
var ErrBackfillRange = errors.New("backfill requires both a start and an end date")

// DateRange is an inclusive from/to pair in YYYY-MM-DD form.
type DateRange struct {
	From string
	To   string
}

// Collect triggers a one-day collection. An empty date means today.
func (q *Queries) Collect() *query.Mutation[string, domain.ActionResult] {
	return query.NewMutation(q.cache, "collect", q.api.Collect,
		query.Key{ResourceAdmin}, query.Key{ResourceSurges})
}

// Backfill triggers a ranged collection.
func (q *Queries) Backfill() *query.Mutation[DateRange, domain.ActionResult] {
	return query.NewMutation(q.cache, "backfill",
		func(ctx context.Context, r DateRange) (domain.ActionResult, error) {
			if r.From == "" || r.To == "" {
				return domain.ActionResult{}, ErrBackfillRange
			}
			return q.api.Backfill(ctx, r.From, r.To)
		},
		query.Key{ResourceAdmin}, query.Key{ResourceSurges})
}

// UpdateSettings saves the settings record wholesale.
func (q *Queries) UpdateSettings() *query.Mutation[domain.UserSettings, domain.UserSettings] {
	return query.NewMutation(q.cache, "update_settings", q.api.UpdateSettings,
		query.Key{ResourceSettings})
}
