// api/stats/engine.go
package stats

import (
	"context"
	"fmt"
	"time"

	"sitepulse/api/models"
	"sitepulse/api/utils"
)

// DefaultBreakdownLimit caps the page and country breakdowns. Device and
// browser breakdowns are never truncated, their value domains are small
// and closed.
const DefaultBreakdownLimit = 10

// RealtimeWindow is the fixed trailing slice used for "active now"
// metrics, recomputed fresh on every call.
const RealtimeWindow = 5 * time.Minute

// dailySeriesDays is the span of the dailyVisits chart. It is always 7
// days regardless of the selected period; the dashboard chart has a
// fixed window.
const dailySeriesDays = 7

// VisitStore is the append-only event store as the engine sees it.
// There is deliberately no update or delete: events are immutable once
// written. One named query per breakdown dimension, queries are ranged
// scans over [start, end).
type VisitStore interface {
	InsertVisit(ctx context.Context, event models.PageVisitEvent) error
	CountVisits(ctx context.Context, start, end time.Time) (uint64, error)
	CountUniqueVisitors(ctx context.Context, start, end time.Time) (uint64, error)
	VisitsByPage(ctx context.Context, start, end time.Time, limit int) ([]models.PageCount, error)
	VisitsByDevice(ctx context.Context, start, end time.Time) ([]models.DeviceCount, error)
	VisitsByBrowser(ctx context.Context, start, end time.Time) ([]models.BrowserCount, error)
	VisitsByCountry(ctx context.Context, start, end time.Time, limit int) ([]models.CountryCount, error)
	DailyVisitCounts(ctx context.Context, start, end time.Time) (map[string]uint64, error)
}

// Engine computes traffic aggregates on demand. It carries no state of
// its own: every result is a pure function of the store contents and the
// clock at call time, so calls are safe to run concurrently.
type Engine struct {
	store VisitStore
	now   func() time.Time
}

func NewEngine(store VisitStore) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewEngineWithClock injects the wall clock, used by tests to pin window
// boundaries.
func NewEngineWithClock(store VisitStore, now func() time.Time) *Engine {
	return &Engine{store: store, now: now}
}

// Summarize computes totals, breakdowns, the trailing-7-day series and a
// comparison against the window of equal length immediately preceding
// the period. It either fully succeeds or returns the first store error;
// there is no partial summary.
func (e *Engine) Summarize(ctx context.Context, period string, breakdownLimit int) (*models.Summary, error) {
	if breakdownLimit <= 0 {
		breakdownLimit = DefaultBreakdownLimit
	}

	now := e.now()
	start, err := utils.PeriodStart(period, now)
	if err != nil {
		return nil, err
	}

	totalVisits, err := e.store.CountVisits(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count visits: %w", err)
	}
	uniqueVisitors, err := e.store.CountUniqueVisitors(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count unique visitors: %w", err)
	}

	byPage, err := e.store.VisitsByPage(ctx, start, now, breakdownLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to group visits by page: %w", err)
	}
	byDevice, err := e.store.VisitsByDevice(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to group visits by device: %w", err)
	}
	byBrowser, err := e.store.VisitsByBrowser(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to group visits by browser: %w", err)
	}
	byCountry, err := e.store.VisitsByCountry(ctx, start, now, breakdownLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to group visits by country: %w", err)
	}

	daily, err := e.dailySeries(ctx, now)
	if err != nil {
		return nil, err
	}

	prevStart, prevEnd := utils.PreviousWindow(start, now)
	previousVisits, err := e.store.CountVisits(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous-period visits: %w", err)
	}
	previousUnique, err := e.store.CountUniqueVisitors(ctx, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count previous-period unique visitors: %w", err)
	}

	return &models.Summary{
		Period:                 period,
		StartDate:              start,
		TotalVisits:            totalVisits,
		UniqueVisitors:         uniqueVisitors,
		VisitsByPage:           byPage,
		VisitsByDevice:         byDevice,
		VisitsByBrowser:        byBrowser,
		VisitsByCountry:        byCountry,
		DailyVisits:            daily,
		PreviousVisits:         previousVisits,
		PreviousUniqueVisitors: previousUnique,
		VisitsChange:           utils.FormatChange(totalVisits, previousVisits),
		VisitorsChange:         utils.FormatChange(uniqueVisitors, previousUnique),
	}, nil
}

// dailySeries builds the fixed trailing-7-day chart, zero-filling days
// with no traffic, ordered oldest to newest.
func (e *Engine) dailySeries(ctx context.Context, now time.Time) ([]models.DailyCount, error) {
	seriesStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -(dailySeriesDays - 1))

	counts, err := e.store.DailyVisitCounts(ctx, seriesStart, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute daily visit counts: %w", err)
	}

	series := make([]models.DailyCount, 0, dailySeriesDays)
	for i := 0; i < dailySeriesDays; i++ {
		day := utils.DayKey(seriesStart.AddDate(0, 0, i))
		series = append(series, models.DailyCount{Date: day, Count: counts[day]})
	}
	return series, nil
}

// ActiveNow reports the trailing 5-minute window: total views and
// distinct identified visitors. Stateless, no caching between polls.
func (e *Engine) ActiveNow(ctx context.Context) (*models.RealtimeStats, error) {
	now := e.now()
	start := now.Add(-RealtimeWindow)

	views, err := e.store.CountVisits(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent page views: %w", err)
	}
	visitors, err := e.store.CountUniqueVisitors(ctx, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count active visitors: %w", err)
	}

	return &models.RealtimeStats{
		ActiveVisitors:  visitors,
		RecentPageViews: views,
	}, nil
}
