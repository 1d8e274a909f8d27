// api/store/visit_store.go
package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"sitepulse/api/database"
	"sitepulse/api/models"
)

// VisitStore persists page-visit events in ClickHouse. Inserts only ever
// append; every read is a ranged aggregate over created_at.
type VisitStore struct {
	DB *database.ClickHouseClient
}

func NewVisitStore(chClient *database.ClickHouseClient) *VisitStore {
	return &VisitStore{
		DB: chClient,
	}
}

// EnsureSchema creates the page_visits table if it does not exist yet.
func (s *VisitStore) EnsureSchema(ctx context.Context) error {
	err := s.DB.Conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS page_visits (
			id String,
			page String,
			visitor_id String,
			session_id String,
			user_agent String,
			referrer String,
			device LowCardinality(String),
			browser LowCardinality(String),
			country LowCardinality(String),
			created_at DateTime
		) ENGINE = MergeTree()
		ORDER BY created_at
	`)
	if err != nil {
		return fmt.Errorf("failed to create page_visits table: %w", err)
	}
	return nil
}

func (s *VisitStore) InsertVisit(ctx context.Context, event models.PageVisitEvent) error {
	batch, err := s.DB.Conn.PrepareBatch(ctx, `
		INSERT INTO page_visits (
			id, page, visitor_id, session_id, user_agent, referrer,
			device, browser, country, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare visit insert: %w", err)
	}

	err = batch.Append(
		event.ID,
		event.Page,
		event.VisitorID,
		event.SessionID,
		event.UserAgent,
		event.Referrer,
		event.Device,
		event.Browser,
		event.Country,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append visit to batch (ID: %s): %w", event.ID, err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to insert visit: %w", err)
	}
	return nil
}

func (s *VisitStore) CountVisits(ctx context.Context, start, end time.Time) (uint64, error) {
	query := `
		SELECT count()
		FROM page_visits
		WHERE created_at >= ? AND created_at < ?
	`
	var count uint64
	if err := s.DB.Conn.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// CountUniqueVisitors counts distinct visitor tokens in the window.
// Anonymous events (empty visitor_id) are excluded. uniqExact rather
// than uniq: visitor volumes here stay well within exact-count range.
func (s *VisitStore) CountUniqueVisitors(ctx context.Context, start, end time.Time) (uint64, error) {
	query := `
		SELECT uniqExact(visitor_id)
		FROM page_visits
		WHERE visitor_id != '' AND created_at >= ? AND created_at < ?
	`
	var count uint64
	if err := s.DB.Conn.QueryRow(ctx, query, start, end).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unique visitors: %w", err)
	}
	return count, nil
}

func (s *VisitStore) VisitsByPage(ctx context.Context, start, end time.Time, limit int) ([]models.PageCount, error) {
	query := `
		SELECT page, count() AS visit_count
		FROM page_visits
		WHERE created_at >= ? AND created_at < ?
		GROUP BY page
		ORDER BY visit_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by page: %w", err)
	}
	defer rows.Close()

	var results []models.PageCount
	for rows.Next() {
		var page string
		var count uint64
		if err := rows.Scan(&page, &count); err != nil {
			log.Printf("Error scanning row for visits by page: %v", err)
			continue
		}
		results = append(results, models.PageCount{Page: page, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for visits by page: %w", err)
	}
	return results, nil
}

func (s *VisitStore) VisitsByDevice(ctx context.Context, start, end time.Time) ([]models.DeviceCount, error) {
	query := `
		SELECT device, count() AS visit_count
		FROM page_visits
		WHERE created_at >= ? AND created_at < ?
		GROUP BY device
		ORDER BY visit_count DESC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by device: %w", err)
	}
	defer rows.Close()

	var results []models.DeviceCount
	for rows.Next() {
		var device string
		var count uint64
		if err := rows.Scan(&device, &count); err != nil {
			log.Printf("Error scanning row for visits by device: %v", err)
			continue
		}
		results = append(results, models.DeviceCount{Device: device, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for visits by device: %w", err)
	}
	return results, nil
}

func (s *VisitStore) VisitsByBrowser(ctx context.Context, start, end time.Time) ([]models.BrowserCount, error) {
	query := `
		SELECT browser, count() AS visit_count
		FROM page_visits
		WHERE created_at >= ? AND created_at < ?
		GROUP BY browser
		ORDER BY visit_count DESC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by browser: %w", err)
	}
	defer rows.Close()

	var results []models.BrowserCount
	for rows.Next() {
		var browser string
		var count uint64
		if err := rows.Scan(&browser, &count); err != nil {
			log.Printf("Error scanning row for visits by browser: %v", err)
			continue
		}
		results = append(results, models.BrowserCount{Browser: browser, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for visits by browser: %w", err)
	}
	return results, nil
}

func (s *VisitStore) VisitsByCountry(ctx context.Context, start, end time.Time, limit int) ([]models.CountryCount, error) {
	query := `
		SELECT country, count() AS visit_count
		FROM page_visits
		WHERE country != '' AND created_at >= ? AND created_at < ?
		GROUP BY country
		ORDER BY visit_count DESC
		LIMIT ?
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits by country: %w", err)
	}
	defer rows.Close()

	var results []models.CountryCount
	for rows.Next() {
		var country string
		var count uint64
		if err := rows.Scan(&country, &count); err != nil {
			log.Printf("Error scanning row for visits by country: %v", err)
			continue
		}
		results = append(results, models.CountryCount{Country: country, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for visits by country: %w", err)
	}
	return results, nil
}

// DailyVisitCounts returns per-calendar-day totals keyed by YYYY-MM-DD.
// Days with no traffic are absent; the engine zero-fills the series.
func (s *VisitStore) DailyVisitCounts(ctx context.Context, start, end time.Time) (map[string]uint64, error) {
	query := `
		SELECT toDate(created_at) AS day, count() AS visit_count
		FROM page_visits
		WHERE created_at >= ? AND created_at < ?
		GROUP BY day
		ORDER BY day ASC
	`
	rows, err := s.DB.Conn.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily visit counts: %w", err)
	}
	defer rows.Close()

	results := make(map[string]uint64)
	for rows.Next() {
		var day time.Time
		var count uint64
		if err := rows.Scan(&day, &count); err != nil {
			log.Printf("Error scanning row for daily visit counts: %v", err)
			continue
		}
		results[day.Format("2006-01-02")] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows for daily visit counts: %w", err)
	}
	return results, nil
}
