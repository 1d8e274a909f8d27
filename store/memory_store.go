// api/store/memory_store.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"sitepulse/api/models"
)

// MemoryVisitStore keeps events in process memory. It backs local
// development when no ClickHouse instance is configured, and the engine
// tests. Not suitable for production: nothing survives a restart.
type MemoryVisitStore struct {
	mu     sync.RWMutex
	events []models.PageVisitEvent
}

func NewMemoryVisitStore() *MemoryVisitStore {
	return &MemoryVisitStore{}
}

func (s *MemoryVisitStore) InsertVisit(ctx context.Context, event models.PageVisitEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// inWindow reports whether t falls in [start, end).
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func (s *MemoryVisitStore) CountVisits(ctx context.Context, start, end time.Time) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count uint64
	for _, e := range s.events {
		if inWindow(e.CreatedAt, start, end) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryVisitStore) CountUniqueVisitors(ctx context.Context, start, end time.Time) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visitors := make(map[string]struct{})
	for _, e := range s.events {
		if e.VisitorID != "" && inWindow(e.CreatedAt, start, end) {
			visitors[e.VisitorID] = struct{}{}
		}
	}
	return uint64(len(visitors)), nil
}

// groupCount tallies events in the window by the given dimension value,
// skipping events where the value is empty.
func (s *MemoryVisitStore) groupCount(start, end time.Time, value func(models.PageVisitEvent) string) map[string]uint64 {
	counts := make(map[string]uint64)
	for _, e := range s.events {
		if !inWindow(e.CreatedAt, start, end) {
			continue
		}
		if v := value(e); v != "" {
			counts[v]++
		}
	}
	return counts
}

// sortedKeys orders group values by count descending, value ascending as
// the tiebreak so results are deterministic.
func sortedKeys(counts map[string]uint64) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (s *MemoryVisitStore) VisitsByPage(ctx context.Context, start, end time.Time, limit int) ([]models.PageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.groupCount(start, end, func(e models.PageVisitEvent) string { return e.Page })
	var results []models.PageCount
	for _, page := range sortedKeys(counts) {
		if len(results) == limit {
			break
		}
		results = append(results, models.PageCount{Page: page, Count: counts[page]})
	}
	return results, nil
}

func (s *MemoryVisitStore) VisitsByDevice(ctx context.Context, start, end time.Time) ([]models.DeviceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.groupCount(start, end, func(e models.PageVisitEvent) string { return e.Device })
	var results []models.DeviceCount
	for _, device := range sortedKeys(counts) {
		results = append(results, models.DeviceCount{Device: device, Count: counts[device]})
	}
	return results, nil
}

func (s *MemoryVisitStore) VisitsByBrowser(ctx context.Context, start, end time.Time) ([]models.BrowserCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.groupCount(start, end, func(e models.PageVisitEvent) string { return e.Browser })
	var results []models.BrowserCount
	for _, browser := range sortedKeys(counts) {
		results = append(results, models.BrowserCount{Browser: browser, Count: counts[browser]})
	}
	return results, nil
}

func (s *MemoryVisitStore) VisitsByCountry(ctx context.Context, start, end time.Time, limit int) ([]models.CountryCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := s.groupCount(start, end, func(e models.PageVisitEvent) string { return e.Country })
	var results []models.CountryCount
	for _, country := range sortedKeys(counts) {
		if len(results) == limit {
			break
		}
		results = append(results, models.CountryCount{Country: country, Count: counts[country]})
	}
	return results, nil
}

func (s *MemoryVisitStore) DailyVisitCounts(ctx context.Context, start, end time.Time) (map[string]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]uint64)
	for _, e := range s.events {
		if inWindow(e.CreatedAt, start, end) {
			counts[e.CreatedAt.Format("2006-01-02")]++
		}
	}
	return counts, nil
}
