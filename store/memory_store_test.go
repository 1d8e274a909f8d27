package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitepulse/api/models"
)

func seedAt(t *testing.T, s *MemoryVisitStore, visitorID string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, s.InsertVisit(context.Background(), models.PageVisitEvent{
		ID:        visitorID + createdAt.String(),
		Page:      "/",
		VisitorID: visitorID,
		CreatedAt: createdAt,
	}))
}

// Windows are half-open [start, end): an event exactly at start is in,
// an event exactly at end is out.
func TestMemoryVisitStore_WindowBounds(t *testing.T) {
	s := NewMemoryVisitStore()
	start := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	seedAt(t, s, "a", start.Add(-time.Second))
	seedAt(t, s, "b", start)
	seedAt(t, s, "c", end.Add(-time.Second))
	seedAt(t, s, "d", end)

	count, err := s.CountVisits(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestMemoryVisitStore_GroupOrdering(t *testing.T) {
	s := NewMemoryVisitStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	for i, page := range []string{"/one", "/one", "/one", "/two", "/two", "/three"} {
		require.NoError(t, s.InsertVisit(context.Background(), models.PageVisitEvent{
			ID:        page + string(rune('a'+i)),
			Page:      page,
			CreatedAt: now,
		}))
	}

	results, err := s.VisitsByPage(context.Background(), now.Add(-time.Hour), now.Add(time.Hour), 10)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, models.PageCount{Page: "/one", Count: 3}, results[0])
	assert.Equal(t, models.PageCount{Page: "/two", Count: 2}, results[1])
	assert.Equal(t, models.PageCount{Page: "/three", Count: 1}, results[2])
}

func TestMemoryVisitStore_CountryExcludesEmpty(t *testing.T) {
	s := NewMemoryVisitStore()
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.InsertVisit(context.Background(), models.PageVisitEvent{
		ID: "e1", Page: "/", Country: "US", CreatedAt: now,
	}))
	require.NoError(t, s.InsertVisit(context.Background(), models.PageVisitEvent{
		ID: "e2", Page: "/", CreatedAt: now,
	}))

	results, err := s.VisitsByCountry(context.Background(), now.Add(-time.Hour), now.Add(time.Hour), 10)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.CountryCount{Country: "US", Count: 1}, results[0])
}
