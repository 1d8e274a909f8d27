// api/tracker/tracker_test.go
package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitepulse/api/models"
)

func TestVisitorID_StableAcrossSessions(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	ids := NewMemoryIdentityStoreWithClock(func() time.Time { return now })

	visitor := ids.GetOrCreateVisitorID()
	require.NotEmpty(t, visitor)

	// The visitor token survives session expiry; it is never rotated.
	ids.GetOrRotateSessionID(SessionTTL)
	now = now.Add(2 * time.Hour)
	ids.GetOrRotateSessionID(SessionTTL)

	assert.Equal(t, visitor, ids.GetOrCreateVisitorID())
}

func TestSessionID_SlidingExpiry(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	ids := NewMemoryIdentityStoreWithClock(func() time.Time { return now })

	first := ids.GetOrRotateSessionID(SessionTTL)
	require.NotEmpty(t, first)

	// Activity every 20 minutes keeps the session alive indefinitely.
	for i := 0; i < 4; i++ {
		now = now.Add(20 * time.Minute)
		assert.Equal(t, first, ids.GetOrRotateSessionID(SessionTTL))
	}

	// A 30-minute gap of inactivity mints a new session.
	now = now.Add(30 * time.Minute)
	second := ids.GetOrRotateSessionID(SessionTTL)
	assert.NotEqual(t, first, second)
}

func TestShouldTrack(t *testing.T) {
	tests := []struct {
		page     string
		expected bool
	}{
		{page: "/", expected: true},
		{page: "/products", expected: true},
		{page: "/blog/post-1", expected: true},
		{page: "/admin", expected: false},
		{page: "/admin/pages", expected: false},
		{page: "/login", expected: false},
		{page: "/signup", expected: false},
		{page: "/api/stats", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldTrack(tt.page))
		})
	}
}

func TestTrack_DeliversIdentity(t *testing.T) {
	var got models.TrackRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/track", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tr := New(srv.URL, NewMemoryIdentityStore())
	tr.Track(context.Background(), "/products", "https://example.com")

	assert.Equal(t, "/products", got.Page)
	assert.Equal(t, "https://example.com", got.Referrer)
	assert.NotEmpty(t, got.VisitorID)
	assert.NotEmpty(t, got.SessionID)
}

func TestTrack_SkipsAdminPaths(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	}))
	defer srv.Close()

	tr := New(srv.URL, NewMemoryIdentityStore())
	tr.Track(context.Background(), "/admin/dashboard", "")
	tr.Track(context.Background(), "/api/stats", "")

	assert.Equal(t, int64(0), atomic.LoadInt64(&calls))
}

// Delivery failure never propagates; page flow must not notice.
func TestTrack_SwallowsDeliveryFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	tr := New(srv.URL, NewMemoryIdentityStore())
	tr.Track(context.Background(), "/", "")

	// Even a dead endpoint is tolerated.
	srv.Close()
	tr.Track(context.Background(), "/", "")
}
