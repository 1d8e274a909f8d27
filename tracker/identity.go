// api/tracker/identity.go
package tracker

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is the sliding inactivity window after which a session id
// is rotated.
const SessionTTL = 30 * time.Minute

// IdentityStore holds the visitor/session identity pair on the client
// side. The server never validates or regenerates these values, it
// stores whatever arrives verbatim.
type IdentityStore interface {
	// GetOrCreateVisitorID returns the long-lived visitor token,
	// minting it on first use. It is never rotated afterwards.
	GetOrCreateVisitorID() string
	// GetOrRotateSessionID returns the current session token if the
	// last activity is within ttl, otherwise mints a new one. Either
	// way the activity clock is touched.
	GetOrRotateSessionID(ttl time.Duration) string
}

// MemoryIdentityStore keeps the identity pair in process memory,
// standing in for browser storage.
type MemoryIdentityStore struct {
	mu           sync.Mutex
	visitorID    string
	sessionID    string
	lastActivity time.Time
	now          func() time.Time
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{now: time.Now}
}

// NewMemoryIdentityStoreWithClock injects the clock, used by tests to
// drive session expiry.
func NewMemoryIdentityStoreWithClock(now func() time.Time) *MemoryIdentityStore {
	return &MemoryIdentityStore{now: now}
}

func (s *MemoryIdentityStore) GetOrCreateVisitorID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.visitorID == "" {
		s.visitorID = newToken()
	}
	return s.visitorID
}

func (s *MemoryIdentityStore) GetOrRotateSessionID(ttl time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.sessionID == "" || now.Sub(s.lastActivity) >= ttl {
		s.sessionID = newToken()
	}
	s.lastActivity = now
	return s.sessionID
}

// newToken generates an opaque URL-safe identity token.
func newToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return base64.URLEncoding.EncodeToString(b)
}
