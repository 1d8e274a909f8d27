// api/tracker/tracker.go
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"sitepulse/api/models"
)

// untrackedPrefixes are path namespaces that must never produce visit
// events: the CMS dashboard, auth pages and the API namespace itself.
// This is a hard exclusion, not sampling.
var untrackedPrefixes = []string{
	"/admin",
	"/login",
	"/signup",
	"/api/",
}

// Tracker reports page views to the ingest endpoint on behalf of a
// client runtime. Failures are logged and swallowed: tracking must
// never block or degrade page rendering.
type Tracker struct {
	endpoint string
	identity IdentityStore
	client   *http.Client
}

// New builds a Tracker posting to baseURL's /api/track endpoint.
func New(baseURL string, identity IdentityStore) *Tracker {
	return &Tracker{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/track",
		identity: identity,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// ShouldTrack reports whether a page path is trackable.
func ShouldTrack(page string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(page, prefix) {
			return false
		}
	}
	return true
}

// Track reports one page view, attaching the visitor and session
// identity. Untracked paths are skipped silently; delivery errors are
// logged and never propagated.
func (t *Tracker) Track(ctx context.Context, page, referrer string) {
	if !ShouldTrack(page) {
		return
	}

	req := models.TrackRequest{
		Page:      page,
		VisitorID: t.identity.GetOrCreateVisitorID(),
		SessionID: t.identity.GetOrRotateSessionID(SessionTTL),
		Referrer:  referrer,
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("tracker: failed to encode visit for %s: %v", page, err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("tracker: failed to build request for %s: %v", page, err)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		log.Printf("tracker: failed to deliver visit for %s: %v", page, err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		log.Printf("tracker: visit for %s rejected with status %d", page, resp.StatusCode)
	}
}
