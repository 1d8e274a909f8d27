// api/models/visit.go
package models

import "time"

// PageVisitEvent is a single page view as stored. Records are append-only:
// id and createdAt are assigned server-side at ingest and never change, and
// device/browser are classified once at ingest and frozen.
type PageVisitEvent struct {
	ID        string    `json:"id"`
	Page      string    `json:"page"`
	VisitorID string    `json:"visitorId,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrackRequest is the payload the client tracker sends for one page view.
// visitorId/sessionId are optional: a client with no storage available
// sends neither and the view counts as anonymous.
type TrackRequest struct {
	Page      string `json:"page" binding:"required"`
	VisitorID string `json:"visitorId"`
	SessionID string `json:"sessionId"`
	Referrer  string `json:"referrer"`
}

type PageCount struct {
	Page  string `json:"page"`
	Count uint64 `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  uint64 `json:"count"`
}

type BrowserCount struct {
	Browser string `json:"browser"`
	Count   uint64 `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   uint64 `json:"count"`
}

// DailyCount is one day of the trailing-7-day series, Date formatted
// as YYYY-MM-DD.
type DailyCount struct {
	Date  string `json:"date"`
	Count uint64 `json:"count"`
}

// Summary is the aggregate report for one period.
type Summary struct {
	Period                 string         `json:"period"`
	StartDate              time.Time      `json:"startDate"`
	TotalVisits            uint64         `json:"totalVisits"`
	UniqueVisitors         uint64         `json:"uniqueVisitors"`
	VisitsByPage           []PageCount    `json:"visitsByPage"`
	VisitsByDevice         []DeviceCount  `json:"visitsByDevice"`
	VisitsByBrowser        []BrowserCount `json:"visitsByBrowser"`
	VisitsByCountry        []CountryCount `json:"visitsByCountry"`
	DailyVisits            []DailyCount   `json:"dailyVisits"`
	PreviousVisits         uint64         `json:"previousVisits"`
	PreviousUniqueVisitors uint64         `json:"previousUniqueVisitors"`
	VisitsChange           string         `json:"visitsChange"`
	VisitorsChange         string         `json:"visitorsChange"`
}

// RealtimeStats covers the fixed trailing 5-minute window.
type RealtimeStats struct {
	ActiveVisitors  uint64 `json:"activeVisitors"`
	RecentPageViews uint64 `json:"recentPageViews"`
}
