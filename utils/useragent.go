package utils

import "strings"

// Device classes derived at ingest time. Classification rules only ever
// run once per event; stored values are never recomputed.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// ClassifyDevice maps a raw User-Agent string to a device class using
// case-insensitive substring checks. Tablet patterns are checked before
// mobile patterns: most tablet UAs also contain mobile-adjacent
// substrings, so checking mobile first would misclassify them.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)

	if strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad") {
		return DeviceTablet
	}
	if strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone") {
		return DeviceMobile
	}
	return DeviceDesktop
}

// BrowserUnknown is returned for any User-Agent no rule matches. A
// malformed UA is never an error, worst case is unknown/desktop.
const BrowserUnknown = "unknown"

// ClassifyBrowser maps a raw User-Agent string to a browser family.
// Ordered rule list, first match wins. Chromium-based browsers embed
// "safari" and Edge embeds "chrome", hence the exclusions.
func ClassifyBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "chrome") && !strings.Contains(ua, "edge"):
		return "chrome"
	case strings.Contains(ua, "firefox"):
		return "firefox"
	case strings.Contains(ua, "safari") && !strings.Contains(ua, "chrome"):
		return "safari"
	case strings.Contains(ua, "edge"):
		return "edge"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr"):
		return "opera"
	default:
		return BrowserUnknown
	}
}
