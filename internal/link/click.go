package link

import (
	"strings"
	"time"
)

// ClickEvent is an immutable analytics record for one resolution of a short
// link. Events are append-only: nothing in this package updates or deletes
// them. Browser and OS are derived from the raw user agent at read time and
// never stored, so classification rule changes apply retroactively.
type ClickEvent struct {
	Code           string    `json:"code"`
	ClickDate      time.Time `json:"clickDate"`
	ClickTimestamp time.Time `json:"clickTimestamp"`
	UserAgent      string    `json:"userAgent"`
	IPAddress      string    `json:"ipAddress"`
}

// NewClickEvent builds a click event stamped at the given instant. ClickDate
// keeps only the calendar day for range-scan locality.
func NewClickEvent(code, userAgent, ipAddress string, now time.Time) *ClickEvent {
	now = now.UTC()

	return &ClickEvent{
		Code:           code,
		ClickDate:      now.Truncate(24 * time.Hour),
		ClickTimestamp: now,
		UserAgent:      userAgent,
		IPAddress:      ipAddress,
	}
}

// browsers and systems are checked in order; the first substring match wins.
// Chrome must precede Safari because Chrome user agents contain "Safari".
var browsers = []string{"Chrome", "Firefox", "Safari", "Edge"}

var systems = []struct {
	token string
	name  string
}{
	{"Windows", "Windows"},
	{"Mac OS", "macOS"},
	{"Linux", "Linux"},
	{"Android", "Android"},
	{"iOS", "iOS"},
}

// BrowserName classifies the user agent into a coarse browser family.
func (e *ClickEvent) BrowserName() string {
	if e.UserAgent == "" {
		return "Unknown"
	}

	for _, b := range browsers {
		if containsFold(e.UserAgent, b) {
			return b
		}
	}

	return "Other"
}

// OperatingSystem classifies the user agent into a coarse OS family.
func (e *ClickEvent) OperatingSystem() string {
	if e.UserAgent == "" {
		return "Unknown"
	}

	for _, s := range systems {
		if containsFold(e.UserAgent, s.token) {
			return s.name
		}
	}

	return "Other"
}

// IsMobile reports whether the user agent identifies a mobile device.
func (e *ClickEvent) IsMobile() bool {
	return containsFold(e.UserAgent, "Mobile")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
