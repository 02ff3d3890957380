package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/tatavachnadze/URL-Shortener/internal/link"
)

// LinkBody is the JSON shape of a short link in responses.
type LinkBody struct {
	Code       string     `doc:"The short code"                json:"code"`
	TargetURL  string     `doc:"The original URL"              json:"targetUrl"`
	ShortURL   string     `doc:"The full short URL"            json:"shortUrl"`
	CreatedAt  time.Time  `doc:"Creation time"                 json:"createdAt"`
	ExpiresAt  *time.Time `doc:"Expiry, absent when permanent" json:"expiresAt,omitempty"`
	ClickCount int64      `doc:"Approximate click count"       json:"clickCount"`
	Active     bool       `doc:"Whether the link is active"    json:"active"`
	Aliased    bool       `doc:"Whether the code is a custom alias" json:"aliased"`
	Expired    bool       `doc:"Whether the expiry has passed" json:"expired"`
	Permanent  bool       `doc:"Whether the link never expires" json:"permanent"`
}

// ClickBody is the JSON shape of one click event, with the browser and OS
// fields derived from the stored user agent at response time.
type ClickBody struct {
	ClickDate       time.Time `doc:"Calendar day of the click" json:"clickDate"`
	ClickTimestamp  time.Time `doc:"Exact click instant"       json:"clickTimestamp"`
	UserAgent       string    `doc:"Raw user agent"            json:"userAgent"`
	IPAddress       string    `doc:"Client IP"                 json:"ipAddress"`
	BrowserName     string    `doc:"Derived browser family"    json:"browserName"`
	OperatingSystem string    `doc:"Derived OS family"         json:"operatingSystem"`
	IsMobile        bool      `doc:"Derived mobile flag"       json:"isMobile"`
}

// CreateLinkRequest is the request for creating a short link.
type CreateLinkRequest struct {
	Body struct {
		URL         string     `doc:"The URL to shorten"                example:"https://example.com/very/long/path" json:"url"`
		ExpiresAt   *time.Time `doc:"Optional expiry, must be future"   json:"expiresAt,omitempty"`
		CustomAlias string     `doc:"Optional caller-chosen short code" example:"promo" json:"customAlias,omitempty" maxLength:"20" minLength:"3" pattern:"^[A-Za-z0-9_-]+$"`
	}
}

// CreateLinkResponse is the response for a successfully created link.
type CreateLinkResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body LinkBody
}

// RedirectRequest addresses a short link by code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"8M0kX" path:"code"`
}

// RedirectResponse is a 301 redirect to the target URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The target URL" header:"Location"`
	}
}

// LinkDetailsRequest addresses a short link by code.
type LinkDetailsRequest struct {
	Code string `doc:"The short code" path:"code"`
}

// LinkDetailsResponse is a link plus its recent click events, newest first.
type LinkDetailsResponse struct {
	Body struct {
		LinkBody
		RecentClicks []ClickBody `doc:"Most recent clicks, newest first" json:"recentClicks"`
	}
}

// UpdateLinkRequest is a partial update; at least one field must be set.
type UpdateLinkRequest struct {
	Code string `doc:"The short code" path:"code"`
	Body struct {
		TargetURL *string    `doc:"New target URL"  json:"targetUrl,omitempty"`
		ExpiresAt *time.Time `doc:"New expiry time" json:"expiresAt,omitempty"`
	}
}

// DeleteLinkRequest addresses a short link by code.
type DeleteLinkRequest struct {
	Code string `doc:"The short code" path:"code"`
}

func linkBody(l *link.ShortLink, baseURL string, now time.Time) LinkBody {
	return LinkBody{
		Code:       l.Code,
		TargetURL:  l.TargetURL,
		ShortURL:   fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), l.Code),
		CreatedAt:  l.CreatedAt,
		ExpiresAt:  l.ExpiresAt,
		ClickCount: l.ClickCount,
		Active:     l.Active,
		Aliased:    l.Aliased,
		Expired:    l.Expired(now),
		Permanent:  l.Permanent(),
	}
}

func clickBody(e *link.ClickEvent) ClickBody {
	return ClickBody{
		ClickDate:       e.ClickDate,
		ClickTimestamp:  e.ClickTimestamp,
		UserAgent:       e.UserAgent,
		IPAddress:       e.IPAddress,
		BrowserName:     e.BrowserName(),
		OperatingSystem: e.OperatingSystem(),
		IsMobile:        e.IsMobile(),
	}
}
