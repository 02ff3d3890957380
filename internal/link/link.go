// Package link implements the short-link lifecycle: code generation,
// creation, accessibility-gated resolution, click recording and expiry
// sweeping. Storage and transport live elsewhere; this package owns the
// business rules.
package link

import "time"

// ShortLink is the central entity. Code is the primary key and never
// changes after creation.
type ShortLink struct {
	Code       string
	TargetURL  string
	CreatedAt  time.Time
	ExpiresAt  *time.Time // nil means the link never expires
	ClickCount int64
	Active     bool
	Aliased    bool // true when the code was caller-supplied
}

// Expired reports whether the link's expiry has passed at the given instant.
// Permanent links never expire.
func (l *ShortLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// Permanent reports whether the link has no expiry.
func (l *ShortLink) Permanent() bool {
	return l.ExpiresAt == nil
}

// Accessible reports whether the public read path may resolve this link.
// Deactivated and expired links are indistinguishable from missing ones to
// callers.
func (l *ShortLink) Accessible(now time.Time) bool {
	return l.Active && !l.Expired(now)
}
