package link

import (
	"context"
	"time"
)

// UpdateFields carries a partial update. Nil fields are left untouched.
type UpdateFields struct {
	TargetURL *string
	ExpiresAt *time.Time
}

// Store is the durable keyed store the lifecycle service runs against.
// Every operation is atomic at the single-row level; no operation is
// transactional with any other. In particular the click counter and the
// click event log are allowed to drift under partial failure.
type Store interface {
	// Get returns the link for a code, or ErrNotFound.
	Get(ctx context.Context, code string) (*ShortLink, error)

	// Create inserts a link conditionally: if the code is already present
	// it returns ErrCodeExists and leaves the existing row untouched.
	Create(ctx context.Context, l *ShortLink) error

	// Update applies a partial update, or returns ErrNotFound.
	Update(ctx context.Context, code string, fields UpdateFields) error

	// Delete removes the link and its derived state, or returns ErrNotFound.
	Delete(ctx context.Context, code string) error

	// Exists reports whether a code is present.
	Exists(ctx context.Context, code string) (bool, error)

	// IncrementClickCount bumps the best-effort click counter by one.
	IncrementClickCount(ctx context.Context, code string) error

	// AppendClickEvent appends one analytics record.
	AppendClickEvent(ctx context.Context, event *ClickEvent) error

	// ListRecentClicks returns up to limit click events, newest first.
	ListRecentClicks(ctx context.Context, code string, limit int) ([]ClickEvent, error)

	// ListExpiredActive returns links that are still active but whose
	// expiry is at or before now.
	ListExpiredActive(ctx context.Context, now time.Time) ([]ShortLink, error)

	// Deactivate clears the active flag. Deactivating an already inactive
	// link is a no-op.
	Deactivate(ctx context.Context, code string) error
}
