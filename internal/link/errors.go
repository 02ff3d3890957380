package link

import "errors"

var (
	// ErrNotFound is returned when no accessible link exists for a code.
	// Inactive and expired links report it too, so their existence is not
	// leaked through the read path.
	ErrNotFound = errors.New("link not found")

	// ErrAliasTaken is returned when a caller-supplied alias already exists.
	// Alias collisions are caller errors, never retried.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrCodeSpaceExhausted is returned when generated codes keep colliding
	// past the configured retry cap. With a working ID generator this means
	// something is badly wrong, not that the code space is actually full.
	ErrCodeSpaceExhausted = errors.New("could not generate an unused code")

	// ErrCodeExists is reported by stores when a conditional insert loses to
	// an existing row. It is the source of truth for creation conflicts.
	ErrCodeExists = errors.New("code already exists")

	// ErrNoOpUpdate is returned when an update supplies no fields.
	ErrNoOpUpdate = errors.New("update must change at least one field")

	// ErrInvalidURL is returned for target URLs that are not absolute
	// http(s) URLs.
	ErrInvalidURL = errors.New("invalid target URL")

	// ErrStorageWrite wraps persistence failures on the write path. Writes
	// are not retried here; idempotent retry is the caller's choice.
	ErrStorageWrite = errors.New("storage write failed")
)
