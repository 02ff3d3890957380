package link

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tatavachnadze/URL-Shortener/internal/messaging"
	"go.uber.org/zap"
)

// DefaultMaxCollisionRetries bounds the generated-code retry loop. Snowflake
// IDs never collide in practice, so hitting the cap signals a fault rather
// than an exhausted code space.
const DefaultMaxCollisionRetries = 5

// recentClicksLimit is how many click events Details returns.
const recentClicksLimit = 10

// CodeGenerator produces a fresh candidate short code.
type CodeGenerator func() (string, error)

// CreateParams are the caller-supplied inputs for Create.
type CreateParams struct {
	TargetURL   string
	ExpiresAt   *time.Time
	CustomAlias string
}

// ClickMeta is the request metadata attached to a resolution for analytics.
type ClickMeta struct {
	UserAgent string
	IPAddress string
}

// Details is a link together with its most recent click events.
type Details struct {
	Link         ShortLink
	RecentClicks []ClickEvent
}

// Service owns the link lifecycle rules. It composes the code generator and
// the store; click recording is dispatched through a publish function so the
// resolve path never waits on analytics.
type Service struct {
	store        Store
	generateCode CodeGenerator
	publishClick messaging.Publish[ClickEvent]
	maxRetries   int
	logger       *zap.Logger
	now          func() time.Time
}

// NewService wires a lifecycle service. publishClick may be nil, in which
// case resolutions are not recorded. maxRetries <= 0 falls back to
// DefaultMaxCollisionRetries.
func NewService(
	store Store,
	generateCode CodeGenerator,
	publishClick messaging.Publish[ClickEvent],
	maxRetries int,
	logger *zap.Logger,
) *Service {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxCollisionRetries
	}

	return &Service{
		store:        store,
		generateCode: generateCode,
		publishClick: publishClick,
		maxRetries:   maxRetries,
		logger:       logger,
		now:          time.Now,
	}
}

// Create shortens a URL. A custom alias is used verbatim and fails with
// ErrAliasTaken when occupied; otherwise codes are generated until one
// inserts cleanly, up to the retry cap.
func (s *Service) Create(ctx context.Context, params CreateParams) (*ShortLink, error) {
	if err := validateTargetURL(params.TargetURL); err != nil {
		return nil, err
	}

	if params.CustomAlias != "" {
		return s.createAliased(ctx, params)
	}

	return s.createGenerated(ctx, params)
}

func (s *Service) createAliased(ctx context.Context, params CreateParams) (*ShortLink, error) {
	// Pre-flight only: the conditional insert below is the source of truth
	// for conflicts, this just fails the common case cheaply.
	taken, err := s.store.Exists(ctx, params.CustomAlias)
	if err != nil {
		return nil, fmt.Errorf("checking alias: %w", err)
	}

	if taken {
		return nil, ErrAliasTaken
	}

	l := s.newLink(params.CustomAlias, params, true)

	if err := s.store.Create(ctx, l); err != nil {
		if errors.Is(err, ErrCodeExists) {
			return nil, ErrAliasTaken
		}

		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	return l, nil
}

func (s *Service) createGenerated(ctx context.Context, params CreateParams) (*ShortLink, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, fmt.Errorf("generating code: %w", err)
		}

		exists, err := s.store.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("checking code: %w", err)
		}

		if exists {
			continue
		}

		l := s.newLink(code, params, false)

		err = s.store.Create(ctx, l)
		if err == nil {
			return l, nil
		}

		if errors.Is(err, ErrCodeExists) {
			// Lost a race for this code; generate another.
			continue
		}

		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	return nil, ErrCodeSpaceExhausted
}

func (s *Service) newLink(code string, params CreateParams, aliased bool) *ShortLink {
	return &ShortLink{
		Code:      code,
		TargetURL: params.TargetURL,
		CreatedAt: s.now().UTC(),
		ExpiresAt: params.ExpiresAt,
		Active:    true,
		Aliased:   aliased,
	}
}

// Resolve returns the target URL for an accessible link and dispatches click
// recording as a side effect. The dispatch never blocks or fails the
// resolution: a publish failure is logged and swallowed.
func (s *Service) Resolve(ctx context.Context, code string, meta ClickMeta) (string, error) {
	l, err := s.store.Get(ctx, code)
	if err != nil {
		return "", err
	}

	if !l.Accessible(s.now()) {
		return "", ErrNotFound
	}

	if s.publishClick != nil {
		event := NewClickEvent(code, meta.UserAgent, meta.IPAddress, s.now())
		if err := s.publishClick(event); err != nil {
			s.logger.Warn("failed to dispatch click event",
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}

	return l.TargetURL, nil
}

// Details returns a link regardless of accessibility, with its recent
// clicks newest first.
func (s *Service) Details(ctx context.Context, code string) (*Details, error) {
	l, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	clicks, err := s.store.ListRecentClicks(ctx, code, recentClicksLimit)
	if err != nil {
		return nil, fmt.Errorf("listing clicks: %w", err)
	}

	return &Details{Link: *l, RecentClicks: clicks}, nil
}

// Update applies a partial update. At least one field must be supplied.
func (s *Service) Update(ctx context.Context, code string, fields UpdateFields) error {
	if fields.TargetURL == nil && fields.ExpiresAt == nil {
		return ErrNoOpUpdate
	}

	if fields.TargetURL != nil {
		if err := validateTargetURL(*fields.TargetURL); err != nil {
			return err
		}
	}

	return s.store.Update(ctx, code, fields)
}

// Delete removes a link and its derived state entirely. This is distinct
// from deactivation.
func (s *Service) Delete(ctx context.Context, code string) error {
	return s.store.Delete(ctx, code)
}

// RecordClick increments the click counter and appends an analytics event
// stamped now. The two writes are independent: a failed counter increment is
// logged and does not stop the append.
func (s *Service) RecordClick(ctx context.Context, code, userAgent, ipAddress string) error {
	return s.RecordClickEvent(ctx, NewClickEvent(code, userAgent, ipAddress, s.now()))
}

// RecordClickEvent persists an already-stamped click event, preserving its
// original timestamps. Used when replaying dispatched events.
func (s *Service) RecordClickEvent(ctx context.Context, event *ClickEvent) error {
	if err := s.store.IncrementClickCount(ctx, event.Code); err != nil {
		s.logger.Warn("failed to increment click count",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	if err := s.store.AppendClickEvent(ctx, event); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	return nil
}

func validateTargetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: must be an absolute http(s) URL", ErrInvalidURL)
	}

	return nil
}
