package link

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often the sweeper runs when not configured.
const DefaultSweepInterval = 30 * time.Minute

// Sweeper periodically deactivates links whose expiry has passed. It is the
// only component that performs the active-to-inactive transition, and the
// transition is idempotent: sweeping an already inactive link changes
// nothing. A failed cycle is not retried with backoff; the next tick is the
// retry.
type Sweeper struct {
	store    Store
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time
	cancel   context.CancelFunc
	started  bool
	done     chan struct{}
}

// NewSweeper creates a sweeper over the given store. interval <= 0 falls
// back to DefaultSweepInterval.
func NewSweeper(store Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &Sweeper{
		store:    store,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in the background.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true

	go s.run(ctx)

	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	s.logger.Info("expiration sweeper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiration sweeper stopped")

			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one deactivation pass. Per-item failures are logged and do not
// abort the rest of the batch; the pass exits promptly on cancellation
// between items.
func (s *Sweeper) Sweep(ctx context.Context) {
	expired, err := s.store.ListExpiredActive(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to list expired links", zap.Error(err))

		return
	}

	if len(expired) == 0 {
		return
	}

	s.logger.Info("deactivating expired links", zap.Int("count", len(expired)))

	deactivated := 0

	for _, l := range expired {
		select {
		case <-ctx.Done():
			s.logger.Info("sweep interrupted",
				zap.Int("deactivated", deactivated),
				zap.Int("remaining", len(expired)-deactivated),
			)

			return
		default:
		}

		if err := s.store.Deactivate(ctx, l.Code); err != nil {
			s.logger.Warn("failed to deactivate expired link",
				zap.String("code", l.Code),
				zap.Error(err),
			)

			continue
		}

		deactivated++
	}

	s.logger.Info("sweep complete", zap.Int("deactivated", deactivated))
}

// Shutdown stops the loop and waits for the in-flight pass to yield. It is
// a no-op when the loop was never started.
func (s *Sweeper) Shutdown() error {
	if !s.started {
		return nil
	}

	s.cancel()
	<-s.done

	return nil
}
