// Package analytics connects the click event stream to the lifecycle
// service: resolutions publish to TopicLinkClicked, and the handler here
// replays the events into click recording.
package analytics

import (
	"context"

	"github.com/tatavachnadze/URL-Shortener/internal/link"
	"github.com/tatavachnadze/URL-Shortener/internal/messaging"
	"go.uber.org/zap"
)

// TopicLinkClicked carries one message per resolved short link.
const TopicLinkClicked = "link.clicked"

// ClickRecorder persists a dispatched click event.
type ClickRecorder interface {
	RecordClickEvent(ctx context.Context, event *link.ClickEvent) error
}

// NewClickHandler returns a consumer handler that records dispatched clicks.
// Recording is best effort end to end: an error here Nacks the message for
// redelivery but never reaches the resolve path that produced it.
func NewClickHandler(recorder ClickRecorder, logger *zap.Logger) messaging.Handler[link.ClickEvent] {
	return func(ctx context.Context, event *link.ClickEvent) error {
		if err := recorder.RecordClickEvent(ctx, event); err != nil {
			return err
		}

		logger.Debug("recorded click",
			zap.String("code", event.Code),
			zap.Time("clickedAt", event.ClickTimestamp),
		)

		return nil
	}
}
