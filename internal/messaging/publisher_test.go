package messaging_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tatavachnadze/URL-Shortener/internal/link"
	"github.com/tatavachnadze/URL-Shortener/internal/messaging"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes click event as JSON", func(t *testing.T) {
		mock := &mockPublisher{}
		publish := messaging.NewPublishFunc[link.ClickEvent](mock, "link.clicked")

		event := link.NewClickEvent("8M0kX", "curl/8.0", "203.0.113.9",
			time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

		err := publish(event)

		require.NoError(t, err)
		assert.Equal(t, "link.clicked", mock.topic)
		require.Len(t, mock.messages, 1)
		assert.Contains(t, string(mock.messages[0].Payload), `"code":"8M0kX"`)
		assert.Contains(t, string(mock.messages[0].Payload), `"ipAddress":"203.0.113.9"`)
	})

	t.Run("returns error when publish fails", func(t *testing.T) {
		mock := &mockPublisher{publishErr: errors.New("publish error")}
		publish := messaging.NewPublishFunc[link.ClickEvent](mock, "link.clicked")

		err := publish(link.NewClickEvent("8M0kX", "", "", time.Now()))

		assert.Error(t, err)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("returns underlying publisher", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		assert.Equal(t, mock, group.Publisher())
	})

	t.Run("shuts down successfully", func(t *testing.T) {
		mock := &mockPublisher{}
		group := messaging.NewPublisherGroup(mock)

		require.NoError(t, group.Shutdown())
	})

	t.Run("returns error when close fails", func(t *testing.T) {
		mock := &mockPublisher{closeErr: errors.New("close error")}
		group := messaging.NewPublisherGroup(mock)

		assert.Error(t, group.Shutdown())
	})
}
