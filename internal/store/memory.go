package store

import (
	"context"
	"sync"
	"time"

	"github.com/tatavachnadze/URL-Shortener/internal/link"
)

// MemoryStore is an in-memory implementation of link.Store for tests and
// local development. Counters are kept apart from link rows, mirroring the
// production layout where the click counter lives in its own table.
type MemoryStore struct {
	mu       sync.RWMutex
	links    map[string]link.ShortLink
	counters map[string]int64
	clicks   map[string][]link.ClickEvent
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links:    make(map[string]link.ShortLink),
		counters: make(map[string]int64),
		clicks:   make(map[string][]link.ClickEvent),
	}
}

func (m *MemoryStore) Get(_ context.Context, code string) (*link.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.links[code]
	if !ok {
		return nil, link.ErrNotFound
	}

	l.ClickCount = m.counters[code]

	return &l, nil
}

func (m *MemoryStore) Create(_ context.Context, l *link.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[l.Code]; ok {
		return link.ErrCodeExists
	}

	m.links[l.Code] = *l

	return nil
}

func (m *MemoryStore) Update(_ context.Context, code string, fields link.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[code]
	if !ok {
		return link.ErrNotFound
	}

	if fields.TargetURL != nil {
		l.TargetURL = *fields.TargetURL
	}

	if fields.ExpiresAt != nil {
		expiresAt := *fields.ExpiresAt
		l.ExpiresAt = &expiresAt
	}

	m.links[code] = l

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.links[code]; !ok {
		return link.ErrNotFound
	}

	delete(m.links, code)
	delete(m.counters, code)
	delete(m.clicks, code)

	return nil
}

func (m *MemoryStore) Exists(_ context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.links[code]

	return ok, nil
}

func (m *MemoryStore) IncrementClickCount(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counters[code]++

	return nil
}

func (m *MemoryStore) AppendClickEvent(_ context.Context, event *link.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks[event.Code] = append(m.clicks[event.Code], *event)

	return nil
}

func (m *MemoryStore) ListRecentClicks(_ context.Context, code string, limit int) ([]link.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := m.clicks[code]

	// Stored oldest first; return newest first.
	n := len(events)
	if limit > 0 && limit < n {
		n = limit
	}

	recent := make([]link.ClickEvent, 0, n)
	for i := len(events) - 1; i >= 0 && len(recent) < n; i-- {
		recent = append(recent, events[i])
	}

	return recent, nil
}

func (m *MemoryStore) ListExpiredActive(_ context.Context, now time.Time) ([]link.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var expired []link.ShortLink

	for _, l := range m.links {
		if l.Active && l.Expired(now) {
			expired = append(expired, l)
		}
	}

	return expired, nil
}

func (m *MemoryStore) Deactivate(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.links[code]
	if !ok {
		return link.ErrNotFound
	}

	l.Active = false
	m.links[code] = l

	return nil
}

// Compile-time check.
var _ link.Store = (*MemoryStore)(nil)
