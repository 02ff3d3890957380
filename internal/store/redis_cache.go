package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tatavachnadze/URL-Shortener/internal/link"
)

// RedisCacheStore decorates a link.Store with Redis caching of reads by
// code. Writes that change a row invalidate or refresh its cache entry.
// Click counter increments pass through uncached: the counter is an
// approximate metric and the TTL bounds its staleness.
type RedisCacheStore struct {
	store  link.Store
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheStore wraps a store with a Redis read cache.
func NewRedisCacheStore(store link.Store, client *redis.Client, ttl time.Duration) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

func (r *RedisCacheStore) Get(ctx context.Context, code string) (*link.ShortLink, error) {
	if l, err := r.fromCache(ctx, code); err == nil {
		return l, nil
	}

	l, err := r.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, l)

	return l, nil
}

func (r *RedisCacheStore) Create(ctx context.Context, l *link.ShortLink) error {
	if err := r.store.Create(ctx, l); err != nil {
		return err
	}

	// Write-through after a successful insert.
	r.cache(ctx, l)

	return nil
}

func (r *RedisCacheStore) Update(ctx context.Context, code string, fields link.UpdateFields) error {
	if err := r.store.Update(ctx, code, fields); err != nil {
		return err
	}

	r.invalidate(ctx, code)

	return nil
}

func (r *RedisCacheStore) Delete(ctx context.Context, code string) error {
	if err := r.store.Delete(ctx, code); err != nil {
		return err
	}

	r.invalidate(ctx, code)

	return nil
}

func (r *RedisCacheStore) Exists(ctx context.Context, code string) (bool, error) {
	// The cache can prove presence but not absence.
	n, err := r.client.Exists(ctx, r.prefix+code).Result()
	if err == nil && n > 0 {
		return true, nil
	}

	return r.store.Exists(ctx, code)
}

func (r *RedisCacheStore) IncrementClickCount(ctx context.Context, code string) error {
	return r.store.IncrementClickCount(ctx, code)
}

func (r *RedisCacheStore) AppendClickEvent(ctx context.Context, event *link.ClickEvent) error {
	return r.store.AppendClickEvent(ctx, event)
}

func (r *RedisCacheStore) ListRecentClicks(ctx context.Context, code string, limit int) ([]link.ClickEvent, error) {
	return r.store.ListRecentClicks(ctx, code, limit)
}

func (r *RedisCacheStore) ListExpiredActive(ctx context.Context, now time.Time) ([]link.ShortLink, error) {
	return r.store.ListExpiredActive(ctx, now)
}

func (r *RedisCacheStore) Deactivate(ctx context.Context, code string) error {
	if err := r.store.Deactivate(ctx, code); err != nil {
		return err
	}

	// Resolution must see the deactivation immediately.
	r.invalidate(ctx, code)

	return nil
}

func (r *RedisCacheStore) fromCache(ctx context.Context, code string) (*link.ShortLink, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, link.ErrNotFound
	}

	l := &link.ShortLink{
		Code:      fields["code"],
		TargetURL: fields["target_url"],
		Active:    fields["active"] == "1",
		Aliased:   fields["aliased"] == "1",
	}

	if nanos, err := strconv.ParseInt(fields["created_at"], 10, 64); err == nil {
		l.CreatedAt = time.Unix(0, nanos).UTC()
	}

	if v := fields["expires_at"]; v != "" {
		if nanos, err := strconv.ParseInt(v, 10, 64); err == nil {
			expiresAt := time.Unix(0, nanos).UTC()
			l.ExpiresAt = &expiresAt
		}
	}

	if count, err := strconv.ParseInt(fields["click_count"], 10, 64); err == nil {
		l.ClickCount = count
	}

	return l, nil
}

func (r *RedisCacheStore) cache(ctx context.Context, l *link.ShortLink) {
	expiresAt := ""
	if l.ExpiresAt != nil {
		expiresAt = strconv.FormatInt(l.ExpiresAt.UnixNano(), 10)
	}

	key := r.prefix + l.Code

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"code":        l.Code,
		"target_url":  l.TargetURL,
		"created_at":  l.CreatedAt.UnixNano(),
		"expires_at":  expiresAt,
		"active":      boolField(l.Active),
		"aliased":     boolField(l.Aliased),
		"click_count": l.ClickCount,
	})

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	// Cache population is best effort.
	_, _ = pipe.Exec(ctx)
}

func (r *RedisCacheStore) invalidate(ctx context.Context, code string) {
	_ = r.client.Del(ctx, r.prefix+code).Err()
}

func boolField(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

// Compile-time check.
var _ link.Store = (*RedisCacheStore)(nil)
