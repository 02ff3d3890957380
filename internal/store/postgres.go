// Package store provides link.Store implementations: a PostgreSQL store, a
// Redis read cache decorator, an in-memory store, and the rate limit
// counter backends.
//
// The PostgreSQL store expects this schema (provisioning is deployment
// concern, not handled here):
//
//	CREATE TABLE short_links (
//	    code       TEXT PRIMARY KEY,
//	    target_url TEXT NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    expires_at TIMESTAMPTZ,
//	    active     BOOLEAN NOT NULL DEFAULT TRUE,
//	    aliased    BOOLEAN NOT NULL DEFAULT FALSE
//	);
//
//	CREATE TABLE link_counters (
//	    code        TEXT PRIMARY KEY,
//	    click_count BIGINT NOT NULL DEFAULT 0
//	);
//
//	CREATE TABLE click_events (
//	    code            TEXT NOT NULL,
//	    click_date      DATE NOT NULL,
//	    click_timestamp TIMESTAMPTZ NOT NULL,
//	    user_agent      TEXT NOT NULL DEFAULT '',
//	    ip_address      TEXT NOT NULL DEFAULT ''
//	);
//	CREATE INDEX click_events_code_ts ON click_events (code, click_timestamp DESC);
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tatavachnadze/URL-Shortener/internal/link"
)

// PostgresStore is the durable link.Store. The click counter lives in its
// own table so its single-row increment never contends with link updates,
// and the event log is append-only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Get(ctx context.Context, code string) (*link.ShortLink, error) {
	query := `
		SELECT l.code, l.target_url, l.created_at, l.expires_at, l.active, l.aliased,
		       COALESCE(c.click_count, 0)
		FROM short_links l
		LEFT JOIN link_counters c ON c.code = l.code
		WHERE l.code = $1
	`

	var l link.ShortLink

	err := p.pool.QueryRow(ctx, query, code).Scan(
		&l.Code,
		&l.TargetURL,
		&l.CreatedAt,
		&l.ExpiresAt,
		&l.Active,
		&l.Aliased,
		&l.ClickCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return &l, nil
}

func (p *PostgresStore) Create(ctx context.Context, l *link.ShortLink) error {
	query := `
		INSERT INTO short_links (code, target_url, created_at, expires_at, active, aliased)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO NOTHING
	`

	tag, err := p.pool.Exec(ctx, query,
		l.Code,
		l.TargetURL,
		l.CreatedAt,
		l.ExpiresAt,
		l.Active,
		l.Aliased,
	)
	if err != nil {
		return err
	}

	// Zero rows means the conditional insert lost to an existing code.
	if tag.RowsAffected() == 0 {
		return link.ErrCodeExists
	}

	return nil
}

func (p *PostgresStore) Update(ctx context.Context, code string, fields link.UpdateFields) error {
	query := `
		UPDATE short_links
		SET target_url = COALESCE($1, target_url),
		    expires_at = COALESCE($2, expires_at)
		WHERE code = $3
	`

	tag, err := p.pool.Exec(ctx, query, fields.TargetURL, fields.ExpiresAt, code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, code string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_links WHERE code = $1`, code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	_, _ = p.pool.Exec(ctx, `DELETE FROM link_counters WHERE code = $1`, code)
	_, _ = p.pool.Exec(ctx, `DELETE FROM click_events WHERE code = $1`, code)

	return nil
}

func (p *PostgresStore) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool

	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_links WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (p *PostgresStore) IncrementClickCount(ctx context.Context, code string) error {
	query := `
		INSERT INTO link_counters (code, click_count)
		VALUES ($1, 1)
		ON CONFLICT (code) DO UPDATE
		SET click_count = link_counters.click_count + 1
	`

	_, err := p.pool.Exec(ctx, query, code)

	return err
}

func (p *PostgresStore) AppendClickEvent(ctx context.Context, event *link.ClickEvent) error {
	query := `
		INSERT INTO click_events (code, click_date, click_timestamp, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.ClickDate,
		event.ClickTimestamp,
		event.UserAgent,
		event.IPAddress,
	)

	return err
}

func (p *PostgresStore) ListRecentClicks(ctx context.Context, code string, limit int) ([]link.ClickEvent, error) {
	query := `
		SELECT code, click_date, click_timestamp, user_agent, ip_address
		FROM click_events
		WHERE code = $1
		ORDER BY click_timestamp DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, code, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []link.ClickEvent

	for rows.Next() {
		var e link.ClickEvent

		err := rows.Scan(&e.Code, &e.ClickDate, &e.ClickTimestamp, &e.UserAgent, &e.IPAddress)
		if err != nil {
			return nil, err
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

func (p *PostgresStore) ListExpiredActive(ctx context.Context, now time.Time) ([]link.ShortLink, error) {
	query := `
		SELECT code, target_url, created_at, expires_at, active, aliased
		FROM short_links
		WHERE active AND expires_at IS NOT NULL AND expires_at <= $1
	`

	rows, err := p.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []link.ShortLink

	for rows.Next() {
		var l link.ShortLink

		err := rows.Scan(&l.Code, &l.TargetURL, &l.CreatedAt, &l.ExpiresAt, &l.Active, &l.Aliased)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	return links, rows.Err()
}

func (p *PostgresStore) Deactivate(ctx context.Context, code string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE short_links SET active = FALSE WHERE code = $1`, code)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

// Compile-time check.
var _ link.Store = (*PostgresStore)(nil)
