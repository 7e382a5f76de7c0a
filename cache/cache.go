// Package cache keeps raw API responses in a local SQLite file so that
// repeated queries within the expiry window never hit the network.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const initSQL = `
	PRAGMA journal_mode = WAL;
	PRAGMA synchronous = NORMAL;
	PRAGMA temp_store = MEMORY;
	PRAGMA busy_timeout = 5000;
	PRAGMA trusted_schema = OFF;
`

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS http_cache (
		key        TEXT PRIMARY KEY,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
`

type Cache struct {
	logger      *slog.Logger
	db          *sql.DB
	expireAfter time.Duration
	now         func() time.Time
}

// New opens (and if needed creates) the cache database at path. Entries
// older than expireAfter are treated as misses; a zero or negative
// expireAfter keeps entries forever.
func New(ctx context.Context, path string, expireAfter time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error when opening cache database: %w", err)
	}
	db.SetMaxOpenConns(1) // single connection, no concurrent writers
	db.SetConnMaxIdleTime(time.Minute)

	if _, err := db.ExecContext(ctx, initSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error when preparing cache database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error when creating cache table: %w", err)
	}

	return &Cache{
		logger:      slog.Default().With(slog.String("module", "cache")),
		db:          db,
		expireAfter: expireAfter,
		now:         time.Now,
	}, nil
}

func (c *Cache) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

func (c *Cache) Close() {
	c.db.Close()
}

// Get returns the cached body for key, or a miss when absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var body []byte
	var fetchedAt int64
	err := c.db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM http_cache WHERE key = ?`, key).
		Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", slog.Any("error", err))
		return nil, false
	}

	if c.expireAfter > 0 && c.now().Unix()-fetchedAt >= int64(c.expireAfter.Seconds()) {
		return nil, false
	}

	return body, true
}

// Put stores body under key, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, key string, body []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO http_cache (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, c.now().Unix())
	if err != nil {
		return fmt.Errorf("error when writing cache entry: %w", err)
	}
	return nil
}

// Purge deletes every expired entry and reports how many were removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	if c.expireAfter <= 0 {
		return 0, nil
	}

	cutoff := c.now().Add(-c.expireAfter).Unix()
	res, err := c.db.ExecContext(ctx, `DELETE FROM http_cache WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error when purging cache: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		c.logger.Warn("can't get rows affected by purge", slog.Any("error", err))
		return 0, nil
	}

	return rows, nil
}
