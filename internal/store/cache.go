package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/verte-zerg/phonicpal/internal/media"
)

// DefaultCacheBytes is the image cache quota when none is configured.
const DefaultCacheBytes = 64 << 20

// ImageCache is a byte-quota key-value table implementing media.Cache.
type ImageCache struct {
	db       *sql.DB
	maxBytes int64
}

// ImageCache returns the cache view of the store. maxBytes <= 0 selects the
// default quota.
func (s *Store) ImageCache(maxBytes int64) *ImageCache {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	return &ImageCache{db: s.db, maxBytes: maxBytes}
}

// Get implements media.Cache.
func (c *ImageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM image_cache WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set implements media.Cache. Writes that would exceed the quota fail with
// media.ErrCacheFull.
func (c *ImageCache) Set(ctx context.Context, key string, value []byte) (err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var used int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size), 0) FROM image_cache WHERE key <> ?`, key).Scan(&used); err != nil {
		return err
	}
	if used+int64(len(value)) > c.maxBytes {
		return media.ErrCacheFull
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO image_cache (key, value, size, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, size = excluded.size, updated_at = excluded.updated_at`,
		key, value, len(value), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}
	return tx.Commit()
}

// EvictPrefix implements media.Cache.
func (c *ImageCache) EvictPrefix(ctx context.Context, prefix string) (int, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM image_cache WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Usage returns the number of entries and stored bytes under prefix.
func (c *ImageCache) Usage(ctx context.Context, prefix string) (entries int, bytes int64, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM image_cache WHERE substr(key, 1, ?) = ?`,
		len(prefix), prefix).Scan(&entries, &bytes)
	return entries, bytes, err
}

var _ media.Cache = (*ImageCache)(nil)
