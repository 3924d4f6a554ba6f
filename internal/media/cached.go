package media

import (
	"context"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMemoryEntries = 64
	fetchTimeout         = 2 * time.Minute
)

// CachedService decorates a Service with a two-level illustration cache.
type CachedService struct {
	Service
	cache  Cache
	memory *lru.Cache[string, []byte]
	group  singleflight.Group
	logger *slog.Logger
}

type cachedConfig struct {
	memoryEntries int
	logger        *slog.Logger
}

// CacheOption configures NewCachedService.
type CacheOption func(*cachedConfig)

// WithMemoryEntries sets the size of the in-process LRU layer.
func WithMemoryEntries(n int) CacheOption {
	return func(c *cachedConfig) {
		c.memoryEntries = n
	}
}

// WithLogger sets the logger for cache failures.
func WithLogger(l *slog.Logger) CacheOption {
	return func(c *cachedConfig) {
		c.logger = l
	}
}

// NewCachedService wraps svc. cache may be nil, leaving only the memory layer.
func NewCachedService(svc Service, cache Cache, opts ...CacheOption) (*CachedService, error) {
	cfg := cachedConfig{memoryEntries: defaultMemoryEntries, logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.memoryEntries <= 0 {
		cfg.memoryEntries = defaultMemoryEntries
	}
	mem, err := lru.New[string, []byte](cfg.memoryEntries)
	if err != nil {
		return nil, err
	}
	return &CachedService{Service: svc, cache: cache, memory: mem, logger: cfg.logger}, nil
}

// Illustrate returns a cached illustration or fetches and stores a new one.
func (s *CachedService) Illustrate(ctx context.Context, word, definition string) ([]byte, error) {
	key := CacheKey(word)
	if img, ok := s.memory.Get(key); ok {
		return img, nil
	}
	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.fetch(fetchCtx, key, word, definition)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CachedService) fetch(ctx context.Context, key, word, definition string) ([]byte, error) {
	if img, ok := s.load(ctx, key); ok {
		s.memory.Add(key, img)
		return img, nil
	}
	img, err := s.Service.Illustrate(ctx, word, definition)
	if err != nil {
		return nil, err
	}
	s.memory.Add(key, img)
	s.store(ctx, key, img)
	return img, nil
}

func (s *CachedService) load(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	img, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("image cache read failed", "key", key, "err", err)
		return nil, false
	}
	return img, ok && len(img) > 0
}

// store writes through to the persistent cache. On a full cache every
// illustration is evicted and the write is retried once.
func (s *CachedService) store(ctx context.Context, key string, img []byte) {
	if s.cache == nil {
		return
	}
	err := s.cache.Set(ctx, key, img)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrCacheFull) {
		s.logger.Warn("image cache write failed", "key", key, "err", err)
		return
	}
	n, evictErr := s.cache.EvictPrefix(ctx, KeyPrefix)
	if evictErr != nil {
		s.logger.Warn("image cache eviction failed", "err", evictErr)
		return
	}
	s.logger.Info("image cache evicted", "entries", n)
	if err := s.cache.Set(ctx, key, img); err != nil {
		s.logger.Warn("image cache write failed after eviction", "key", key, "err", err)
	}
}

// Purge empties the memory layer and evicts every persisted illustration.
func (s *CachedService) Purge(ctx context.Context) (int, error) {
	s.memory.Purge()
	if s.cache == nil {
		return 0, nil
	}
	return s.cache.EvictPrefix(ctx, KeyPrefix)
}

var _ Service = (*CachedService)(nil)
