// Package reccache caches recommendation results in a key-value store.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/moviematch/internal/db"
	"github.com/kailas-cloud/moviematch/internal/domain"
	"github.com/kailas-cloud/moviematch/internal/domain/fuzzy"
	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
)

// DefaultKeyPrefix namespaces cache keys.
const DefaultKeyPrefix = "moviematch:rec:"

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Config controls key layout and expiry.
type Config struct {
	KeyPrefix string
	TTL       time.Duration
}

// CachedRecommender caches successful query results per catalog fingerprint.
// Errors are never cached; a cache failure falls through to the inner recommender.
type CachedRecommender struct {
	inner      domain.Recommender
	store      store
	cfg        Config
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// Compile-time check: CachedRecommender is a drop-in domain.Recommender.
var _ domain.Recommender = (*CachedRecommender)(nil)

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner domain.Recommender,
	s store,
	cfg Config,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		cfg:        cfg,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ByTitle returns a cached title result or delegates to the inner recommender.
func (c *CachedRecommender) ByTitle(ctx context.Context, title string, topN int) (recommendation.Result, error) {
	return c.cached(ctx, recommendation.ModeTitle, title, fuzzy.Default(title), topN, func() (recommendation.Result, error) {
		return c.inner.ByTitle(ctx, title, topN)
	})
}

// ByKeywords returns a cached keyword result or delegates to the inner recommender.
func (c *CachedRecommender) ByKeywords(ctx context.Context, text string, topN int) (recommendation.Result, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	return c.cached(ctx, recommendation.ModeKeywords, text, normalized, topN, func() (recommendation.Result, error) {
		return c.inner.ByKeywords(ctx, text, topN)
	})
}

// Fingerprint delegates to the inner recommender.
func (c *CachedRecommender) Fingerprint() string { return c.inner.Fingerprint() }

func (c *CachedRecommender) cached(
	ctx context.Context,
	mode recommendation.Mode,
	query, normalized string,
	topN int,
	load func() (recommendation.Result, error),
) (recommendation.Result, error) {
	fp := c.inner.Fingerprint()
	if fp == "" {
		// Not fitted: nothing meaningful to key on.
		return load()
	}
	key := c.cacheKey(fp, mode, normalized, topN)

	if res, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		// Entries are shared by every spelling that normalizes the same way.
		res.Query = query
		return res, nil
	}
	c.incCache("miss")

	res, err := load()
	if err != nil {
		return recommendation.Result{}, fmt.Errorf("%s query: %w", mode, err)
	}
	// A refit during load means res may belong to another catalog.
	if now := c.inner.Fingerprint(); now != fp {
		c.logger.Debug("Catalog changed during query, not caching",
			zap.String("key", key), zap.String("fingerprint", now))
		return res, nil
	}
	c.putToCache(ctx, key, res)
	return res, nil
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey = prefix + fingerprint + mode + topN + sha256(normalized query).
func (c *CachedRecommender) cacheKey(fp string, mode recommendation.Mode, normalized string, topN int) string {
	h := sha256.Sum256([]byte(normalized))
	return c.cfg.KeyPrefix + fp[:min(16, len(fp))] + ":" + string(mode) + ":" +
		strconv.Itoa(topN) + ":" + hex.EncodeToString(h[:16])
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) (recommendation.Result, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.incCache("error")
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return recommendation.Result{}, false
	}
	if len(data) == 0 {
		return recommendation.Result{}, false
	}

	var res recommendation.Result
	if err := json.Unmarshal(data, &res); err != nil {
		c.logger.Warn("Failed to parse cached recommendations, evicting", zap.String("key", key), zap.Error(err))
		if err := c.store.Del(ctx, key); err != nil {
			c.incCache("error")
			c.logger.Warn("Failed to evict cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return recommendation.Result{}, false
	}
	if res.Items == nil {
		res.Items = []recommendation.Item{}
	}
	return res, true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, res recommendation.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.cfg.TTL); err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}
