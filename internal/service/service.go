// Package service coordinates layer queries, translation, and the response cache.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ekomapa/geolayers/internal/cache"
	"github.com/ekomapa/geolayers/internal/cache/keys"
	"github.com/ekomapa/geolayers/internal/core/observability"
	"github.com/ekomapa/geolayers/internal/geojson"
	"github.com/ekomapa/geolayers/internal/layers"
	"github.com/ekomapa/geolayers/internal/query"
)

// Prefixer is implemented by cache stores that can drop a whole layer.
type Prefixer interface {
	DelPrefix(ctx context.Context, prefix string) (int, error)
}

type Service struct {
	exec      query.Interface
	store     cache.Store // nil disables caching
	ttl       time.Duration
	opTimeout time.Duration
	logger    *slog.Logger
}

func New(exec query.Interface, store cache.Store, ttl, opTimeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		exec:      exec,
		store:     store,
		ttl:       ttl,
		opTimeout: opTimeout,
		logger:    logger,
	}
}

// LayerCollection returns the serialized FeatureCollection for a layer,
// consulting the cache first. Cache failures degrade to a direct query.
func (s *Service) LayerCollection(ctx context.Context, layer layers.Layer) ([]byte, error) {
	key := keys.Key(layer.Slug, layer.SQL)

	if s.store != nil {
		opCtx, cancel := s.opContext(ctx)
		body, hit, err := s.store.Get(opCtx, key)
		cancel()
		switch {
		case err != nil:
			s.logger.Warn("cache get failed, querying directly", "layer", layer.Slug, "err", err)
		case hit:
			observability.IncCacheHit()
			return body, nil
		default:
			observability.IncCacheMiss()
		}
	}

	start := time.Now()
	rows, err := s.exec.Execute(ctx, layer.SQL)
	observability.ObserveQuery(layer.Slug, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	fc, err := geojson.Translate(rows)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(fc)
	if err != nil {
		return nil, fmt.Errorf("marshal feature collection: %w", err)
	}

	if s.store != nil {
		opCtx, cancel := s.opContext(ctx)
		if err := s.store.Set(opCtx, key, body, s.ttl); err != nil {
			s.logger.Warn("cache set failed", "layer", layer.Slug, "err", err)
		}
		cancel()
	}

	s.logger.Debug("layer served from database",
		"layer", layer.Slug, "rows", len(rows), "features", len(fc.Features))
	return body, nil
}

// Invalidate drops every cached response for the layer slug.
func (s *Service) Invalidate(ctx context.Context, layerSlug string) (int, error) {
	p, ok := s.store.(Prefixer)
	if !ok {
		return 0, nil
	}
	opCtx, cancel := s.opContext(ctx)
	defer cancel()
	n, err := p.DelPrefix(opCtx, keys.LayerPrefix(layerSlug))
	if err != nil {
		return n, fmt.Errorf("invalidate layer %q: %w", layerSlug, err)
	}
	return n, nil
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opTimeout)
}
