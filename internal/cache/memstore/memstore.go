// Package memstore implements the response cache in process memory, for
// deployments without Redis.
package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ekomapa/geolayers/internal/cache"
	"github.com/ekomapa/geolayers/internal/core/observability"
)

type Store struct {
	lru *expirable.LRU[string, []byte]
}

var _ cache.Store = (*Store)(nil)

// New builds an expiring LRU of size entries. The TTL is fixed per store;
// per-call TTLs passed to Set are ignored.
func New(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = 64
	}
	return &Store{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	val, ok := s.lru.Get(key)
	observability.ObserveCacheOp("get", nil, time.Since(start).Seconds())
	if !ok {
		return nil, false, nil
	}
	return val, true, nil
}

func (s *Store) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
	start := time.Now()
	s.lru.Add(key, val)
	observability.ObserveCacheOp("set", nil, time.Since(start).Seconds())
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	start := time.Now()
	for _, k := range keys {
		s.lru.Remove(k)
	}
	observability.ObserveCacheOp("del", nil, time.Since(start).Seconds())
	return nil
}

// DelPrefix removes every key under prefix, for layer invalidation.
func (s *Store) DelPrefix(_ context.Context, prefix string) (int, error) {
	deleted := 0
	for _, k := range s.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.lru.Remove(k)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) Close() error { return nil }
