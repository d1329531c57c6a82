// Package cache implements a fail-open, Redis-backed key-value store with
// per-key TTLs and pattern-based eviction over an enumerated key registry.
// Cache unavailability must never fail a calling operation: every error here
// is logged and swallowed, and callers fall through to the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when Set is called with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

// Pattern is the set of concrete keys and key prefixes swept when a logical
// invalidation event fires. Prefixes are matched with a bounded SCAN; this is
// not a wildcard engine — only registered prefixes are ever swept.
type Pattern struct {
	Keys     []string
	Prefixes []string
}

// Store is a process-wide shared cache. A Store with a nil client is valid
// and treats every read as a miss and every write as a no-op.
type Store struct {
	rdb *redis.Client
	log *slog.Logger

	mu       sync.RWMutex
	patterns map[string]Pattern
}

func NewStore(rdb *redis.Client, log *slog.Logger) *Store {
	return &Store{rdb: rdb, log: log, patterns: map[string]Pattern{}}
}

// RegisterPattern binds a logical pattern name to the keys and prefixes it
// clears. Callers register the keys they want swept; RemoveByPattern only
// recognizes names registered here.
func (s *Store) RegisterPattern(name string, keys, prefixes []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[name] = Pattern{Keys: keys, Prefixes: prefixes}
}

// Get unmarshals the cached value into dest and reports whether it was found.
// Expired or missing entries, transport failures and decode failures are all
// reported as misses.
func (s *Store) Get(ctx context.Context, key string, dest any) bool {
	if s.rdb == nil {
		return false
	}
	val, err := s.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		s.log.Debug("cache miss", "key", key)
		return false
	}
	if err != nil {
		s.log.Error("cache get failed", "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		s.log.Error("cache decode failed", "key", key, "err", err)
		return false
	}
	s.log.Debug("cache hit", "key", key)
	return true
}

// Set stores value under key with an absolute expiry of now+ttl (DefaultTTL
// when ttl <= 0). Entries are written whole; there is no partial update.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.rdb == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	payload, err := json.Marshal(value)
	if err != nil {
		s.log.Error("cache encode failed", "key", key, "err", err)
		return
	}
	if err := s.rdb.SetEx(ctx, key, payload, ttl).Err(); err != nil {
		s.log.Error("cache set failed", "key", key, "err", err)
	}
}

// Remove deletes the given keys.
func (s *Store) Remove(ctx context.Context, keys ...string) {
	if s.rdb == nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Error("cache remove failed", "keys", keys, "err", err)
	}
}

// RemoveByPattern clears every registered pattern whose name appears in the
// given pattern string, matching by substring. Unknown patterns are ignored
// with a log line. Clearing is coarse: all keys and all entries under the
// registered prefixes go, not just the affected ones.
func (s *Store) RemoveByPattern(ctx context.Context, pattern string) {
	if s.rdb == nil {
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := false
	for name, p := range s.patterns {
		if !strings.Contains(pattern, name) {
			continue
		}
		matched = true
		s.Remove(ctx, p.Keys...)
		for _, prefix := range p.Prefixes {
			s.removePrefix(ctx, prefix)
		}
		s.log.Info("cache pattern removed", "pattern", name)
	}
	if !matched {
		s.log.Warn("cache pattern unknown", "pattern", pattern)
	}
}

// removePrefix sweeps every key under a registered prefix via SCAN.
func (s *Store) removePrefix(ctx context.Context, prefix string) {
	iter := s.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		s.log.Error("cache prefix scan failed", "prefix", prefix, "err", err)
	}
	s.Remove(ctx, keys...)
}
