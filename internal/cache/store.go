package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeromicro/go-zero/core/stores/redis"

	"yieldscan-api/pkg/yields"
)

// Store keeps the latest aggregation snapshots in Redis so the API can serve
// reads without blocking on a live pipeline run. A nil Redis client degrades
// to a no-op store, which keeps single-process setups working.
type Store struct {
	rds *redis.Redis
	ttl TTLSet
}

// NewStore builds a snapshot store. rds may be nil.
func NewStore(rds *redis.Redis, ttl TTLSet) *Store {
	return &Store{rds: rds, ttl: ttl}
}

// SaveResult stores the latest full aggregation result.
func (s *Store) SaveResult(ctx context.Context, result *yields.Result) error {
	if s.rds == nil || result == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: encode result: %w", err)
	}
	ttlSeconds := int(ResultTTL(s.ttl).Seconds())
	if err := s.rds.SetexCtx(ctx, ResultKey(), string(payload), ttlSeconds); err != nil {
		return fmt.Errorf("cache: store result: %w", err)
	}
	return nil
}

// LatestResult returns the cached aggregation result, or (nil, nil) on a miss.
func (s *Store) LatestResult(ctx context.Context) (*yields.Result, error) {
	if s.rds == nil {
		return nil, nil
	}
	payload, err := s.rds.GetCtx(ctx, ResultKey())
	if err != nil {
		return nil, fmt.Errorf("cache: read result: %w", err)
	}
	if payload == "" {
		return nil, nil
	}
	var result yields.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("cache: decode result: %w", err)
	}
	return &result, nil
}

// SaveProviderResult stores the latest single-provider fetch snapshot.
func (s *Store) SaveProviderResult(ctx context.Context, provider string, result *yields.FetchResult) error {
	if s.rds == nil || result == nil {
		return nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: encode provider result: %w", err)
	}
	ttlSeconds := int(ProviderResultTTL(s.ttl).Seconds())
	if err := s.rds.SetexCtx(ctx, ProviderResultKey(provider), string(payload), ttlSeconds); err != nil {
		return fmt.Errorf("cache: store provider result: %w", err)
	}
	return nil
}

// LatestProviderResult returns the cached single-provider snapshot, or
// (nil, nil) on a miss.
func (s *Store) LatestProviderResult(ctx context.Context, provider string) (*yields.FetchResult, error) {
	if s.rds == nil {
		return nil, nil
	}
	payload, err := s.rds.GetCtx(ctx, ProviderResultKey(provider))
	if err != nil {
		return nil, fmt.Errorf("cache: read provider result: %w", err)
	}
	if payload == "" {
		return nil, nil
	}
	var result yields.FetchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("cache: decode provider result: %w", err)
	}
	return &result, nil
}

// SaveAvailability stores the advisory adapter availability map.
func (s *Store) SaveAvailability(ctx context.Context, availability map[string]bool) error {
	if s.rds == nil || len(availability) == 0 {
		return nil
	}
	payload, err := json.Marshal(availability)
	if err != nil {
		return fmt.Errorf("cache: encode availability: %w", err)
	}
	ttlSeconds := int(AvailabilityTTL(s.ttl).Seconds())
	if err := s.rds.SetexCtx(ctx, AvailabilityKey(), string(payload), ttlSeconds); err != nil {
		return fmt.Errorf("cache: store availability: %w", err)
	}
	return nil
}

// TryRefreshLock acquires the refresh lock; it returns false when another
// refresher holds it.
func (s *Store) TryRefreshLock(ctx context.Context) (bool, error) {
	if s.rds == nil {
		return true, nil
	}
	ttlSeconds := int(RefreshLockTTL(s.ttl).Seconds())
	ok, err := s.rds.SetnxExCtx(ctx, RefreshLockKey(), "1", ttlSeconds)
	if err != nil {
		return false, fmt.Errorf("cache: acquire refresh lock: %w", err)
	}
	return ok, nil
}

// ReleaseRefreshLock drops the refresh lock early.
func (s *Store) ReleaseRefreshLock(ctx context.Context) {
	if s.rds == nil {
		return
	}
	_, _ = s.rds.DelCtx(ctx, RefreshLockKey())
}
