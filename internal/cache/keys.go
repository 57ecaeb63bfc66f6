package cache

import (
	"strings"
	"time"

	"yieldscan-api/internal/config"
)

// Namespace is the Redis key prefix for the yieldscan application.
const Namespace = "yieldscan"

// TTLClass represents a config-driven TTL bucket.
type TTLClass string

const (
	TTLShort  TTLClass = "short"
	TTLMedium TTLClass = "medium"
	TTLLong   TTLClass = "long"
)

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet struct {
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg config.CacheTTL) TTLSet {
	return TTLSet{
		Short:  durationOrDefault(cfg.Short, 30*time.Second),
		Medium: durationOrDefault(cfg.Medium, 90*time.Second),
		Long:   durationOrDefault(cfg.Long, 5*time.Minute),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	switch class {
	case TTLShort:
		return t.Short
	case TTLMedium:
		return t.Medium
	case TTLLong:
		return t.Long
	default:
		return 0
	}
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

// ResultKey holds the latest full aggregation result snapshot.
func ResultKey() string {
	return formatKey("result", "latest")
}

// ProviderResultKey holds the latest single-provider fetch snapshot.
func ProviderResultKey(provider string) string {
	return formatKey("result", "provider", provider)
}

// RefreshLockKey is a short-lived lock so only one refresh runs at a time.
func RefreshLockKey() string {
	return formatKey("lock", "refresh")
}

// AvailabilityKey caches the advisory adapter availability map.
func AvailabilityKey() string {
	return formatKey("availability")
}

// ResultTTL returns the TTL for the aggregation snapshot. The snapshot
// outlives the refresh interval so readers never see a gap between runs.
func ResultTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLMedium)
}

// ProviderResultTTL returns the TTL for single-provider snapshots.
func ProviderResultTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// RefreshLockTTL bounds how long a crashed refresher can hold the lock.
func RefreshLockTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLShort)
}

// AvailabilityTTL returns the TTL for the availability map.
func AvailabilityTTL(ttl TTLSet) time.Duration {
	return ttl.Duration(TTLLong)
}
