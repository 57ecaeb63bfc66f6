package yields

import "context"

// Adapter is a native integration with one upstream provider.
//
// Fetch never returns a Go error: every failure an adapter encounters is
// caught internally and reported as FetchError entries alongside whatever
// records it did manage to produce. Adapters own their records end to end and
// must label them with their own Provider; the engine rejects nothing but
// relies on that contract for the merge rule.
type Adapter interface {
	// Provider returns the canonical identity records from this adapter carry.
	Provider() Provider
	// Name returns the human-facing label used in FetchError entries.
	Name() string
	// Fetch retrieves and normalizes this provider's yield data. The context
	// carries the engine's per-adapter deadline; adapters apply shorter
	// per-endpoint timeouts of their own inside it.
	Fetch(ctx context.Context) FetchResult
}

// HealthChecker is an optional advisory capability. Availability is
// best-effort diagnostics only and never gates whether Fetch is attempted.
type HealthChecker interface {
	Available(ctx context.Context) bool
}
