package yields

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"yieldscan-api/pkg/yields/token"
)

const defaultAdapterTimeout = 15 * time.Second

// FallbackSource supplies aggregator-indexed records used to fill the gaps
// native adapters leave. Like Adapter.Fetch it reports problems as data.
type FallbackSource interface {
	Fetch(ctx context.Context) ([]Record, []FetchError)
}

// FallbackFunc adapts a plain function to FallbackSource.
type FallbackFunc func(ctx context.Context) ([]Record, []FetchError)

// Fetch implements FallbackSource.
func (f FallbackFunc) Fetch(ctx context.Context) ([]Record, []FetchError) {
	return f(ctx)
}

// Engine runs the full aggregation pipeline: fan out to every native
// adapter and the fallback index concurrently, merge with native priority,
// dedupe, backfill deep links, and sort by descending APY.
type Engine struct {
	adapters       []Adapter
	fallback       FallbackSource
	adapterTimeout time.Duration
	logger         logx.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithFallback sets the aggregator-index source.
func WithFallback(source FallbackSource) EngineOption {
	return func(e *Engine) { e.fallback = source }
}

// WithAdapterTimeout overrides the per-adapter deadline.
func WithAdapterTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		if timeout > 0 {
			e.adapterTimeout = timeout
		}
	}
}

// WithLogger injects the engine's logger.
func WithLogger(logger logx.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// NewEngine builds an Engine over a fixed adapter list. The list order is
// the merge priority order.
func NewEngine(adapters []Adapter, opts ...EngineOption) *Engine {
	engine := &Engine{
		adapters:       adapters,
		adapterTimeout: defaultAdapterTimeout,
		logger:         logx.WithContext(context.Background()),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Adapters returns the engine's adapter list in priority order.
func (e *Engine) Adapters() []Adapter { return e.adapters }

// Aggregate runs one full pipeline pass. It never fails outright: adapter
// and fallback problems surface in Result.Errors, and a run where every
// source failed still yields an empty, well-formed Result.
func (e *Engine) Aggregate(ctx context.Context) *Result {
	started := time.Now()

	type fallbackOut struct {
		records []Record
		errors  []FetchError
	}
	fallbackCh := make(chan fallbackOut, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				fallbackCh <- fallbackOut{errors: []FetchError{NewFetchError(
					"DefiLlama", "fallback", fmt.Sprintf("Failed to fetch: panic: %v", r), SeverityCritical)}}
			}
		}()
		if e.fallback == nil {
			fallbackCh <- fallbackOut{}
			return
		}
		records, errs := e.fallback.Fetch(ctx)
		fallbackCh <- fallbackOut{records: records, errors: errs}
	}()

	native := e.fetchNative(ctx)
	fallback := <-fallbackCh

	result := &Result{LastUpdated: time.Now()}
	for _, fr := range native {
		result.Errors = append(result.Errors, fr.Errors...)
	}
	result.Errors = append(result.Errors, fallback.errors...)

	result.Records = e.merge(native, fallback.records)
	backfillLinks(result.Records)
	sortRecords(result.Records)

	e.logger.Infow("aggregation run complete",
		logx.Field("records", len(result.Records)),
		logx.Field("errors", len(result.Errors)),
		logx.Field("duration", time.Since(started).String()),
	)
	return result
}

// FetchOne runs a single named adapter, applying the same deadline and
// panic isolation as a full run. A provider without a native adapter is
// served from the fallback index filtered to that provider; it returns
// false only when neither source knows the provider.
func (e *Engine) FetchOne(ctx context.Context, provider Provider) (FetchResult, bool) {
	for _, adapter := range e.adapters {
		if adapter.Provider() == provider {
			return e.fetchAdapter(ctx, adapter), true
		}
	}
	if e.fallback == nil {
		return FetchResult{}, false
	}
	records, errs := e.fallback.Fetch(ctx)
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Provider == provider {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return FetchResult{Errors: errs}, false
	}
	return FetchResult{Records: matched, Errors: errs}, true
}

// fetchNative fans out to every adapter and collects results indexed by
// adapter position, so downstream merging sees registration order no matter
// which goroutine finished first.
func (e *Engine) fetchNative(ctx context.Context) []FetchResult {
	results := make([]FetchResult, len(e.adapters))
	done := make(chan int, len(e.adapters))
	for i, adapter := range e.adapters {
		go func(i int, adapter Adapter) {
			results[i] = e.fetchAdapter(ctx, adapter)
			done <- i
		}(i, adapter)
	}
	for range e.adapters {
		<-done
	}
	return results
}

func (e *Engine) fetchAdapter(ctx context.Context, adapter Adapter) FetchResult {
	fetchCtx, cancel := context.WithTimeout(ctx, e.adapterTimeout)
	defer cancel()

	ch := make(chan FetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Errorw("adapter panicked",
					logx.Field("adapter", adapter.Name()),
					logx.Field("panic", fmt.Sprint(r)),
				)
				ch <- FetchResult{Errors: []FetchError{NewFetchError(
					adapter.Name(), "native", fmt.Sprintf("Failed to fetch: panic: %v", r), SeverityCritical)}}
			}
		}()
		ch <- adapter.Fetch(fetchCtx)
	}()

	select {
	case result := <-ch:
		return result
	case <-fetchCtx.Done():
		e.logger.Errorw("adapter timed out", logx.Field("adapter", adapter.Name()))
		return FetchResult{Errors: []FetchError{NewFetchError(
			adapter.Name(), "native", "Timeout", SeverityCritical)}}
	}
}

// mergeKey identifies a position for dedup purposes: same provider, same
// normalized symbol, case-insensitively. Pair separators are canonicalized
// so a native "SUI-USDC" and an index row spelled "SUI/USDC" share a key.
func mergeKey(r *Record) string {
	return string(r.Provider) + "|" + strings.ToLower(canonicalSymbol(r.Symbol))
}

func canonicalSymbol(symbol string) string {
	if pair := token.SplitPair(symbol); pair != nil {
		return pair.First + "-" + pair.Second
	}
	return token.Normalize(symbol)
}

// merge combines native results (in adapter priority order) with fallback
// records. Native records always win their key; within a source, the better
// populated record wins (TVL presence first, then higher APY).
func (e *Engine) merge(native []FetchResult, fallback []Record) []Record {
	merged := make([]Record, 0, len(fallback))
	index := make(map[string]int)

	add := func(r Record) {
		key := mergeKey(&r)
		if at, ok := index[key]; ok {
			if betterRecord(&r, &merged[at]) {
				merged[at] = r
			}
			return
		}
		index[key] = len(merged)
		merged = append(merged, r)
	}

	for _, fr := range native {
		for _, r := range fr.Records {
			add(r)
		}
	}

	// Native keys win unconditionally; fallback records only compete among
	// themselves, with the same tie-break, for keys no adapter produced.
	nativeKeys := make(map[string]bool, len(index))
	for key := range index {
		nativeKeys[key] = true
	}
	for _, r := range fallback {
		if nativeKeys[mergeKey(&r)] {
			continue
		}
		add(r)
	}
	return merged
}

// betterRecord reports whether candidate should replace current within the
// same source tier: prefer a populated TVL, then the higher APY.
func betterRecord(candidate, current *Record) bool {
	if candidate.HasTVL() != current.HasTVL() {
		return candidate.HasTVL()
	}
	return candidate.APY > current.APY
}

// backfillLinks fills empty URLs from the deep-link table via LinkResolver.
func backfillLinks(records []Record) {
	for i := range records {
		if records[i].URL != "" {
			continue
		}
		records[i].URL = resolveLink(&records[i])
	}
}

// LinkResolver computes a deep link for a record. Set by the deeplink
// package at init time; split out to keep the dependency one-directional.
var LinkResolver func(r *Record) string

func resolveLink(r *Record) string {
	if LinkResolver != nil {
		if url := LinkResolver(r); url != "" {
			return url
		}
	}
	return r.Provider.Homepage()
}

// sortRecords orders by descending APY. The sort is stable so equal-APY
// records keep merge order, which is itself deterministic.
func sortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].APY > records[j].APY
	})
}
