package yields

import (
	"fmt"
	"time"
)

// Provider identifies one upstream yield source on Sui. The set is closed:
// dispatch sites (deep links, project mapping) switch exhaustively over it and
// anything unrecognized maps to ProviderOther.
type Provider string

const (
	ProviderSuilend   Provider = "suilend"
	ProviderNavi      Provider = "navi"
	ProviderScallop   Provider = "scallop"
	ProviderCetus     Provider = "cetus"
	ProviderTurbos    Provider = "turbos"
	ProviderBluefin   Provider = "bluefin"
	ProviderFlowX     Provider = "flowx"
	ProviderKriya     Provider = "kriya"
	ProviderAftermath Provider = "aftermath"
	ProviderHaedal    Provider = "haedal"
	ProviderSpringSui Provider = "springsui"
	ProviderVolo      Provider = "volo"
	ProviderBucket    Provider = "bucket"
	ProviderKai       Provider = "kai"
	ProviderDeepBook  Provider = "deepbook"
	ProviderMomentum  Provider = "momentum"
	ProviderFullSail  Provider = "fullsail"
	ProviderOther     Provider = "other"
)

// Providers lists every known provider in a stable order.
var Providers = []Provider{
	ProviderSuilend, ProviderNavi, ProviderScallop, ProviderCetus,
	ProviderTurbos, ProviderBluefin, ProviderFlowX, ProviderKriya,
	ProviderAftermath, ProviderHaedal, ProviderSpringSui, ProviderVolo,
	ProviderBucket, ProviderKai, ProviderDeepBook, ProviderMomentum,
	ProviderFullSail, ProviderOther,
}

// DisplayName returns the human-facing protocol name.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderSuilend:
		return "Suilend"
	case ProviderNavi:
		return "NAVI Protocol"
	case ProviderScallop:
		return "Scallop"
	case ProviderCetus:
		return "Cetus"
	case ProviderTurbos:
		return "Turbos"
	case ProviderBluefin:
		return "Bluefin"
	case ProviderFlowX:
		return "FlowX"
	case ProviderKriya:
		return "Kriya"
	case ProviderAftermath:
		return "Aftermath"
	case ProviderHaedal:
		return "Haedal"
	case ProviderSpringSui:
		return "SpringSui"
	case ProviderVolo:
		return "Volo"
	case ProviderBucket:
		return "Bucket Protocol"
	case ProviderKai:
		return "Kai Finance"
	case ProviderDeepBook:
		return "DeepBook"
	case ProviderMomentum:
		return "Momentum"
	case ProviderFullSail:
		return "Full Sail"
	default:
		return "Other"
	}
}

// Homepage returns the provider's landing page, or "" when unknown.
func (p Provider) Homepage() string {
	switch p {
	case ProviderSuilend:
		return "https://suilend.fi"
	case ProviderNavi:
		return "https://app.naviprotocol.io"
	case ProviderScallop:
		return "https://app.scallop.io"
	case ProviderCetus:
		return "https://app.cetus.zone"
	case ProviderTurbos:
		return "https://app.turbos.finance"
	case ProviderBluefin:
		return "https://trade.bluefin.io"
	case ProviderFlowX:
		return "https://flowx.finance"
	case ProviderKriya:
		return "https://app.kriya.finance"
	case ProviderAftermath:
		return "https://aftermath.finance"
	case ProviderHaedal:
		return "https://haedal.xyz"
	case ProviderSpringSui:
		return "https://www.springsui.com"
	case ProviderVolo:
		return "https://volo.fi"
	case ProviderBucket:
		return "https://app.bucketprotocol.io"
	case ProviderKai:
		return "https://kai.finance"
	case ProviderDeepBook:
		return "https://deepbook.tech"
	case ProviderMomentum:
		return "https://app.mmt.finance"
	case ProviderFullSail:
		return "https://fullsail.finance"
	default:
		return ""
	}
}

// Kind classifies what a yield position is.
type Kind string

const (
	KindLending Kind = "lending"
	KindLP      Kind = "lp"
	KindLST     Kind = "lst"
	KindStaking Kind = "staking"
	KindVault   Kind = "vault"
	KindFarm    Kind = "farm"
)

// ILRisk is the tri-state impermanent-loss flag carried by pooled records.
type ILRisk string

const (
	ILRiskYes     ILRisk = "yes"
	ILRiskNo      ILRisk = "no"
	ILRiskUnknown ILRisk = "unknown"
)

// Record is the canonical yield entry produced by adapters and the fallback
// index. Records are value types: built once per aggregation run and never
// mutated afterwards.
type Record struct {
	ID           string   `json:"id"`
	Provider     Provider `json:"provider"`
	ProviderName string   `json:"providerName"`

	// Asset is the opaque on-chain identifier (a Sui coin type for single
	// assets, a "typeA/typeB" pair for pools). Symbol is always populated.
	Asset  string `json:"asset"`
	Symbol string `json:"assetSymbol"`
	Kind   Kind   `json:"kind"`

	// APY figures are percentages (5.5 means 5.5%). APY == 0 doubles as
	// "unknown"; the presentation layer treats it that way, so zero records
	// are kept rather than dropped.
	APY       float64 `json:"apy"`
	APYBase   float64 `json:"apyBase,omitempty"`
	APYReward float64 `json:"apyReward,omitempty"`

	// TVLUSD is nil when no oracle exists for the asset class (e.g. an LST
	// with no TVL feed) rather than zero.
	TVLUSD     *float64 `json:"tvlUsd,omitempty"`
	TVLDisplay string   `json:"tvlDisplay,omitempty"`

	Stablecoin bool   `json:"isStablecoin"`
	ILRisk     ILRisk `json:"ilRisk"`

	PoolAddress      string   `json:"poolAddress,omitempty"`
	PoolID           string   `json:"poolId,omitempty"`
	UnderlyingAssets []string `json:"underlyingTokens,omitempty"`
	RewardTokens     []string `json:"rewardTokens,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
	URL         string    `json:"url,omitempty"`
}

// TVL returns the record's TVL in USD, or 0 when absent.
func (r *Record) TVL() float64 {
	if r.TVLUSD == nil {
		return 0
	}
	return *r.TVLUSD
}

// HasTVL reports whether a TVL figure is present.
func (r *Record) HasTVL() bool {
	return r.TVLUSD != nil && *r.TVLUSD > 0
}

// Severity tags a FetchError at the point of creation so downstream display
// does not have to guess from message text.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// FetchError describes one problem encountered while producing a result.
// ProviderLabel is free text and may name infrastructure ("Native") rather
// than a protocol when the failure is not protocol-specific.
type FetchError struct {
	ProviderLabel string    `json:"provider"`
	Source        string    `json:"source"`
	Message       string    `json:"message"`
	Severity      Severity  `json:"severity,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewFetchError builds a severity-tagged FetchError stamped with the current time.
func NewFetchError(label, source, message string, severity Severity) FetchError {
	return FetchError{
		ProviderLabel: label,
		Source:        source,
		Message:       message,
		Severity:      severity,
		Timestamp:     time.Now(),
	}
}

// Result is the output of one aggregation run: records sorted by descending
// APY plus every error accumulated along the way.
type Result struct {
	Records     []Record     `json:"records"`
	Errors      []FetchError `json:"errors"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// FetchResult is what one adapter returns from a single Fetch call.
type FetchResult struct {
	Records []Record     `json:"records"`
	Errors  []FetchError `json:"errors"`
}

// FormatTVL renders a USD amount for display: 12.34B / 12.34M / 12.34K.
func FormatTVL(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%.2fK", value/1_000)
	default:
		return fmt.Sprintf("%.2f", value)
	}
}
