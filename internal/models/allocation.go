package models

import "math"

// Asset class names form a fixed vocabulary shared by the allocator,
// the rebalancing analyzer, and the metrics table.
const (
	AssetLargeCapEquity      = "large_cap_equity"
	AssetMidSmallCapEquity   = "mid_small_cap_equity"
	AssetInternationalEquity = "international_equity"
	AssetGovernmentBonds     = "government_bonds"
	AssetCorporateBonds      = "corporate_bonds"
	AssetGold                = "gold"
	AssetCashEquivalents     = "cash_equivalents"
)

// AssetClasses lists the fixed vocabulary in canonical order.
var AssetClasses = []string{
	AssetLargeCapEquity,
	AssetMidSmallCapEquity,
	AssetInternationalEquity,
	AssetGovernmentBonds,
	AssetCorporateBonds,
	AssetGold,
	AssetCashEquivalents,
}

// AssetAllocation maps asset-class name to a fraction in [0, 1].
// Fractions are expected to sum to 1.0 within tolerance; use Normalize
// to repair drift.
type AssetAllocation map[string]float64

// Sum returns the total of all fractions.
func (a AssetAllocation) Sum() float64 {
	var total float64
	for _, v := range a {
		total += v
	}
	return total
}

// Normalize divides every fraction by the total when the sum drifts more
// than tol from 1.0. A zero-sum allocation is left untouched.
func (a AssetAllocation) Normalize(tol float64) {
	total := a.Sum()
	if total == 0 || math.Abs(total-1.0) <= tol {
		return
	}
	for k, v := range a {
		a[k] = v / total
	}
}

// Round rounds every fraction to the given number of decimal places.
func (a AssetAllocation) Round(places int) {
	pow := math.Pow(10, float64(places))
	for k, v := range a {
		a[k] = math.Round(v*pow) / pow
	}
}

// Clone returns an independent copy of the allocation.
func (a AssetAllocation) Clone() AssetAllocation {
	out := make(AssetAllocation, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// DefaultBalancedAllocation is the safe fallback used when classification
// or allocation fails: equity 60 / debt 30 / gold 8 / cash 2, expressed in
// the detailed asset vocabulary.
func DefaultBalancedAllocation() AssetAllocation {
	return AssetAllocation{
		AssetLargeCapEquity:      0.35,
		AssetMidSmallCapEquity:   0.15,
		AssetInternationalEquity: 0.10,
		AssetGovernmentBonds:     0.20,
		AssetCorporateBonds:      0.10,
		AssetGold:                0.08,
		AssetCashEquivalents:     0.02,
	}
}

// PortfolioMetrics is a derived read-only record computed from an
// AssetAllocation and the static per-asset return/risk table.
type PortfolioMetrics struct {
	ExpectedReturn float64 `json:"expected_return"`
	PortfolioRisk  float64 `json:"portfolio_risk"`
	RiskScore      float64 `json:"risk_score"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
}

// RebalanceDirection is the adjustment direction for a drifted asset.
type RebalanceDirection string

const (
	RebalanceIncrease RebalanceDirection = "increase"
	RebalanceDecrease RebalanceDirection = "decrease"
)

// RebalancingAction describes the adjustment required for one asset.
// AmountChange is the absolute allocation fraction to move; Action carries
// the direction.
type RebalancingAction struct {
	Asset        string             `json:"asset"`
	Action       RebalanceDirection `json:"action"`
	Current      float64            `json:"current"`
	Target       float64            `json:"target"`
	DriftPct     float64            `json:"drift_pct"`
	AmountChange float64            `json:"amount_change"`
}

// RebalancingAnalysis is the result of a drift check.
type RebalancingAnalysis struct {
	Needed         bool                `json:"rebalancing_needed"`
	MaxDriftPct    float64             `json:"max_drift_pct"`
	Threshold      float64             `json:"threshold_used"`
	Actions        []RebalancingAction `json:"actions_required"`
	Priority       string              `json:"priority"`
	NextReviewDays int                 `json:"next_review_days"`
}
