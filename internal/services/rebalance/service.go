// Package rebalance analyzes allocation drift between a current and a
// target portfolio.
package rebalance

import (
	"math"
	"sort"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Priority thresholds on maximum relative drift.
const (
	highPriorityDrift   = 0.10
	mediumPriorityDrift = 0.07
)

// Review intervals in days.
const (
	reviewSoon    = 30
	reviewRoutine = 90
)

// Service implements interfaces.RebalanceService.
type Service struct {
	config *common.Config
	logger *common.Logger
}

var _ interfaces.RebalanceService = (*Service)(nil)

// NewService creates the rebalancing analyzer.
func NewService(config *common.Config, logger *common.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// CheckRebalancing compares current to target allocation per asset and
// emits actions where relative drift exceeds the threshold. threshold <= 0
// selects the configured default. Pure: no state is read or written.
func (s *Service) CheckRebalancing(current, target models.AssetAllocation, threshold float64) *models.RebalancingAnalysis {
	if threshold <= 0 {
		threshold = s.config.Advisory.RebalanceThreshold
	}

	assets := make([]string, 0, len(target))
	for asset := range target {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	var actions []models.RebalancingAction
	var maxDrift float64
	for _, asset := range assets {
		tgt := target[asset]
		cur := current[asset]

		drift := math.Abs(cur - tgt)
		var driftPct float64
		if tgt != 0 {
			driftPct = drift / tgt
		}
		if driftPct <= threshold {
			continue
		}

		// Priority and review horizon consider actioned drifts only.
		if driftPct > maxDrift {
			maxDrift = driftPct
		}

		direction := models.RebalanceIncrease
		if cur > tgt {
			direction = models.RebalanceDecrease
		}
		actions = append(actions, models.RebalancingAction{
			Asset:        asset,
			Action:       direction,
			Current:      round3(cur),
			Target:       round3(tgt),
			DriftPct:     round3(driftPct),
			AmountChange: round3(drift),
		})
	}

	analysis := &models.RebalancingAnalysis{
		Needed:         len(actions) > 0,
		MaxDriftPct:    round3(maxDrift),
		Threshold:      threshold,
		Actions:        actions,
		Priority:       priorityFor(maxDrift),
		NextReviewDays: reviewRoutine,
	}
	if analysis.Needed {
		analysis.NextReviewDays = reviewSoon
	}

	s.logger.Debug().
		Bool("needed", analysis.Needed).
		Float64("max_drift_pct", analysis.MaxDriftPct).
		Int("actions", len(actions)).
		Msg("Rebalancing check complete")

	return analysis
}

func priorityFor(maxDrift float64) string {
	switch {
	case maxDrift > highPriorityDrift:
		return "high"
	case maxDrift > mediumPriorityDrift:
		return "medium"
	default:
		return "low"
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
