package persona

import (
	"context"
	"fmt"
	"math"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Service implements interfaces.PersonaService.
type Service struct {
	config *common.Config
	logger *common.Logger
}

var _ interfaces.PersonaService = (*Service)(nil)

// NewService creates the persona classification service.
func NewService(config *common.Config, logger *common.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

// ClassifyAndAllocate assigns a persona and computes the risk-adjusted
// allocation. Invalid input falls back to the safe default balanced
// allocation with Defaulted set; the call never fails the request.
func (s *Service) ClassifyAndAllocate(_ context.Context, profile *models.UserProfile) *models.PersonaResult {
	if err := profile.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("Invalid profile, returning default balanced allocation")
		return s.defaultResult(fmt.Sprintf("Default balanced allocation: %s", err))
	}

	p := classify(profile)

	// Rule-of-110 glidepath.
	glidepath := clamp(0.15, 0.85, float64(110-profile.Age)/100)

	riskFactor := float64(profile.RiskTolerance) / 5.0

	incomeFactor := 1.0
	switch {
	case profile.Income > 2_500_000:
		incomeFactor = 1.1
	case profile.Income < 500_000:
		incomeFactor = 0.9
	}

	dependentsFactor := math.Max(0.8, 1-float64(profile.Dependents)*0.05)

	equity := glidepath * p.RiskMultiplier * riskFactor * incomeFactor * dependentsFactor
	equity = clamp(0.10, 0.85, equity)

	allocation := buildAllocation(equity, p.RiskMultiplier)
	metrics := computeMetrics(allocation, s.config.Advisory.RiskFreeRate)

	result := &models.PersonaResult{
		Persona:         p,
		Allocation:      allocation,
		Metrics:         metrics,
		GlidepathEquity: round3(glidepath),
		EquityFraction:  round3(equity),
		RiskFactors: models.RiskFactors{
			AgeFactor:        float64(110-profile.Age) / 100,
			RiskFactor:       riskFactor,
			IncomeFactor:     incomeFactor,
			DependentsFactor: dependentsFactor,
		},
		Reasoning: fmt.Sprintf("Age %d, Risk %d/5, Income ₹%.0f", profile.Age, profile.RiskTolerance, profile.Income),
	}

	s.logger.Debug().
		Str("persona", p.Name).
		Float64("equity", result.EquityFraction).
		Msg("Profile classified")

	return result
}

// buildAllocation splits the equity fraction into sub-buckets by risk tier
// and distributes the remainder across debt, gold, and cash.
func buildAllocation(equity, riskMult float64) models.AssetAllocation {
	remaining := 1 - equity

	var largeCap, midSmall, intl float64
	switch {
	case riskMult > 1.1: // aggressive
		largeCap, midSmall, intl = equity*0.50, equity*0.35, equity*0.15
	case riskMult < 0.8: // conservative
		largeCap, midSmall, intl = equity*0.65, equity*0.20, equity*0.15
	default: // balanced
		largeCap, midSmall, intl = equity*0.55, equity*0.30, equity*0.15
	}

	govt := remaining * 0.60
	corp := remaining * 0.25
	gold := math.Min(0.10, math.Max(0.05, remaining*0.15))
	cash := math.Max(0.02, remaining-govt-corp-gold)

	allocation := models.AssetAllocation{
		models.AssetLargeCapEquity:      largeCap,
		models.AssetMidSmallCapEquity:   midSmall,
		models.AssetInternationalEquity: intl,
		models.AssetGovernmentBonds:     govt,
		models.AssetCorporateBonds:      corp,
		models.AssetGold:                gold,
		models.AssetCashEquivalents:     cash,
	}
	allocation.Round(3)
	allocation.Normalize(0.001)
	allocation.Round(3)
	return allocation
}

// defaultResult is the safe fallback: equity 60 / debt 30 / gold 8 / cash 2.
func (s *Service) defaultResult(reasoning string) *models.PersonaResult {
	allocation := models.DefaultBalancedAllocation()
	return &models.PersonaResult{
		Persona:         Personas[2],
		Allocation:      allocation,
		Metrics:         computeMetrics(allocation, s.config.Advisory.RiskFreeRate),
		GlidepathEquity: 0.60,
		EquityFraction:  0.60,
		Reasoning:       reasoning,
		Defaulted:       true,
	}
}

func clamp(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
