// Package health computes the composite financial health score.
package health

import (
	"fmt"
	"math"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Factor names and maximum points. The four factors total 100.
const (
	FactorSavingsRate     = "savings_rate"
	FactorDiversification = "diversification"
	FactorEmergencyFund   = "emergency_fund"
	FactorAgeAllocation   = "age_allocation"

	maxSavingsRate     = 30.0
	maxDiversification = 20.0
	maxEmergencyFund   = 25.0
	maxAgeAllocation   = 25.0
)

// Grade boundaries on the total score.
const (
	gradeA = 80.0
	gradeB = 60.0
	gradeC = 40.0
)

// Service implements interfaces.HealthService.
type Service struct {
	logger *common.Logger
}

var _ interfaces.HealthService = (*Service)(nil)

// NewService creates the health scorer.
func NewService(logger *common.Logger) *Service {
	return &Service{logger: logger}
}

// Score rates the profile's financial health across savings rate,
// diversification, emergency readiness, and age-appropriate allocation.
func (s *Service) Score(profile *models.UserProfile, expenses []models.Expense) *models.HealthScore {
	factors := map[string]models.HealthFactor{
		FactorSavingsRate:     s.savingsRateFactor(profile),
		FactorDiversification: s.diversificationFactor(profile),
		FactorEmergencyFund:   s.emergencyFundFactor(profile),
		FactorAgeAllocation:   s.ageAllocationFactor(profile),
	}

	var total float64
	for _, factor := range factors {
		total += factor.Score
	}
	total = math.Min(100, total)

	score := &models.HealthScore{
		Total:           total,
		Grade:           gradeFor(total),
		Factors:         factors,
		Recommendations: recommendations(factors),
	}

	s.logger.Debug().Float64("total", total).Str("grade", score.Grade).Msg("Health score computed")
	return score
}

func (s *Service) savingsRateFactor(profile *models.UserProfile) models.HealthFactor {
	rate := profile.SavingsRate()

	var score float64
	switch {
	case rate >= 0.3:
		score = 30
	case rate >= 0.2:
		score = 25
	case rate >= 0.1:
		score = 15
	default:
		score = 5
	}
	return models.HealthFactor{
		Score:  score,
		Max:    maxSavingsRate,
		Detail: fmt.Sprintf("%.1f%%", rate*100),
	}
}

func (s *Service) diversificationFactor(profile *models.UserProfile) models.HealthFactor {
	return models.HealthFactor{
		Score:  math.Min(maxDiversification, float64(profile.RiskTolerance)*4),
		Max:    maxDiversification,
		Detail: fmt.Sprintf("risk tolerance %d/5", profile.RiskTolerance),
	}
}

// emergencyFundFactor is a binary adequacy check: savings above half a
// year's income counts as six months of expenses covered.
func (s *Service) emergencyFundFactor(profile *models.UserProfile) models.HealthFactor {
	if profile.Savings > profile.Income/2 {
		return models.HealthFactor{Score: 25, Max: maxEmergencyFund, Detail: "adequate"}
	}
	return models.HealthFactor{Score: 10, Max: maxEmergencyFund, Detail: "insufficient"}
}

// ageAllocationFactor peaks at age 35 and degrades linearly either side.
func (s *Service) ageAllocationFactor(profile *models.UserProfile) models.HealthFactor {
	score := math.Min(25, math.Max(5, 25-math.Abs(float64(profile.Age)-35)/2))

	detail := "good"
	if score <= 20 {
		detail = "needs_review"
	}
	return models.HealthFactor{Score: score, Max: maxAgeAllocation, Detail: detail}
}

func gradeFor(total float64) string {
	switch {
	case total >= gradeA:
		return "A"
	case total >= gradeB:
		return "B"
	case total >= gradeC:
		return "C"
	default:
		return "D"
	}
}

func recommendations(factors map[string]models.HealthFactor) []string {
	var recs []string
	if factors[FactorSavingsRate].Score < 20 {
		recs = append(recs, "Increase savings rate to at least 20% of income")
	}
	if factors[FactorEmergencyFund].Score < 20 {
		recs = append(recs, "Build emergency fund covering 6 months of expenses")
	}
	if factors[FactorDiversification].Score < 15 {
		recs = append(recs, "Diversify investments across asset classes")
	}
	if factors[FactorAgeAllocation].Score < 20 {
		recs = append(recs, "Review asset allocation for age-appropriate risk")
	}
	return recs
}
