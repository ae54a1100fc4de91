package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/models"
)

func newTestService() *Service {
	return NewService(common.NewSilentLogger())
}

func TestScoreStrongProfile(t *testing.T) {
	svc := newTestService()

	// 35-year-old saving 30%+ with high diversification and a funded
	// emergency buffer hits every factor's maximum.
	profile := &models.UserProfile{
		Age:           35,
		Income:        1_000_000,
		Savings:       600_000,
		RiskTolerance: 5,
	}

	score := svc.Score(profile, nil)
	require.NotNil(t, score)

	assert.Equal(t, 100.0, score.Total)
	assert.Equal(t, "A", score.Grade)
	assert.Empty(t, score.Recommendations)

	assert.Equal(t, 30.0, score.Factors[FactorSavingsRate].Score)
	assert.Equal(t, 20.0, score.Factors[FactorDiversification].Score)
	assert.Equal(t, 25.0, score.Factors[FactorEmergencyFund].Score)
	assert.Equal(t, 25.0, score.Factors[FactorAgeAllocation].Score)
}

func TestScoreWeakProfile(t *testing.T) {
	svc := newTestService()

	profile := &models.UserProfile{
		Age:           70,
		Income:        1_000_000,
		Savings:       50_000, // 5% savings rate, no emergency buffer
		RiskTolerance: 1,
	}

	score := svc.Score(profile, nil)

	// 5 + 4 + 10 + max(5, 25-17.5)=7.5 => 26.5
	assert.InDelta(t, 26.5, score.Total, 0.001)
	assert.Equal(t, "D", score.Grade)
	assert.Len(t, score.Recommendations, 4)
}

func TestSavingsRateTiers(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		savings  float64
		expected float64
	}{
		{300_000, 30},
		{299_999, 25},
		{200_000, 25},
		{199_999, 15},
		{100_000, 15},
		{99_999, 5},
		{0, 5},
	}

	for _, tt := range tests {
		profile := &models.UserProfile{Age: 35, Income: 1_000_000, Savings: tt.savings, RiskTolerance: 3}
		factor := svc.savingsRateFactor(profile)
		assert.Equal(t, tt.expected, factor.Score, "savings %.0f", tt.savings)
	}
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		total    float64
		expected string
	}{
		{100, "A"},
		{80, "A"},
		{79.9, "B"},
		{60, "B"},
		{59.9, "C"},
		{40, "C"},
		{39.9, "D"},
		{0, "D"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, gradeFor(tt.total), "total %.1f", tt.total)
	}
}

func TestEmergencyFundBinary(t *testing.T) {
	svc := newTestService()

	funded := svc.emergencyFundFactor(&models.UserProfile{Income: 1_000_000, Savings: 500_001})
	assert.Equal(t, 25.0, funded.Score)
	assert.Equal(t, "adequate", funded.Detail)

	// Exactly half a year's income does not qualify.
	short := svc.emergencyFundFactor(&models.UserProfile{Income: 1_000_000, Savings: 500_000})
	assert.Equal(t, 10.0, short.Score)
	assert.Equal(t, "insufficient", short.Detail)
}

func TestAgeAllocationPeaksAt35(t *testing.T) {
	svc := newTestService()

	peak := svc.ageAllocationFactor(&models.UserProfile{Age: 35})
	assert.Equal(t, 25.0, peak.Score)

	older := svc.ageAllocationFactor(&models.UserProfile{Age: 55})
	assert.Equal(t, 15.0, older.Score)

	floor := svc.ageAllocationFactor(&models.UserProfile{Age: 90})
	assert.Equal(t, 5.0, floor.Score)
}
