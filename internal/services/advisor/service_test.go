package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/models"
)

type stubPersona struct{}

func (s *stubPersona) ClassifyAndAllocate(_ context.Context, _ *models.UserProfile) *models.PersonaResult {
	return &models.PersonaResult{
		Persona:    models.Persona{ID: 2, Name: "Mid-age Balanced"},
		Allocation: models.DefaultBalancedAllocation(),
	}
}

func (s *stubPersona) RenderAllocationChart(_ *models.PersonaResult) ([]byte, error) {
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

type stubBudget struct{}

func (s *stubBudget) OptimizeBudget(_ context.Context, income float64, _ []models.Expense, _ *models.BudgetFeedback) (*models.BudgetPlan, error) {
	return &models.BudgetPlan{
		Allocation: models.BudgetAllocation{
			models.BucketNeeds:   0.5,
			models.BucketWants:   0.3,
			models.BucketSavings: 0.2,
		},
		Confidence: 0.5,
	}, nil
}

func (s *stubBudget) AnalyzeSpending(_ []models.Expense) *models.SpendingAnalysis {
	return &models.SpendingAnalysis{}
}

func (s *stubBudget) DetectAnomalies(_ []models.Expense) []models.SpendingAnomaly {
	return nil
}

type stubRAG struct {
	lastQuery string
}

func (s *stubRAG) Answer(_ context.Context, query string, _ int, _ float64) (*models.RAGAnswer, error) {
	s.lastQuery = query
	return &models.RAGAnswer{
		Answer:     "Keep six months of expenses liquid.",
		Sources:    []string{"RBI Guidelines"},
		Confidence: 0.9,
	}, nil
}

func newTestService() (*Service, *stubRAG) {
	rag := &stubRAG{}
	svc := NewService(common.NewDefaultConfig(), &stubPersona{}, &stubBudget{}, rag, common.NewSilentLogger())
	return svc, rag
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{Age: 30, Income: 800_000, Savings: 200_000, RiskTolerance: 3}
}

func TestProcessNilRequest(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Process(context.Background(), nil)
	assert.Error(t, err)
}

func TestProcessExpenseLogging(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Text:     "spent on groceries",
		Intent:   models.IntentExpenseLogging,
		Entities: map[string]string{"amount": "₹2,500", "category": "Food & Dining"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, models.IntentExpenseLogging, resp.Intent)
	assert.Contains(t, resp.Response, "₹2500")
	assert.Contains(t, resp.Response, "Food & Dining")
	assert.Equal(t, []string{"RBI Guidelines"}, resp.Sources)

	expense, ok := resp.Data["expense_logged"].(models.Expense)
	require.True(t, ok)
	assert.Equal(t, 2500.0, expense.Amount)
}

func TestProcessPortfolioQuery(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Intent:  models.IntentPortfolioQuery,
		Profile: testProfile(),
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Response, "Mid-age Balanced")
	assert.Equal(t, 200_000.0, resp.Data["total_investable"])

	amounts, ok := resp.Data["allocation_amounts"].(map[string]float64)
	require.True(t, ok)
	assert.InDelta(t, 70_000, amounts[models.AssetLargeCapEquity], 1)
}

func TestProcessPortfolioQueryWithoutProfile(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Intent: models.IntentPortfolioQuery,
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Response, "I need your profile details")
}

func TestProcessGoalSetting(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Intent:   models.IntentGoalSetting,
		Entities: map[string]string{"amount": "600000", "time_period": "2 years"},
	})
	require.NoError(t, err)

	assert.Equal(t, 600_000.0, resp.Data["goal_amount"])
	assert.Equal(t, 25_000.0, resp.Data["monthly_saving_required"])
}

func TestProcessInsuranceQuery(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Intent:  models.IntentInsuranceQuery,
		Profile: testProfile(),
	})
	require.NoError(t, err)

	assert.Equal(t, 800_000.0*12, resp.Data["recommended_coverage"])
	assert.Equal(t, 12, resp.Data["coverage_multiple"])
}

func TestProcessFraudAlert(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name     string
		amount   string
		expected float64
	}{
		{"large amount", "50000", 0.7},
		{"small amount", "500", 0.3},
		{"missing amount", "", 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
				Intent:   models.IntentFraudAlert,
				Entities: map[string]string{"amount": tt.amount},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.Data["risk_score"])
			assert.NotEmpty(t, resp.Data["recommended_actions"])
		})
	}
}

func TestProcessUnknownIntentFallsBackToGeneral(t *testing.T) {
	svc, rag := newTestService()

	resp, err := svc.Process(context.Background(), &models.AdvisoryRequest{
		Text:   "what is an emergency fund",
		Intent: models.Intent("unknown_intent"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.IntentGeneral, resp.Intent)
	assert.Equal(t, "what is an emergency fund", rag.lastQuery)
	assert.Equal(t, "Keep six months of expenses liquid.", resp.Response)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw      string
		fallback float64
		expected float64
	}{
		{"₹1,50,000", 0, 150000},
		{"2500.50", 0, 2500.50},
		{"", 100, 100},
		{"abc", 100, 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseAmount(tt.raw, tt.fallback), tt.raw)
	}
}

func TestMonthsFromPeriod(t *testing.T) {
	assert.Equal(t, 12, monthsFromPeriod("1 year"))
	assert.Equal(t, 24, monthsFromPeriod("2 years"))
	assert.Equal(t, 12, monthsFromPeriod("soon"))
	assert.Equal(t, 12, monthsFromPeriod("next year"))
}
