// Package interfaces defines service contracts for Creda
package interfaces

import (
	"context"

	"github.com/credalabs/creda/internal/models"
)

// PersonaService classifies profiles and computes risk-adjusted allocations.
type PersonaService interface {
	// ClassifyAndAllocate assigns a persona and computes the target
	// allocation with portfolio metrics. The call is total: invalid input
	// or a computation failure yields the safe default balanced allocation
	// with Defaulted set, never an error for the request as a whole.
	ClassifyAndAllocate(ctx context.Context, profile *models.UserProfile) *models.PersonaResult

	// RenderAllocationChart renders the allocation as a PNG bar chart.
	RenderAllocationChart(result *models.PersonaResult) ([]byte, error)
}

// RebalanceService analyzes allocation drift.
type RebalanceService interface {
	// CheckRebalancing compares current to target allocation and produces
	// drift-based actions. threshold <= 0 selects the configured default.
	CheckRebalancing(current, target models.AssetAllocation, threshold float64) *models.RebalancingAnalysis
}

// BudgetService maintains the adaptive budget optimizer.
type BudgetService interface {
	// OptimizeBudget produces a needs/wants/savings allocation for the
	// given income, optionally updating bandit state from feedback and
	// adjusting for historical spending patterns.
	OptimizeBudget(ctx context.Context, income float64, expenses []models.Expense, feedback *models.BudgetFeedback) (*models.BudgetPlan, error)

	// AnalyzeSpending summarizes historical expenses into bucket fractions
	// and pattern flags.
	AnalyzeSpending(expenses []models.Expense) *models.SpendingAnalysis

	// DetectAnomalies flags months where category spending exceeded the
	// historical mean by more than two standard deviations.
	DetectAnomalies(expenses []models.Expense) []models.SpendingAnomaly
}

// RAGService answers queries over the knowledge base.
type RAGService interface {
	// Answer runs the retrieval pipeline for a query. nResults <= 0 and
	// threshold <= 0 select configured defaults. The call never returns an
	// error for retrieval or synthesis failures; those degrade to a
	// low-confidence answer. An error is returned only for invalid call
	// contracts (e.g. negative nResults).
	Answer(ctx context.Context, query string, nResults int, threshold float64) (*models.RAGAnswer, error)
}

// HealthService computes the composite financial health score.
type HealthService interface {
	Score(profile *models.UserProfile, expenses []models.Expense) *models.HealthScore
}

// AdvisorService dispatches advisory requests by intent.
type AdvisorService interface {
	Process(ctx context.Context, req *models.AdvisoryRequest) (*models.AdvisoryResponse, error)
}
