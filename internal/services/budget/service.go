// Package budget implements the adaptive needs/wants/savings optimizer,
// an epsilon-greedy multi-armed bandit over the 50/30/20 rule.
package budget

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// banditStateKey identifies the persisted bandit instance. State is scoped
// per deployment: all users share one bandit.
const banditStateKey = "budget_bandit"

// Base 50/30/20 allocation before bandit adjustments.
var baseAllocation = models.BudgetAllocation{
	models.BucketNeeds:   0.50,
	models.BucketWants:   0.30,
	models.BucketSavings: 0.20,
}

// Income tier boundaries, annual INR.
const (
	highIncomeTier = 1_500_000
	lowIncomeTier  = 300_000
)

// Service implements interfaces.BudgetService. Bandit state is guarded by
// a mutex and persisted after every feedback update.
type Service struct {
	config *common.Config
	store  interfaces.BanditStorage
	logger *common.Logger

	mu    sync.Mutex
	state *models.BanditState
	rng   *rand.Rand
}

var _ interfaces.BudgetService = (*Service)(nil)

// NewService creates the budget optimizer, restoring persisted bandit
// state when available.
func NewService(config *common.Config, store interfaces.BanditStorage, logger *common.Logger) *Service {
	return NewServiceWithSource(config, store, logger, rand.NewSource(time.Now().UnixNano()))
}

// NewServiceWithSource creates the optimizer with an explicit random source
// for deterministic exploration.
func NewServiceWithSource(config *common.Config, store interfaces.BanditStorage, logger *common.Logger, src rand.Source) *Service {
	s := &Service{
		config: config,
		store:  store,
		logger: logger,
		rng:    rand.New(src),
	}

	state, err := store.GetState(context.Background(), banditStateKey)
	if err != nil || state == nil || len(state.Arms) == 0 {
		state = models.NewBanditState(banditStateKey)
		logger.Debug().Msg("Starting with fresh bandit state")
	} else {
		logger.Info().Int("feedback", state.TotalFeedback()).Msg("Restored bandit state")
	}
	s.state = state
	return s
}

// OptimizeBudget produces a needs/wants/savings plan for the given income.
// Feedback, when present, updates and persists the bandit state first.
// Non-positive income falls back to the plain 50/30/20 plan with Defaulted
// set; the call never fails the request for bad input.
func (s *Service) OptimizeBudget(ctx context.Context, income float64, expenses []models.Expense, feedback *models.BudgetFeedback) (*models.BudgetPlan, error) {
	if income <= 0 {
		s.logger.Warn().Float64("income", income).Msg("Non-positive income, returning default budget plan")
		return s.defaultPlan(income), nil
	}

	analysis := s.AnalyzeSpending(expenses)

	s.mu.Lock()
	defer s.mu.Unlock()

	if feedback != nil {
		s.recordFeedback(ctx, feedback)
	}

	allocation := s.adaptiveAllocation(income, analysis)

	amounts := make(map[string]float64, len(allocation))
	for bucket, pct := range allocation {
		amounts[bucket] = math.Round(pct * income)
	}

	plan := &models.BudgetPlan{
		Allocation:       allocation,
		Amounts:          amounts,
		Reasoning:        s.buildReasoning(allocation, analysis),
		Confidence:       s.confidence(),
		SpendingPatterns: analysis,
		Recommendations:  s.buildRecommendations(allocation, analysis),
	}

	s.logger.Debug().
		Float64("needs", allocation[models.BucketNeeds]).
		Float64("wants", allocation[models.BucketWants]).
		Float64("savings", allocation[models.BucketSavings]).
		Float64("confidence", plan.Confidence).
		Msg("Budget optimized")

	return plan, nil
}

// recordFeedback applies one feedback observation and persists the state.
// Persistence failures are logged, not fatal: in-memory state stays valid.
func (s *Service) recordFeedback(ctx context.Context, feedback *models.BudgetFeedback) {
	arm, ok := s.state.Arms[feedback.Category]
	if !ok {
		s.logger.Warn().Str("category", feedback.Category).Msg("Feedback for unknown budget bucket ignored")
		return
	}

	reward := rewardFromSatisfaction(feedback.Satisfaction, feedback.Success)
	s.applyFeedback(arm, reward)

	if err := s.store.SaveState(ctx, s.state); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist bandit state")
	}
}

// adaptiveAllocation runs the epsilon-greedy step plus deterministic
// pattern and income-tier adjustments. Caller holds the mutex.
func (s *Service) adaptiveAllocation(income float64, analysis *models.SpendingAnalysis) models.BudgetAllocation {
	epsilon := s.config.Advisory.ExplorationRate

	allocation := make(models.BudgetAllocation, len(models.BudgetBuckets))
	for _, bucket := range models.BudgetBuckets {
		arm := s.state.Arms[bucket]

		var adjustment float64
		if s.rng.Float64() < epsilon || arm.Count == 0 {
			// Explore around the base.
			adjustment = s.rng.Float64()*0.10 - 0.05
		} else {
			// Exploit the learned reward signal.
			adjustment = (arm.AverageReward() - 0.5) * 0.1
		}
		allocation[bucket] = baseAllocation[bucket] + adjustment
	}
	normalize(allocation)

	if analysis != nil && analysis.Patterns.HighNeedsSpender {
		allocation[models.BucketNeeds] = min(allocation[models.BucketNeeds]+0.05, 0.65)
		allocation[models.BucketWants] = max(allocation[models.BucketWants]-0.03, 0.20)
		allocation[models.BucketSavings] = max(allocation[models.BucketSavings]-0.02, 0.15)
	}

	switch {
	case income > highIncomeTier:
		allocation[models.BucketSavings] = min(allocation[models.BucketSavings]+0.10, 0.40)
		allocation[models.BucketWants] = max(allocation[models.BucketWants]-0.05, 0.25)
		allocation[models.BucketNeeds] = max(allocation[models.BucketNeeds]-0.05, 0.40)
	case income < lowIncomeTier:
		allocation[models.BucketNeeds] = min(allocation[models.BucketNeeds]+0.10, 0.70)
		allocation[models.BucketWants] = max(allocation[models.BucketWants]-0.05, 0.15)
		allocation[models.BucketSavings] = max(allocation[models.BucketSavings]-0.05, 0.15)
	}

	normalize(allocation)
	for bucket, v := range allocation {
		allocation[bucket] = round3(v)
	}
	return allocation
}

// confidence blends data volume and observed reward. Caller holds the mutex.
func (s *Service) confidence() float64 {
	total := s.state.TotalFeedback()
	if total == 0 {
		return 0.5
	}

	dataConfidence := min(float64(total)/feedbackSaturation, 1.0)
	avgReward := s.state.TotalReward() / float64(total)

	confidence := dataConfidence*0.4 + avgReward*0.6
	return round3(max(0.3, min(0.95, confidence)))
}

func (s *Service) defaultPlan(income float64) *models.BudgetPlan {
	allocation := models.BudgetAllocation{
		models.BucketNeeds:   0.50,
		models.BucketWants:   0.30,
		models.BucketSavings: 0.20,
	}
	amounts := make(map[string]float64, len(allocation))
	if income > 0 {
		for bucket, pct := range allocation {
			amounts[bucket] = math.Round(pct * income)
		}
	}
	return &models.BudgetPlan{
		Allocation:      allocation,
		Amounts:         amounts,
		Reasoning:       "Using default 50/30/20 allocation",
		Confidence:      0.5,
		Recommendations: []string{"Provide a positive income to receive a personalized budget."},
		Defaulted:       true,
	}
}

// State returns a snapshot of the bandit state for diagnostics.
func (s *Service) State() models.BanditState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := models.BanditState{
		Key:       s.state.Key,
		Arms:      make(map[string]*models.BanditArm, len(s.state.Arms)),
		UpdatedAt: s.state.UpdatedAt,
	}
	for bucket, arm := range s.state.Arms {
		clone := *arm
		snapshot.Arms[bucket] = &clone
	}
	return snapshot
}

func normalize(allocation models.BudgetAllocation) {
	total := allocation.Sum()
	if total == 0 {
		return
	}
	for bucket, v := range allocation {
		allocation[bucket] = v / total
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
