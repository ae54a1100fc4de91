package models

import "time"

// Budget bucket names for the 50/30/20 rule and the bandit arms.
const (
	BucketNeeds   = "needs"
	BucketWants   = "wants"
	BucketSavings = "savings"
)

// BudgetBuckets lists the buckets in canonical order.
var BudgetBuckets = []string{BucketNeeds, BucketWants, BucketSavings}

// Expense is a single historical spending entry.
type Expense struct {
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date,omitempty"`
	Description string    `json:"description,omitempty"`
}

// BudgetFeedback reports user satisfaction with a previous allocation,
// used to update the bandit arm for one bucket.
type BudgetFeedback struct {
	Category     string `json:"category"`     // needs/wants/savings
	Satisfaction int    `json:"satisfaction"` // 1-5 scale
	Success      bool   `json:"success"`
}

// BanditArm tracks cumulative reward for one budget bucket.
type BanditArm struct {
	RewardSum      float64 `json:"reward_sum"`
	Count          int     `json:"count"`
	BaseAllocation float64 `json:"base_allocation"`
}

// AverageReward returns the running mean reward, or 0 with no observations.
func (a *BanditArm) AverageReward() float64 {
	if a.Count == 0 {
		return 0
	}
	return a.RewardSum / float64(a.Count)
}

// BanditState is the persisted multi-armed bandit over the three budget
// buckets. Scope is per deployment; Key identifies the instance.
type BanditState struct {
	Key       string                `json:"key"`
	Arms      map[string]*BanditArm `json:"arms"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewBanditState returns a fresh state seeded with the 50/30/20 bases.
func NewBanditState(key string) *BanditState {
	return &BanditState{
		Key: key,
		Arms: map[string]*BanditArm{
			BucketNeeds:   {BaseAllocation: 0.50},
			BucketWants:   {BaseAllocation: 0.30},
			BucketSavings: {BaseAllocation: 0.20},
		},
	}
}

// TotalFeedback returns the observation count across all arms.
func (s *BanditState) TotalFeedback() int {
	total := 0
	for _, arm := range s.Arms {
		total += arm.Count
	}
	return total
}

// TotalReward returns the cumulative reward across all arms.
func (s *BanditState) TotalReward() float64 {
	var total float64
	for _, arm := range s.Arms {
		total += arm.RewardSum
	}
	return total
}

// BudgetAllocation maps bucket name to a fraction in [0, 1] summing to 1.0.
type BudgetAllocation map[string]float64

// Sum returns the total of all fractions.
func (b BudgetAllocation) Sum() float64 {
	var total float64
	for _, v := range b {
		total += v
	}
	return total
}

// SpendingPatterns holds boolean flags derived from historical expenses.
type SpendingPatterns struct {
	HighNeedsSpender bool `json:"high_needs_spender"`
	HighWantsSpender bool `json:"high_wants_spender"`
	GoodSaver        bool `json:"good_saver"`
	NeedsRebalancing bool `json:"needs_rebalancing"`
}

// SpendingAnalysis summarizes historical expenses by bucket.
type SpendingAnalysis struct {
	TotalExpenses     float64            `json:"total_expenses"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
	CurrentAllocation BudgetAllocation   `json:"current_allocation"`
	Patterns          SpendingPatterns   `json:"patterns"`
}

// BudgetPlan is the optimizer output for one request.
type BudgetPlan struct {
	Allocation       BudgetAllocation   `json:"allocation"`
	Amounts          map[string]float64 `json:"allocation_amounts"`
	Reasoning        string             `json:"reasoning"`
	Confidence       float64            `json:"confidence"`
	SpendingPatterns *SpendingAnalysis  `json:"spending_patterns,omitempty"`
	Recommendations  []string           `json:"recommendations"`
	Defaulted        bool               `json:"defaulted"`
}

// SpendingAnomaly flags a month where category spend exceeded the
// historical mean by more than two standard deviations.
type SpendingAnomaly struct {
	Category      string  `json:"category"`
	Amount        float64 `json:"amount"`
	ExpectedMean  float64 `json:"expected_mean"`
	ExpectedStdev float64 `json:"expected_stdev"`
	Severity      string  `json:"severity"` // medium or high
}
