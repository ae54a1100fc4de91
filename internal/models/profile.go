// Package models defines data structures for Creda
package models

import "fmt"

// GoalType enumerates supported financial goals.
type GoalType string

const (
	GoalRetirement     GoalType = "retirement"
	GoalChildEducation GoalType = "child_education"
	GoalHousePurchase  GoalType = "house_purchase"
	GoalWealthBuilding GoalType = "wealth_building"
	GoalEmergencyFund  GoalType = "emergency_fund"
)

// ESGPreference enumerates ESG investment preferences.
type ESGPreference string

const (
	ESGNone     ESGPreference = "none"
	ESGModerate ESGPreference = "moderate"
	ESGHigh     ESGPreference = "high"
)

// UserProfile describes a user's financial situation for a single request.
// It is supplied by the caller and never persisted by the engine.
type UserProfile struct {
	Age           int           `json:"age"`
	Income        float64       `json:"income"` // annual
	Savings       float64       `json:"savings"`
	Dependents    int           `json:"dependents"`
	RiskTolerance int           `json:"risk_tolerance"` // 1-5 scale
	GoalType      GoalType      `json:"goal_type,omitempty"`
	TimeHorizon   int           `json:"time_horizon,omitempty"` // years
	ESGPreference ESGPreference `json:"esg_preference,omitempty"`
}

// Validate reports the first constraint violation, or nil.
func (p *UserProfile) Validate() error {
	if p == nil {
		return fmt.Errorf("profile is required")
	}
	if p.Age <= 0 || p.Age > 120 {
		return fmt.Errorf("age must be in (0, 120], got %d", p.Age)
	}
	if p.Income < 0 {
		return fmt.Errorf("income must be non-negative, got %.2f", p.Income)
	}
	if p.Savings < 0 {
		return fmt.Errorf("savings must be non-negative, got %.2f", p.Savings)
	}
	if p.Dependents < 0 {
		return fmt.Errorf("dependents must be non-negative, got %d", p.Dependents)
	}
	if p.RiskTolerance < 1 || p.RiskTolerance > 5 {
		return fmt.Errorf("risk_tolerance must be in [1, 5], got %d", p.RiskTolerance)
	}
	return nil
}

// SavingsRate returns savings as a fraction of annual income, capped at 1.
func (p *UserProfile) SavingsRate() float64 {
	if p.Income <= 0 {
		return 0
	}
	rate := p.Savings / p.Income
	if rate > 1 {
		return 1
	}
	return rate
}

// Persona is a fixed investor archetype assigned by nearest-centroid
// classification. Personas are static configuration, never created at runtime.
type Persona struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	AgeRange        string   `json:"age_range"`
	EquityBase      float64  `json:"equity_base"`
	RiskMultiplier  float64  `json:"risk_multiplier"`
	Characteristics []string `json:"characteristics"`
}

// RiskFactors records the multiplicative adjustments applied to the
// glidepath equity fraction.
type RiskFactors struct {
	AgeFactor        float64 `json:"age_factor"`
	RiskFactor       float64 `json:"risk_factor"`
	IncomeFactor     float64 `json:"income_factor"`
	DependentsFactor float64 `json:"dependents_factor"`
}

// PersonaResult is the output of persona classification and allocation.
// Defaulted is true when the input failed validation or a computation error
// forced the safe default balanced allocation.
type PersonaResult struct {
	Persona         Persona          `json:"persona"`
	Allocation      AssetAllocation  `json:"allocation"`
	Metrics         PortfolioMetrics `json:"portfolio_metrics"`
	GlidepathEquity float64          `json:"glidepath_equity"`
	EquityFraction  float64          `json:"equity_fraction"`
	RiskFactors     RiskFactors      `json:"risk_factors"`
	Reasoning       string           `json:"reasoning"`
	Defaulted       bool             `json:"defaulted"`
}
