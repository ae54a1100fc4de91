// Package persona implements investor-archetype classification and
// risk-adjusted asset allocation.
package persona

import (
	"math"

	"github.com/credalabs/creda/internal/models"
)

// Personas is the fixed archetype set, indexed by persona ID.
var Personas = []models.Persona{
	{
		ID:              0,
		Name:            "Young Conservative",
		Description:     "Young investors with low risk tolerance",
		AgeRange:        "22-35",
		EquityBase:      0.45,
		RiskMultiplier:  0.8,
		Characteristics: []string{"Stable income", "Low risk tolerance", "Prefers safety"},
	},
	{
		ID:              1,
		Name:            "Young Aggressive",
		Description:     "Young high-growth seekers",
		AgeRange:        "22-40",
		EquityBase:      0.80,
		RiskMultiplier:  1.3,
		Characteristics: []string{"High income", "High risk tolerance", "Growth focused"},
	},
	{
		ID:              2,
		Name:            "Mid-age Balanced",
		Description:     "Balanced approach to growth and stability",
		AgeRange:        "35-50",
		EquityBase:      0.60,
		RiskMultiplier:  1.0,
		Characteristics: []string{"Moderate risk", "Family responsibilities", "Balanced approach"},
	},
	{
		ID:              3,
		Name:            "Pre-retirement Conservative",
		Description:     "Nearing retirement with focus on preservation",
		AgeRange:        "50-65",
		EquityBase:      0.30,
		RiskMultiplier:  0.6,
		Characteristics: []string{"Capital preservation", "Income generation", "Low volatility"},
	},
	{
		ID:              4,
		Name:            "High-Income Optimizer",
		Description:     "High earners seeking tax-efficient growth",
		AgeRange:        "30-55",
		EquityBase:      0.70,
		RiskMultiplier:  1.1,
		Characteristics: []string{"High income", "Tax optimization", "Diversified approach"},
	},
}

// featureScale holds the fixed standardization parameters for one feature.
type featureScale struct {
	Mean   float64
	Stddev float64
}

// Feature order: age, income, savings_rate, dependents, risk_tolerance.
// Scale parameters were fitted once over a representative population and
// are frozen here so classification stays deterministic across deployments.
var featureScales = [5]featureScale{
	{Mean: 40, Stddev: 12},             // age
	{Mean: 1_000_000, Stddev: 700_000}, // annual income, INR
	{Mean: 0.22, Stddev: 0.10},         // savings rate
	{Mean: 1.2, Stddev: 1.1},           // dependents
	{Mean: 3, Stddev: 1.41},            // risk tolerance
}

// personaCentroids are the fitted cluster centers in raw feature space,
// indexed to match Personas.
var personaCentroids = [5][5]float64{
	{27, 550_000, 0.12, 0, 2},   // Young Conservative
	{27, 1_400_000, 0.30, 0, 5}, // Young Aggressive
	{40, 900_000, 0.22, 1, 3},   // Mid-age Balanced
	{57, 1_000_000, 0.28, 1, 2}, // Pre-retirement Conservative
	{40, 3_500_000, 0.32, 1, 4}, // High-Income Optimizer
}

// classify returns the persona whose centroid is nearest to the profile's
// standardized feature vector by Euclidean distance.
func classify(profile *models.UserProfile) models.Persona {
	features := [5]float64{
		float64(profile.Age),
		profile.Income,
		profile.SavingsRate(),
		float64(profile.Dependents),
		float64(profile.RiskTolerance),
	}

	var scaled [5]float64
	for i, f := range features {
		scaled[i] = (f - featureScales[i].Mean) / featureScales[i].Stddev
	}

	best := 0
	bestDist := math.Inf(1)
	for id, centroid := range personaCentroids {
		var dist float64
		for i, c := range centroid {
			z := (c - featureScales[i].Mean) / featureScales[i].Stddev
			d := scaled[i] - z
			dist += d * d
		}
		if dist < bestDist {
			bestDist = dist
			best = id
		}
	}
	return Personas[best]
}
