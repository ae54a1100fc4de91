package budget

import (
	"math"
	"sort"

	"github.com/credalabs/creda/internal/models"
)

// bucketByCategory maps expense categories onto needs/wants/savings.
// Unknown categories are tracked in the breakdown but belong to no bucket.
var bucketByCategory = map[string]string{
	"Food & Dining":     models.BucketNeeds,
	"Bills & Utilities": models.BucketNeeds,
	"Healthcare":        models.BucketNeeds,
	"Transportation":    models.BucketNeeds,
	"Entertainment":     models.BucketWants,
	"Shopping":          models.BucketWants,
	"Travel":            models.BucketWants,
	"Investments":       models.BucketSavings,
	"Insurance":         models.BucketSavings,
}

// Pattern flag thresholds on observed bucket fractions.
const (
	highNeedsFraction   = 0.60
	highWantsFraction   = 0.40
	goodSaverFraction   = 0.25
	rebalanceDeviation  = 0.15
	balancedNeedsTarget = 0.50
)

// AnalyzeSpending summarizes historical expenses into bucket fractions and
// pattern flags. Returns an empty analysis for no expenses.
func (s *Service) AnalyzeSpending(expenses []models.Expense) *models.SpendingAnalysis {
	analysis := &models.SpendingAnalysis{
		CategoryBreakdown: make(map[string]float64),
		CurrentAllocation: models.BudgetAllocation{
			models.BucketNeeds:   0,
			models.BucketWants:   0,
			models.BucketSavings: 0,
		},
	}
	if len(expenses) == 0 {
		return analysis
	}

	bucketTotals := make(map[string]float64)
	for _, exp := range expenses {
		category := exp.Category
		if category == "" {
			category = "Others"
		}
		analysis.CategoryBreakdown[category] += exp.Amount
		analysis.TotalExpenses += exp.Amount

		if bucket, ok := bucketByCategory[category]; ok {
			bucketTotals[bucket] += exp.Amount
		}
	}

	if analysis.TotalExpenses > 0 {
		for _, bucket := range models.BudgetBuckets {
			analysis.CurrentAllocation[bucket] = bucketTotals[bucket] / analysis.TotalExpenses
		}
	}

	needs := analysis.CurrentAllocation[models.BucketNeeds]
	analysis.Patterns = models.SpendingPatterns{
		HighNeedsSpender: needs > highNeedsFraction,
		HighWantsSpender: analysis.CurrentAllocation[models.BucketWants] > highWantsFraction,
		GoodSaver:        analysis.CurrentAllocation[models.BucketSavings] > goodSaverFraction,
		NeedsRebalancing: math.Abs(needs-balancedNeedsTarget) > rebalanceDeviation,
	}
	return analysis
}

// Anomaly detection parameters.
const (
	anomalyMinExpenses = 10
	anomalyMinMonths   = 3
)

// DetectAnomalies flags category-months where spending exceeded the
// category's historical monthly mean by more than two standard deviations.
// Requires enough history to be meaningful; otherwise returns nothing.
func (s *Service) DetectAnomalies(expenses []models.Expense) []models.SpendingAnomaly {
	if len(expenses) < anomalyMinExpenses {
		return nil
	}

	// Monthly totals per category.
	type monthKey struct {
		category string
		month    string
	}
	monthly := make(map[monthKey]float64)
	for _, exp := range expenses {
		key := monthKey{category: exp.Category, month: exp.Date.Format("2006-01")}
		monthly[key] += exp.Amount
	}

	byCategory := make(map[string][]float64)
	for key, total := range monthly {
		byCategory[key.category] = append(byCategory[key.category], total)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var anomalies []models.SpendingAnomaly
	for _, category := range categories {
		totals := byCategory[category]
		if len(totals) <= anomalyMinMonths {
			continue
		}

		mean, stdev := meanStdev(totals)
		for _, amount := range totals {
			if amount <= mean+2*stdev {
				continue
			}
			severity := "medium"
			if amount > mean+3*stdev {
				severity = "high"
			}
			anomalies = append(anomalies, models.SpendingAnomaly{
				Category:      category,
				Amount:        amount,
				ExpectedMean:  math.Round(mean),
				ExpectedStdev: math.Round(stdev),
				Severity:      severity,
			})
		}
	}
	return anomalies
}

// meanStdev returns the mean and population standard deviation.
func meanStdev(values []float64) (float64, float64) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var varSum float64
	for _, v := range values {
		d := v - mean
		varSum += d * d
	}
	return mean, math.Sqrt(varSum / float64(len(values)))
}
