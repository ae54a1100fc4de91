package budget

import (
	"fmt"
	"strings"

	"github.com/credalabs/creda/internal/models"
)

// buildReasoning explains the allocation decisions. Caller holds the mutex.
func (s *Service) buildReasoning(allocation models.BudgetAllocation, analysis *models.SpendingAnalysis) string {
	parts := []string{"Budget optimized using adaptive 50/30/20 rule with personalized adjustments."}

	needs := allocation[models.BucketNeeds]
	if needs > 0.55 {
		parts = append(parts, fmt.Sprintf("Increased needs allocation to %.1f%% based on essential expense patterns.", needs*100))
	} else if needs < 0.45 {
		parts = append(parts, fmt.Sprintf("Reduced needs allocation to %.1f%% due to efficient spending habits.", needs*100))
	}

	savings := allocation[models.BucketSavings]
	if savings > 0.25 {
		parts = append(parts, fmt.Sprintf("Enhanced savings to %.1f%% leveraging income capacity and financial discipline.", savings*100))
	} else if savings < 0.18 {
		parts = append(parts, fmt.Sprintf("Moderate savings at %.1f%% balancing current needs with future goals.", savings*100))
	}

	if analysis != nil {
		if analysis.Patterns.GoodSaver {
			parts = append(parts, "Recognized strong savings discipline - optimized for wealth building.")
		}
		if analysis.Patterns.HighWantsSpender {
			parts = append(parts, "Adjusted for lifestyle preferences while maintaining financial health.")
		}
		if analysis.Patterns.NeedsRebalancing {
			parts = append(parts, "Rebalancing recommended based on spending pattern analysis.")
		}
	}

	if total := s.state.TotalFeedback(); total > 0 {
		parts = append(parts, fmt.Sprintf("Incorporated learnings from %d previous optimizations.", total))
	}

	return strings.Join(parts, " ")
}

// buildRecommendations produces actionable advice for the plan.
func (s *Service) buildRecommendations(allocation models.BudgetAllocation, analysis *models.SpendingAnalysis) []string {
	var recommendations []string

	currentNeeds := 0.5
	if analysis != nil && analysis.TotalExpenses > 0 {
		currentNeeds = analysis.CurrentAllocation[models.BucketNeeds]
	}

	needs := allocation[models.BucketNeeds]
	if needs > currentNeeds+0.1 {
		recommendations = append(recommendations, "Focus on essential expenses - consider cost optimization in utilities and groceries.")
	} else if needs < currentNeeds-0.1 {
		recommendations = append(recommendations, "Great job managing essential expenses efficiently!")
	}

	wants := allocation[models.BucketWants]
	if wants < 0.25 {
		recommendations = append(recommendations, "Limited discretionary spending - ensure work-life balance and occasional treats.")
	} else if wants > 0.35 {
		recommendations = append(recommendations, "Consider reducing non-essential spending to boost savings and financial security.")
	}

	savings := allocation[models.BucketSavings]
	if savings > 0.25 {
		recommendations = append(recommendations, "Excellent savings discipline! Consider diversifying into equity mutual funds for higher returns.")
	} else if savings < 0.18 {
		recommendations = append(recommendations, "Try to increase savings gradually - even ₹1000 more monthly makes a significant long-term difference.")
	}

	if analysis != nil && analysis.Patterns.NeedsRebalancing {
		recommendations = append(recommendations, "Spending pattern suggests rebalancing - track expenses for 2-3 months and adjust gradually.")
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Budget allocation looks well-balanced for your current financial situation.")
	}
	return recommendations
}
