// Package advisor dispatches structured advisory requests to the decision
// engines by intent and composes the combined response.
package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Fraud screening parameters.
const (
	fraudAmountThreshold = 10_000
	fraudHighRisk        = 0.7
	fraudLowRisk         = 0.3
)

// insuranceCoverageMultiple is the recommended life cover as a multiple of
// annual income.
const insuranceCoverageMultiple = 12

type handlerFunc func(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error

// Service implements interfaces.AdvisorService.
type Service struct {
	config   *common.Config
	personas interfaces.PersonaService
	budgets  interfaces.BudgetService
	rag      interfaces.RAGService
	logger   *common.Logger

	handlers map[models.Intent]handlerFunc
}

var _ interfaces.AdvisorService = (*Service)(nil)

// NewService creates the advisory dispatcher.
func NewService(config *common.Config, personas interfaces.PersonaService, budgets interfaces.BudgetService, rag interfaces.RAGService, logger *common.Logger) *Service {
	s := &Service{
		config:   config,
		personas: personas,
		budgets:  budgets,
		rag:      rag,
		logger:   logger,
	}
	s.handlers = map[models.Intent]handlerFunc{
		models.IntentExpenseLogging: s.handleExpenseLogging,
		models.IntentBudgetQuery:    s.handleBudgetQuery,
		models.IntentPortfolioQuery: s.handlePortfolioQuery,
		models.IntentGoalSetting:    s.handleGoalSetting,
		models.IntentInsuranceQuery: s.handleInsuranceQuery,
		models.IntentFraudAlert:     s.handleFraudAlert,
	}
	return s
}

// Process dispatches the request to the intent handler, falling back to a
// general knowledge-base query for unknown intents.
func (s *Service) Process(ctx context.Context, req *models.AdvisoryRequest) (*models.AdvisoryResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("advisory request is required")
	}

	resp := &models.AdvisoryResponse{
		RequestID: uuid.NewString(),
		Intent:    req.Intent,
		Data:      make(map[string]interface{}),
		Sources:   []string{},
	}

	handler, ok := s.handlers[req.Intent]
	if !ok {
		resp.Intent = models.IntentGeneral
		handler = s.handleGeneral
	}

	if err := handler(ctx, req, resp); err != nil {
		return nil, fmt.Errorf("failed to process %s request: %w", resp.Intent, err)
	}

	s.logger.Info().
		Str("request_id", resp.RequestID).
		Str("intent", string(resp.Intent)).
		Msg("Advisory request processed")

	return resp, nil
}

func (s *Service) handleExpenseLogging(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	amount := parseAmount(req.Entities["amount"], 0)
	category := req.Entities["category"]
	if category == "" {
		category = "Others"
	}

	expense := models.Expense{
		Amount:      amount,
		Category:    category,
		Date:        time.Now(),
		Description: req.Text,
	}

	advice, err := s.rag.Answer(ctx, fmt.Sprintf("spending advice for %s", category), 0, 0)
	if err != nil {
		return err
	}

	resp.Response = fmt.Sprintf("Logged ₹%.0f expense for %s. %s", amount, category, advice.Answer)
	resp.Data["expense_logged"] = expense
	resp.Data["category_advice"] = advice.Answer
	resp.Sources = advice.Sources
	return nil
}

func (s *Service) handleBudgetQuery(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	timePeriod := req.Entities["time_period"]
	if timePeriod == "" {
		timePeriod = "this month"
	}

	advice, err := s.rag.Answer(ctx, "budgeting guidelines and best practices", 0, 0)
	if err != nil {
		return err
	}

	resp.Response = fmt.Sprintf("Budget guidance for %s: %s", timePeriod, advice.Answer)
	resp.Data["period"] = timePeriod
	resp.Data["budget_advice"] = advice.Answer

	if req.Profile != nil {
		plan, err := s.budgets.OptimizeBudget(ctx, req.Profile.Income, nil, nil)
		if err != nil {
			return err
		}
		resp.Data["budget_plan"] = plan
		resp.Response = fmt.Sprintf("Recommended allocation: needs %.0f%%, wants %.0f%%, savings %.0f%%. %s",
			plan.Allocation[models.BucketNeeds]*100,
			plan.Allocation[models.BucketWants]*100,
			plan.Allocation[models.BucketSavings]*100,
			advice.Answer)
	}

	resp.Sources = advice.Sources
	return nil
}

func (s *Service) handlePortfolioQuery(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	if req.Profile == nil {
		advice, err := s.rag.Answer(ctx, "investment portfolio general advice", 0, 0)
		if err != nil {
			return err
		}
		resp.Response = fmt.Sprintf("For portfolio advice, I need your profile details. %s", advice.Answer)
		resp.Data["general_advice"] = advice.Answer
		resp.Sources = advice.Sources
		return nil
	}

	result := s.personas.ClassifyAndAllocate(ctx, req.Profile)

	advice, err := s.rag.Answer(ctx, "asset allocation investment strategy", 0, 0)
	if err != nil {
		return err
	}

	totalInvestable := req.Profile.Savings
	amounts := make(map[string]float64, len(result.Allocation))
	for asset, pct := range result.Allocation {
		amounts[asset] = totalInvestable * pct
	}

	resp.Response = fmt.Sprintf("Based on your profile (%s), here's your recommended allocation: %s. %s",
		result.Persona.Name, formatAllocation(result.Allocation), advice.Answer)
	resp.Data["persona"] = result
	resp.Data["allocation_amounts"] = amounts
	resp.Data["total_investable"] = totalInvestable
	resp.Data["allocation_advice"] = advice.Answer
	resp.Sources = advice.Sources
	return nil
}

func (s *Service) handleGoalSetting(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	goalAmount := parseAmount(req.Entities["amount"], 100_000)
	timePeriod := req.Entities["time_period"]
	if timePeriod == "" {
		timePeriod = "1 year"
	}

	months := monthsFromPeriod(timePeriod)
	monthlySaving := goalAmount / float64(months)

	advice, err := s.rag.Answer(ctx, "financial goal planning savings strategy", 0, 0)
	if err != nil {
		return err
	}

	resp.Response = fmt.Sprintf("To save ₹%.0f in %s, you need to save ₹%.0f per month. %s",
		goalAmount, timePeriod, monthlySaving, advice.Answer)
	resp.Data["goal_amount"] = goalAmount
	resp.Data["time_period"] = timePeriod
	resp.Data["monthly_saving_required"] = monthlySaving
	resp.Data["goal_advice"] = advice.Answer
	resp.Sources = advice.Sources
	return nil
}

func (s *Service) handleInsuranceQuery(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	advice, err := s.rag.Answer(ctx, "life insurance coverage recommendations", 0, 0)
	if err != nil {
		return err
	}

	resp.Response = fmt.Sprintf("Insurance guidance: %s", advice.Answer)
	resp.Data["insurance_advice"] = advice.Answer

	if req.Profile != nil {
		resp.Data["annual_income"] = req.Profile.Income
		resp.Data["coverage_multiple"] = insuranceCoverageMultiple
		resp.Data["recommended_coverage"] = req.Profile.Income * insuranceCoverageMultiple
	}

	resp.Sources = advice.Sources
	return nil
}

func (s *Service) handleFraudAlert(_ context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	amount := parseAmount(req.Entities["amount"], 0)

	riskScore := fraudLowRisk
	if amount > fraudAmountThreshold {
		riskScore = fraudHighRisk
	}

	resp.Response = fmt.Sprintf("Fraud alert processed. Risk score: %.1f. If unauthorized, immediately contact your bank and file complaint.", riskScore)
	resp.Data["alert_processed"] = true
	resp.Data["risk_score"] = riskScore
	resp.Data["recommended_actions"] = []string{
		"Contact bank immediately",
		"File police complaint if needed",
		"Change passwords and PINs",
		"Monitor account statements",
	}
	resp.Sources = []string{"Banking Security Guidelines", "RBI Fraud Prevention"}
	return nil
}

func (s *Service) handleGeneral(ctx context.Context, req *models.AdvisoryRequest, resp *models.AdvisoryResponse) error {
	answer, err := s.rag.Answer(ctx, req.Text, 0, 0)
	if err != nil {
		return err
	}

	resp.Response = answer.Answer
	resp.Data["query_type"] = "general"
	resp.Data["confidence"] = answer.Confidence
	resp.Sources = answer.Sources
	return nil
}

// parseAmount reads a currency amount from an entity value, tolerating a
// rupee symbol and thousand separators.
func parseAmount(raw string, fallback float64) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(raw, "₹", ""), ",", ""))
	if cleaned == "" {
		return fallback
	}
	var amount float64
	if _, err := fmt.Sscanf(cleaned, "%f", &amount); err != nil {
		return fallback
	}
	return amount
}

// monthsFromPeriod converts a "N year(s)" phrase into months, defaulting
// to one year for anything unparseable.
func monthsFromPeriod(period string) int {
	if strings.Contains(period, "year") {
		fields := strings.Fields(period)
		var years int
		if len(fields) > 0 {
			if _, err := fmt.Sscanf(fields[0], "%d", &years); err == nil && years > 0 {
				return years * 12
			}
		}
		return 12
	}
	return 12
}

// formatAllocation renders an allocation map as "asset: NN%" pairs in
// canonical order.
func formatAllocation(allocation models.AssetAllocation) string {
	assets := make([]string, 0, len(allocation))
	for asset := range allocation {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	parts := make([]string, 0, len(assets))
	for _, asset := range assets {
		parts = append(parts, fmt.Sprintf("%s: %.0f%%", asset, allocation[asset]*100))
	}
	return strings.Join(parts, ", ")
}
