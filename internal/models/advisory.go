package models

// Intent enumerates the request intents the advisor dispatches on.
// Intent extraction itself happens upstream in the gateway.
type Intent string

const (
	IntentExpenseLogging Intent = "expense_logging"
	IntentBudgetQuery    Intent = "budget_query"
	IntentPortfolioQuery Intent = "portfolio_query"
	IntentGoalSetting    Intent = "goal_setting"
	IntentInsuranceQuery Intent = "insurance_query"
	IntentFraudAlert     Intent = "fraud_alert"
	IntentGeneral        Intent = "general"
)

// AdvisoryRequest is the inbound shape for advisory processing.
// Entities carry pre-extracted fields such as "amount" or "time_period".
type AdvisoryRequest struct {
	Text         string            `json:"text"`
	Intent       Intent            `json:"intent"`
	Entities     map[string]string `json:"entities,omitempty"`
	UserLanguage string            `json:"user_language,omitempty"`
	Profile      *UserProfile      `json:"user_profile,omitempty"`
}

// AdvisoryResponse is the structured result of dispatching a request.
type AdvisoryResponse struct {
	RequestID string                 `json:"request_id"`
	Intent    Intent                 `json:"intent"`
	Response  string                 `json:"response"`
	Data      map[string]interface{} `json:"data"`
	Sources   []string               `json:"sources"`
}
