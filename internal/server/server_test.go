package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/credalabs/creda/internal/app"
	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/knowledge"
	"github.com/credalabs/creda/internal/models"
	"github.com/credalabs/creda/internal/services/advisor"
	"github.com/credalabs/creda/internal/services/budget"
	"github.com/credalabs/creda/internal/services/health"
	"github.com/credalabs/creda/internal/services/persona"
	"github.com/credalabs/creda/internal/services/rag"
	"github.com/credalabs/creda/internal/services/rebalance"
	"github.com/credalabs/creda/internal/storage"
)

// newTestServer creates a test server backed by real temp-dir storage with
// the knowledge base seeded.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: "disabled"})
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "creda")

	mgr, err := storage.NewManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	ctx := context.Background()
	if _, err := knowledge.Seed(ctx, mgr.KnowledgeStorage(), logger); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	retriever, err := knowledge.NewRetriever(ctx, mgr.KnowledgeStorage(), logger)
	if err != nil {
		t.Fatalf("NewRetriever failed: %v", err)
	}

	personaService := persona.NewService(cfg, logger)
	budgetService := budget.NewService(cfg, mgr.BanditStorage(), logger)
	ragService := rag.NewService(cfg, retriever, logger)

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          mgr,
		Retriever:        retriever,
		PersonaService:   personaService,
		RebalanceService: rebalance.NewService(cfg, logger),
		BudgetService:    budgetService,
		RAGService:       ragService,
		HealthService:    health.NewService(logger),
		AdvisorService:   advisor.NewService(cfg, personaService, budgetService, ragService, logger),
	}
	return NewServer(a)
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

func testProfile() map[string]interface{} {
	return map[string]interface{}{
		"age":            30,
		"income":         800000,
		"savings":        200000,
		"dependents":     0,
		"risk_tolerance": 3,
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Correlation-ID") == "" {
		t.Error("expected X-Correlation-ID header")
	}

	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	srv.handleVersion(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["version"] == "" {
		t.Error("expected a version string")
	}
}

func TestHandleAllocation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/allocation", jsonBody(t, testProfile()))
	rec := httptest.NewRecorder()
	srv.handleAllocation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result models.PersonaResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Defaulted {
		t.Error("expected a classified result, got the default allocation")
	}
	if result.Persona.Name == "" {
		t.Error("expected a persona name")
	}
	sum := result.Allocation.Sum()
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("allocation should sum to 1, got %.4f", sum)
	}
}

func TestHandleAllocation_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/allocation", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.handleAllocation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAllocation_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/allocation", nil)
	rec := httptest.NewRecorder()
	srv.handleAllocation(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("expected Allow: POST, got %q", rec.Header().Get("Allow"))
	}
}

func TestHandleAllocationChart(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/allocation/chart", jsonBody(t, testProfile()))
	rec := httptest.NewRecorder()
	srv.handleAllocationChart(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png, got %q", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || body[0] != 0x89 || body[1] != 'P' || body[2] != 'N' || body[3] != 'G' {
		t.Error("response is not a PNG image")
	}
}

func TestHandleRebalancing(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"current_allocation": map[string]float64{"equity": 0.65, "debt": 0.25, "gold": 0.10},
		"target_allocation":  map[string]float64{"equity": 0.60, "debt": 0.30, "gold": 0.10},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/rebalancing", body)
	rec := httptest.NewRecorder()
	srv.handleRebalancing(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var analysis models.RebalancingAnalysis
	if err := json.NewDecoder(rec.Body).Decode(&analysis); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !analysis.Needed {
		t.Error("expected rebalancing to be needed")
	}
	if len(analysis.Actions) == 0 {
		t.Error("expected at least one action")
	}
}

func TestHandleRebalancing_MissingAllocations(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolio/rebalancing", jsonBody(t, map[string]interface{}{}))
	rec := httptest.NewRecorder()
	srv.handleRebalancing(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleBudgetOptimize(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"income": 80000})
	req := httptest.NewRequest(http.MethodPost, "/api/budget/optimize", body)
	rec := httptest.NewRecorder()
	srv.handleBudgetOptimize(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var plan models.BudgetPlan
	if err := json.NewDecoder(rec.Body).Decode(&plan); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	sum := plan.Allocation.Sum()
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("allocation should sum to 1, got %.4f", sum)
	}
	if plan.Defaulted {
		t.Error("expected an optimized plan, got the default")
	}
}

func TestHandleExpenseAnomalies_Empty(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"expenses": []models.Expense{}})
	req := httptest.NewRequest(http.MethodPost, "/api/expenses/anomalies", body)
	rec := httptest.NewRecorder()
	srv.handleExpenseAnomalies(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["count"].(float64) != 0 {
		t.Errorf("expected 0 anomalies, got %v", resp["count"])
	}
}

func TestHandleRAGQuery(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"query": "how much emergency fund should I keep"})
	req := httptest.NewRequest(http.MethodPost, "/api/rag/query", body)
	rec := httptest.NewRecorder()
	srv.handleRAGQuery(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var answer models.RAGAnswer
	if err := json.NewDecoder(rec.Body).Decode(&answer); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if answer.Answer == "" {
		t.Error("expected a non-empty answer")
	}
	if answer.Confidence <= 0 {
		t.Errorf("expected positive confidence, got %.2f", answer.Confidence)
	}
}

func TestHandleRAGQuery_MissingQuery(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rag/query", jsonBody(t, map[string]interface{}{}))
	rec := httptest.NewRecorder()
	srv.handleRAGQuery(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleKnowledgeStats(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/knowledge/stats", nil)
	rec := httptest.NewRecorder()
	srv.handleKnowledgeStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats models.KnowledgeStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.TotalDocuments == 0 {
		t.Error("expected seeded documents")
	}
	found := false
	for _, c := range stats.Categories {
		if c == "emergency_fund" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected emergency_fund category, got %v", stats.Categories)
	}
}

func TestHandleHealthScore(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{"profile": testProfile()})
	req := httptest.NewRequest(http.MethodPost, "/api/health-score", body)
	rec := httptest.NewRecorder()
	srv.handleHealthScore(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var score models.HealthScore
	if err := json.NewDecoder(rec.Body).Decode(&score); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if score.Grade == "" {
		t.Error("expected a grade")
	}
	if len(score.Factors) != 4 {
		t.Errorf("expected 4 factors, got %d", len(score.Factors))
	}
}

func TestHandleHealthScore_InvalidProfile(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"profile": map[string]interface{}{"age": 0},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/health-score", body)
	rec := httptest.NewRecorder()
	srv.handleHealthScore(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAdvise_ExpenseLogging(t *testing.T) {
	srv := newTestServer(t)

	body := jsonBody(t, map[string]interface{}{
		"text":   "I spent 2500 on groceries",
		"intent": "expense_logging",
		"entities": map[string]string{
			"amount":   "2500",
			"category": "Food & Dining",
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/advise", body)
	rec := httptest.NewRecorder()
	srv.handleAdvise(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp models.AdvisoryResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.RequestID == "" {
		t.Error("expected a request ID")
	}
	if resp.Intent != models.IntentExpenseLogging {
		t.Errorf("expected expense_logging intent, got %q", resp.Intent)
	}
	if resp.Response == "" {
		t.Error("expected a response message")
	}
}

func TestHandleShutdown_ProductionDisabled(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Environment = "production"

	req := httptest.NewRequest(http.MethodPost, "/api/shutdown", nil)
	rec := httptest.NewRecorder()
	srv.handleShutdown(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/advise", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected CORS headers on preflight")
	}
}
