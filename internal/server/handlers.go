package server

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/models"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Advisory
	mux.HandleFunc("/api/advise", s.handleAdvise)

	// Portfolio
	mux.HandleFunc("/api/portfolio/allocation", s.handleAllocation)
	mux.HandleFunc("/api/portfolio/allocation/chart", s.handleAllocationChart)
	mux.HandleFunc("/api/portfolio/rebalancing", s.handleRebalancing)

	// Budget and expenses
	mux.HandleFunc("/api/budget/optimize", s.handleBudgetOptimize)
	mux.HandleFunc("/api/expenses/analysis", s.handleExpenseAnalysis)
	mux.HandleFunc("/api/expenses/anomalies", s.handleExpenseAnomalies)

	// Knowledge
	mux.HandleFunc("/api/rag/query", s.handleRAGQuery)
	mux.HandleFunc("/api/knowledge/stats", s.handleKnowledgeStats)

	// Health score
	mux.HandleFunc("/api/health-score", s.handleHealthScore)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// handleAdvise handles POST /api/advise.
func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req models.AdvisoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := s.app.AdvisorService.Process(r.Context(), &req)
	if err != nil {
		s.logger.Error().Err(err).Str("intent", string(req.Intent)).Msg("Advisory processing failed")
		WriteError(w, http.StatusInternalServerError, "Failed to process advisory request")
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleAllocation handles POST /api/portfolio/allocation.
func (s *Server) handleAllocation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var profile models.UserProfile
	if !DecodeJSON(w, r, &profile) {
		return
	}

	result := s.app.PersonaService.ClassifyAndAllocate(r.Context(), &profile)
	WriteJSON(w, http.StatusOK, result)
}

// handleAllocationChart handles POST /api/portfolio/allocation/chart,
// returning the allocation as a PNG bar chart.
func (s *Server) handleAllocationChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var profile models.UserProfile
	if !DecodeJSON(w, r, &profile) {
		return
	}

	result := s.app.PersonaService.ClassifyAndAllocate(r.Context(), &profile)

	png, err := s.app.PersonaService.RenderAllocationChart(result)
	if err != nil {
		s.logger.Error().Err(err).Msg("Chart rendering failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render allocation chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type rebalancingRequest struct {
	Current   models.AssetAllocation `json:"current_allocation"`
	Target    models.AssetAllocation `json:"target_allocation"`
	Threshold float64                `json:"threshold,omitempty"`
}

// handleRebalancing handles POST /api/portfolio/rebalancing.
func (s *Server) handleRebalancing(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req rebalancingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Current) == 0 || len(req.Target) == 0 {
		WriteError(w, http.StatusBadRequest, "current_allocation and target_allocation are required")
		return
	}

	analysis := s.app.RebalanceService.CheckRebalancing(req.Current, req.Target, req.Threshold)
	WriteJSON(w, http.StatusOK, analysis)
}

type budgetOptimizeRequest struct {
	Income   float64                `json:"income"` // annual INR
	Expenses []models.Expense       `json:"expenses,omitempty"`
	Feedback *models.BudgetFeedback `json:"feedback,omitempty"`
}

// handleBudgetOptimize handles POST /api/budget/optimize.
func (s *Server) handleBudgetOptimize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req budgetOptimizeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	plan, err := s.app.BudgetService.OptimizeBudget(r.Context(), req.Income, req.Expenses, req.Feedback)
	if err != nil {
		s.logger.Error().Err(err).Msg("Budget optimization failed")
		WriteError(w, http.StatusInternalServerError, "Failed to optimize budget")
		return
	}

	WriteJSON(w, http.StatusOK, plan)
}

type expensesRequest struct {
	Expenses []models.Expense `json:"expenses"`
}

// handleExpenseAnalysis handles POST /api/expenses/analysis.
func (s *Server) handleExpenseAnalysis(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req expensesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.BudgetService.AnalyzeSpending(req.Expenses))
}

// handleExpenseAnomalies handles POST /api/expenses/anomalies.
func (s *Server) handleExpenseAnomalies(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req expensesRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	anomalies := s.app.BudgetService.DetectAnomalies(req.Expenses)
	if anomalies == nil {
		anomalies = []models.SpendingAnomaly{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"anomalies": anomalies,
		"count":     len(anomalies),
	})
}

type ragQueryRequest struct {
	Query     string  `json:"query"`
	NResults  int     `json:"n_results,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Polish    bool    `json:"polish,omitempty"`
}

// answerPolisher is the optional narrative-rewrite capability; satisfied by
// the Gemini client when configured.
type answerPolisher interface {
	PolishAnswer(ctx context.Context, query string, answer *models.RAGAnswer) (string, error)
}

// handleRAGQuery handles POST /api/rag/query.
func (s *Server) handleRAGQuery(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ragQueryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Query == "" {
		WriteError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := s.app.RAGService.Answer(r.Context(), req.Query, req.NResults, req.Threshold)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Polish {
		if polisher, ok := s.app.NarrativeClient.(answerPolisher); ok {
			polished, err := polisher.PolishAnswer(r.Context(), req.Query, answer)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Narrative polish failed, returning template answer")
			} else if polished != "" {
				answer.Answer = polished
			}
		}
	}

	WriteJSON(w, http.StatusOK, answer)
}

// handleKnowledgeStats handles GET /api/knowledge/stats.
func (s *Server) handleKnowledgeStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	store := s.app.Storage.KnowledgeStorage()

	count, err := store.Count(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to count knowledge documents")
		WriteError(w, http.StatusInternalServerError, "Failed to read knowledge base")
		return
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list knowledge documents")
		WriteError(w, http.StatusInternalServerError, "Failed to read knowledge base")
		return
	}

	seen := map[string]bool{}
	for _, doc := range docs {
		seen[doc.Category] = true
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	WriteJSON(w, http.StatusOK, models.KnowledgeStats{
		TotalDocuments: count,
		Categories:     categories,
	})
}

type healthScoreRequest struct {
	Profile  *models.UserProfile `json:"profile"`
	Expenses []models.Expense    `json:"expenses,omitempty"`
}

// handleHealthScore handles POST /api/health-score.
func (s *Server) handleHealthScore(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req healthScoreRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Profile.Validate(); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, s.app.HealthService.Score(req.Profile, req.Expenses))
}
