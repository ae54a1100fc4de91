// Package rag implements retrieval-augmented answering over the finance
// knowledge base.
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Canned responses for the degraded pipeline outcomes.
const (
	answerNoResults = "I don't have specific information about this topic in my knowledge base."

	answerNotRelevant = "I found some information but it may not be directly relevant to your question. Please rephrase your query or ask about specific financial topics."

	answerLowConfidence = "I found some information but I'm not confident enough to provide a reliable answer. Please consult with a financial advisor for personalized guidance."
)

// Fixed confidence levels for the degraded outcomes.
const (
	confidenceNoResults    = 0.1
	confidenceNotRelevant  = 0.3
	confidenceGate         = 0.6
	confidenceAuthorityCap = 0.95
)

// Service implements interfaces.RAGService.
type Service struct {
	config    *common.Config
	retriever interfaces.Retriever
	logger    *common.Logger
}

var _ interfaces.RAGService = (*Service)(nil)

// NewService creates the RAG answering service.
func NewService(config *common.Config, retriever interfaces.Retriever, logger *common.Logger) *Service {
	return &Service{
		config:    config,
		retriever: retriever,
		logger:    logger,
	}
}

// Answer runs the retrieval pipeline: retrieve, filter by similarity,
// score confidence, gate, synthesize. Retrieval and synthesis failures
// degrade to a low-confidence answer rather than an error; an error is
// returned only for an invalid call contract.
func (s *Service) Answer(ctx context.Context, query string, nResults int, threshold float64) (*models.RAGAnswer, error) {
	if nResults < 0 {
		return nil, fmt.Errorf("nResults must be non-negative, got %d", nResults)
	}
	if nResults == 0 {
		nResults = s.config.Advisory.RetrievalK
	}
	if threshold <= 0 {
		threshold = s.config.Advisory.SimilarityThreshold
	}

	retrieved, err := s.retriever.Retrieve(ctx, query, nResults)
	if err != nil {
		s.logger.Error().Err(err).Str("query", query).Msg("Knowledge retrieval failed")
		return &models.RAGAnswer{
			Answer:     fmt.Sprintf("Error retrieving information from knowledge base: %s", err),
			Sources:    []string{},
			Confidence: 0,
		}, nil
	}

	if len(retrieved) == 0 {
		return &models.RAGAnswer{
			Answer:     answerNoResults,
			Sources:    []string{},
			Confidence: confidenceNoResults,
		}, nil
	}

	// Keep only results above the similarity threshold.
	var kept []models.RetrievedDocument
	for _, doc := range retrieved {
		if doc.Similarity() >= threshold {
			kept = append(kept, doc)
		}
	}
	if len(kept) == 0 {
		return &models.RAGAnswer{
			Answer:     answerNotRelevant,
			Sources:    []string{},
			Confidence: confidenceNotRelevant,
		}, nil
	}

	// Score confidence as the mean of document confidence x similarity,
	// boosted when independent authorities agree.
	var scoreSum float64
	var sentences []string
	authoritySet := make(map[string]bool)
	sourceSet := make(map[string]bool)
	for _, doc := range kept {
		scoreSum += doc.Document.Confidence * doc.Similarity()
		sentences = append(sentences, splitSentences(doc.Document.Text)...)
		authoritySet[doc.Document.Authority] = true
		sourceSet[doc.Document.Source] = true
	}
	confidence := scoreSum / float64(len(kept))
	if len(authoritySet) > 1 {
		confidence = math.Min(confidence*1.1, confidenceAuthorityCap)
	}

	sources := sortedKeys(sourceSet)
	if confidence < confidenceGate {
		return &models.RAGAnswer{
			Answer:     answerLowConfidence,
			Sources:    sources,
			Confidence: round3(confidence),
		}, nil
	}

	answer := synthesizeAnswer(query, sentences, sortedKeys(authoritySet))

	s.logger.Debug().
		Str("query", query).
		Int("retrieved", len(retrieved)).
		Int("kept", len(kept)).
		Float64("confidence", confidence).
		Msg("Query answered")

	return &models.RAGAnswer{
		Answer:     answer,
		Sources:    sources,
		Confidence: round3(confidence),
	}, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
