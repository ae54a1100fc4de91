package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/models"
)

// Retriever ranks knowledge documents against a query using term-frequency
// cosine similarity, reported as a distance in [0, 2] where 0 is identical.
// Documents are loaded once from storage and cached in memory; call Refresh
// after the corpus changes.
type Retriever struct {
	store  interfaces.KnowledgeStorage
	logger *common.Logger

	mu      sync.RWMutex
	docs    []models.KnowledgeDocument
	vectors []map[string]float64
}

var _ interfaces.Retriever = (*Retriever)(nil)

// NewRetriever builds a retriever over the stored corpus.
func NewRetriever(ctx context.Context, store interfaces.KnowledgeStorage, logger *common.Logger) (*Retriever, error) {
	r := &Retriever{
		store:  store,
		logger: logger,
	}
	if err := r.Refresh(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Refresh reloads and re-indexes the corpus from storage.
func (r *Retriever) Refresh(ctx context.Context) error {
	docs, err := r.store.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to load knowledge corpus: %w", err)
	}

	vectors := make([]map[string]float64, len(docs))
	for i, doc := range docs {
		vectors[i] = termVector(doc.Text)
	}

	r.mu.Lock()
	r.docs = docs
	r.vectors = vectors
	r.mu.Unlock()

	r.logger.Debug().Int("documents", len(docs)).Msg("Retriever index refreshed")
	return nil
}

// Retrieve returns the k nearest documents to the query by cosine distance.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedDocument, error) {
	if k <= 0 {
		return nil, fmt.Errorf("retrieval count must be positive, got %d", k)
	}

	queryVec := termVector(query)
	if len(queryVec) == 0 {
		return nil, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]models.RetrievedDocument, 0, len(r.docs))
	for i, doc := range r.docs {
		sim := cosine(queryVec, r.vectors[i])
		results = append(results, models.RetrievedDocument{
			Document: doc,
			Distance: 2 * (1 - sim),
		})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Distance < results[b].Distance
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// termVector tokenizes text into a lowercase term-frequency map.
func termVector(text string) map[string]float64 {
	vec := make(map[string]float64)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		if len(tok) < 2 {
			continue
		}
		vec[tok]++
	}
	return vec
}

// cosine returns the cosine similarity of two term-frequency vectors.
func cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, wa := range a {
		normA += wa * wa
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if dot == 0 || normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
