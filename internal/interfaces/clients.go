// Package interfaces defines client contracts for Creda
package interfaces

import (
	"context"

	"github.com/credalabs/creda/internal/models"
)

// Retriever is the similarity-search capability consumed by the RAG
// pipeline. Implementations rank candidate documents for a query and
// report cosine distance scaled 0-2 (0 = identical, 2 = opposite).
//
// This is a fixed interface: the engine never probes the implementation
// for optional behaviour. The default in-process implementation lives in
// internal/knowledge; a remote vector index can be substituted without
// touching the pipeline.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.RetrievedDocument, error)
}

// NarrativeClient generates free-form narrative text. Used optionally to
// polish template answers; the engine must work without it.
type NarrativeClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
