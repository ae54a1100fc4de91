// Package interfaces defines storage contracts for Creda
package interfaces

import (
	"context"

	"github.com/credalabs/creda/internal/models"
)

// KnowledgeStorage persists the chunked knowledge corpus.
type KnowledgeStorage interface {
	// SaveDocument upserts a document chunk by ID.
	SaveDocument(ctx context.Context, doc *models.KnowledgeDocument) error

	// GetDocument retrieves a document chunk by ID.
	GetDocument(ctx context.Context, id string) (*models.KnowledgeDocument, error)

	// ListDocuments returns all document chunks.
	ListDocuments(ctx context.Context) ([]models.KnowledgeDocument, error)

	// ListByCategory returns document chunks for one category.
	ListByCategory(ctx context.Context, category string) ([]models.KnowledgeDocument, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}

// BanditStorage persists bandit state across restarts.
type BanditStorage interface {
	// GetState loads bandit state by key; returns ErrNotFound-wrapped
	// error when absent.
	GetState(ctx context.Context, key string) (*models.BanditState, error)

	// SaveState upserts bandit state.
	SaveState(ctx context.Context, state *models.BanditState) error
}

// KeyValueStorage provides simple system configuration storage.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StorageManager provides access to all storage areas.
type StorageManager interface {
	KnowledgeStorage() KnowledgeStorage
	BanditStorage() BanditStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
