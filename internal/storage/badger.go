// Package storage provides BadgerDB-based persistence
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/models"
)

// BadgerDB wraps badgerhold for typed storage
type BadgerDB struct {
	store  *badgerhold.Store
	logger *common.Logger
}

// NewBadgerDB opens the embedded store at the given path.
func NewBadgerDB(logger *common.Logger, path string) (*BadgerDB, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerDB opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
	}, nil
}

// Close closes the database
func (db *BadgerDB) Close() error {
	if db.store != nil {
		return db.store.Close()
	}
	return nil
}

// Store returns the underlying badgerhold store
func (db *BadgerDB) Store() *badgerhold.Store {
	return db.store
}

// knowledgeStorage implements KnowledgeStorage using BadgerDB
type knowledgeStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

func newKnowledgeStorage(db *BadgerDB, logger *common.Logger) *knowledgeStorage {
	return &knowledgeStorage{db: db, logger: logger}
}

func (s *knowledgeStorage) SaveDocument(ctx context.Context, doc *models.KnowledgeDocument) error {
	if doc.LoadedAt.IsZero() {
		doc.LoadedAt = time.Now()
	}
	err := s.db.store.Upsert(doc.ID, doc)
	if err != nil {
		return fmt.Errorf("failed to save knowledge document: %w", err)
	}
	s.logger.Debug().Str("id", doc.ID).Str("category", doc.Category).Msg("Knowledge document saved")
	return nil
}

func (s *knowledgeStorage) GetDocument(ctx context.Context, id string) (*models.KnowledgeDocument, error) {
	var doc models.KnowledgeDocument
	err := s.db.store.Get(id, &doc)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("knowledge document '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get knowledge document: %w", err)
	}
	return &doc, nil
}

func (s *knowledgeStorage) ListDocuments(ctx context.Context) ([]models.KnowledgeDocument, error) {
	var docs []models.KnowledgeDocument
	err := s.db.store.Find(&docs, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge documents: %w", err)
	}

	// Stable order: category then chunk index
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Category != docs[j].Category {
			return docs[i].Category < docs[j].Category
		}
		return docs[i].ChunkIndex < docs[j].ChunkIndex
	})
	return docs, nil
}

func (s *knowledgeStorage) ListByCategory(ctx context.Context, category string) ([]models.KnowledgeDocument, error) {
	var docs []models.KnowledgeDocument
	err := s.db.store.Find(&docs, badgerhold.Where("Category").Eq(category))
	if err != nil {
		return nil, fmt.Errorf("failed to list knowledge documents by category: %w", err)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ChunkIndex < docs[j].ChunkIndex
	})
	return docs, nil
}

func (s *knowledgeStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.store.Count(models.KnowledgeDocument{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count knowledge documents: %w", err)
	}
	return int(count), nil
}

// banditStorage implements BanditStorage using BadgerDB
type banditStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

func newBanditStorage(db *BadgerDB, logger *common.Logger) *banditStorage {
	return &banditStorage{db: db, logger: logger}
}

func (s *banditStorage) GetState(ctx context.Context, key string) (*models.BanditState, error) {
	var state models.BanditState
	err := s.db.store.Get(key, &state)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("bandit state '%s' not found", key)
		}
		return nil, fmt.Errorf("failed to get bandit state: %w", err)
	}
	return &state, nil
}

func (s *banditStorage) SaveState(ctx context.Context, state *models.BanditState) error {
	state.UpdatedAt = time.Now()
	err := s.db.store.Upsert(state.Key, state)
	if err != nil {
		return fmt.Errorf("failed to save bandit state: %w", err)
	}
	s.logger.Debug().Str("key", state.Key).Int("feedback", state.TotalFeedback()).Msg("Bandit state saved")
	return nil
}

// kvStorage implements KeyValueStorage using BadgerDB
type kvStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// kvEntry represents a key-value entry in the store
type kvEntry struct {
	Key   string `badgerhold:"key"`
	Value string
}

func newKVStorage(db *BadgerDB, logger *common.Logger) *kvStorage {
	return &kvStorage{db: db, logger: logger}
}

func (s *kvStorage) Get(ctx context.Context, key string) (string, error) {
	var entry kvEntry
	err := s.db.store.Get(key, &entry)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return "", fmt.Errorf("key '%s' not found", key)
		}
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return entry.Value, nil
}

func (s *kvStorage) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{Key: key, Value: value}
	err := s.db.store.Upsert(key, &entry)
	if err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

func (s *kvStorage) Delete(ctx context.Context, key string) error {
	err := s.db.store.Delete(key, kvEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
