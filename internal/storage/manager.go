// Package storage provides the top-level StorageManager over the single
// embedded BadgerDB area.
package storage

import (
	"fmt"

	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	db        *BadgerDB
	knowledge *knowledgeStorage
	bandit    *banditStorage
	kv        *kvStorage
	logger    *common.Logger
}

// NewManager opens the embedded store and wires the typed storage areas.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	db, err := NewBadgerDB(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	logger.Info().Str("path", config.Storage.Path).Msg("Storage manager initialized")

	return &Manager{
		db:        db,
		knowledge: newKnowledgeStorage(db, logger),
		bandit:    newBanditStorage(db, logger),
		kv:        newKVStorage(db, logger),
		logger:    logger,
	}, nil
}

func (m *Manager) KnowledgeStorage() interfaces.KnowledgeStorage {
	return m.knowledge
}

func (m *Manager) BanditStorage() interfaces.BanditStorage {
	return m.bandit
}

func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

func (m *Manager) Close() error {
	return m.db.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
