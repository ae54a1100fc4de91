// Package app wires configuration, storage, clients, and services into a
// single application instance shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/credalabs/creda/internal/clients/gemini"
	"github.com/credalabs/creda/internal/common"
	"github.com/credalabs/creda/internal/interfaces"
	"github.com/credalabs/creda/internal/knowledge"
	"github.com/credalabs/creda/internal/services/advisor"
	"github.com/credalabs/creda/internal/services/budget"
	"github.com/credalabs/creda/internal/services/health"
	"github.com/credalabs/creda/internal/services/persona"
	"github.com/credalabs/creda/internal/services/rag"
	"github.com/credalabs/creda/internal/services/rebalance"
	"github.com/credalabs/creda/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	Retriever        interfaces.Retriever
	NarrativeClient  interfaces.NarrativeClient
	PersonaService   interfaces.PersonaService
	RebalanceService interfaces.RebalanceService
	BudgetService    interfaces.BudgetService
	RAGService       interfaces.RAGService
	HealthService    interfaces.HealthService
	AdvisorService   interfaces.AdvisorService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, seeds the knowledge base, and constructs all
// services. configPath may be empty, in which case CREDA_CONFIG and the
// binary directory are consulted.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("CREDA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "creda.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/creda.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()

	seeded, err := knowledge.Seed(ctx, storageManager.KnowledgeStorage(), logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to seed knowledge base: %w", err)
	}
	if seeded > 0 {
		if err := storageManager.KeyValueStorage().Set(ctx, "knowledge_seeded_at", time.Now().UTC().Format(time.RFC3339)); err != nil {
			logger.Warn().Err(err).Msg("Failed to record knowledge seed timestamp")
		}
	}

	retriever, err := knowledge.NewRetriever(ctx, storageManager.KnowledgeStorage(), logger)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to build retriever: %w", err)
	}

	// Narrative polish is optional; the template path works without it.
	var narrative interfaces.NarrativeClient
	if key := config.Clients.Gemini.APIKey; key != "" {
		client, err := gemini.NewClient(ctx, key,
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Gemini client unavailable, continuing without narrative polish")
		} else {
			narrative = client
		}
	} else {
		logger.Info().Msg("Gemini API key not configured - narrative polish disabled")
	}

	personaService := persona.NewService(config, logger)
	rebalanceService := rebalance.NewService(config, logger)
	budgetService := budget.NewService(config, storageManager.BanditStorage(), logger)
	ragService := rag.NewService(config, retriever, logger)
	healthService := health.NewService(logger)
	advisorService := advisor.NewService(config, personaService, budgetService, ragService, logger)

	app := &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		Retriever:        retriever,
		NarrativeClient:  narrative,
		PersonaService:   personaService,
		RebalanceService: rebalanceService,
		BudgetService:    budgetService,
		RAGService:       ragService,
		HealthService:    healthService,
		AdvisorService:   advisorService,
		StartupTime:      startupStart,
	}

	logger.Info().
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return app, nil
}

// Close releases all resources.
func (a *App) Close() error {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
