package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/research-assistant/internal/adapters/driven/ai"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/config/file"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/loader/pdf"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/remote"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/splitter"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/research-assistant/internal/adapters/driven/tempfile"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/research-assistant/internal/core/services"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

// Services used by commands. Tests replace them.
var (
	// settingsService is created on first use from --config-dir.
	settingsService driving.SettingsService

	// newWorkflows builds in-process ingestion and chat.
	newWorkflows = buildWorkflows

	// openHistory opens the local chat history.
	openHistory = openSQLiteHistory
)

// Workflows are the ingestion and chat services a command talks to.
type Workflows struct {
	Ingestion driving.IngestionService
	Chat      driving.ChatService

	close func()
}

// Close releases the AI clients behind the workflows.
func (w *Workflows) Close() {
	if w != nil && w.close != nil {
		w.close()
	}
}

// initSettings creates the settings service from the config file, .env
// and the environment.
func initSettings() error {
	if settingsService != nil {
		return nil
	}

	if err := file.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	svc := services.NewSettingsService(store, os.LookupEnv)
	svc.SetValidator(ai.NewConfigValidator())
	settingsService = svc
	return nil
}

// loadSettings returns the effective settings.
func loadSettings() (*domain.Settings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// buildWorkflows creates the AI clients and the workflows over them.
func buildWorkflows(ctx context.Context, settings *domain.Settings, validate bool) (*Workflows, error) {
	if err := settingsService.Validate(settings); err != nil {
		return nil, err
	}

	clients, err := ai.Initialise(ctx, settings, validate)
	if err != nil {
		return nil, err
	}

	temp, err := tempfile.New(settings.Ingestion.TempDir)
	if err != nil {
		clients.Close()
		return nil, fmt.Errorf("preparing temp dir: %w", err)
	}
	split, err := splitter.New(settings.Ingestion.ChunkSize, settings.Ingestion.ChunkOverlap)
	if err != nil {
		clients.Close()
		return nil, err
	}

	ingestion := services.NewIngestionService(
		temp, pdf.New(), split, clients.Embedding, clients.VectorStore,
		services.IngestionOptions{
			SampleQuery: settings.Ingestion.SampleQuery,
			SampleLimit: settings.Ingestion.SampleLimit,
		},
	)
	chat := services.NewChatService(clients.Embedding, clients.VectorStore, clients.ChatModel, settings.LLM.Temperature)

	return &Workflows{Ingestion: ingestion, Chat: chat, close: clients.Close}, nil
}

// workflowsFor returns remote workflows when serverURL is set, local ones otherwise.
func workflowsFor(ctx context.Context, serverURL string) (*Workflows, error) {
	if serverURL != "" {
		client := remote.NewClient(remote.Config{BaseURL: serverURL})
		return &Workflows{Ingestion: client, Chat: client}, nil
	}

	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return newWorkflows(ctx, settings, false)
}

// openSQLiteHistory opens the history database under the config directory.
func openSQLiteHistory() (driving.HistoryService, func(), error) {
	dataDir := ""
	if configDir != "" {
		dataDir = filepath.Join(configDir, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history: %w", err)
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing history: %v", err)
		}
	}
	return services.NewHistoryService(store.HistoryStore()), closeFn, nil
}

// optionalHistory opens the history, logging instead of failing.
func optionalHistory() (driving.HistoryService, func()) {
	history, closeFn, err := openHistory()
	if err != nil {
		logger.Warn("chat history disabled: %v", err)
		return nil, func() {}
	}
	return history, closeFn
}
