package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/adapters/driving/rest"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/services"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

var (
	servePort           int
	serveSkipValidation bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for uploading PDFs and chatting about them.

The server listens immediately. Upload and chat requests return 503 until
the embedding provider, chat model and vector store are ready; /healthz
reports the initialisation error if they never become ready.

Endpoints:
  POST /upload-pdf   multipart field "file"
  POST /chat         {"query": "...", "limit": 1}
  GET  /healthz
  GET  /metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (default from PORT or config, 3000)")
	serveCmd.Flags().BoolVar(&serveSkipValidation, "skip-validation", false,
		"do not ping the AI providers at startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if servePort > 0 {
		settings.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	readiness := services.NewReadiness()
	server, err := rest.NewServer(&rest.Ports{
		Ingestion: readiness,
		Chat:      readiness,
		Readiness: readiness,
	}, settings.Server)
	if err != nil {
		return err
	}

	workflows := startWorkflows(ctx, settings, readiness)
	defer func() {
		if w := <-workflows; w != nil {
			w.Close()
		}
	}()

	addr := fmt.Sprintf(":%d", settings.Server.Port)
	logger.Info("listening on http://localhost%s", addr)
	return server.Run(ctx, addr)
}

// startWorkflows initialises the AI clients in the background and publishes
// them through readiness. The channel yields the workflows, or nil on failure.
func startWorkflows(ctx context.Context, settings *domain.Settings, readiness *services.Readiness) <-chan *Workflows {
	out := make(chan *Workflows, 1)
	go func() {
		w, err := newWorkflows(ctx, settings, !serveSkipValidation)
		if err != nil {
			logger.Error("AI initialisation failed: %v", err)
			readiness.MarkFailed(err)
			out <- nil
			return
		}
		if err := readiness.MarkReady(services.Capabilities{Ingestion: w.Ingestion, Chat: w.Chat}); err != nil {
			logger.Error("publishing workflows: %v", err)
		} else {
			logger.Info("AI components ready")
		}
		out <- w
	}()
	return out
}
