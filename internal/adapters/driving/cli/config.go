package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/adapters/driven/remote"
	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

// connectivityChecker is implemented by settings services that can ping providers.
type connectivityChecker interface {
	ValidateConnectivity(settings *domain.Settings) error
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
	Long: `Show the effective configuration: defaults, then config.toml, then .env
and the environment. API keys are masked.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective settings",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		cmd.Println(settingsService.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config file value",
	Long: `Set one dot-notation key in config.toml, for example:
  research-assistant config set vector_store.namespace papers`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("failed to save setting: %w", err)
		}
		cmd.Printf("%s updated\n", args[0])
		return nil
	},
}

var configCheckServer string

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the providers",
	Long: `Validate the local settings and ping the configured providers.
With --server, check a running server's health endpoint instead.`,
	RunE: runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)

	configCheckCmd.Flags().StringVar(&configCheckServer, "server", "", "server URL, e.g. http://localhost:3000")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", settings.Server.Port)
	cmd.Printf("  Max upload: %d MB\n", settings.Server.MaxUploadMB)
	origins := "*"
	if len(settings.Server.AllowOrigins) > 0 {
		origins = strings.Join(settings.Server.AllowOrigins, ", ")
	}
	cmd.Printf("  CORS origins: %s\n", origins)
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", valueOrUnset(settings.Embedding.Model))
	cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Embedding.APIKey))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", valueOrUnset(settings.LLM.Model))
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Provider: %s\n", settings.VectorStore.Provider.Description())
	cmd.Printf("  Index: %s\n", valueOrUnset(settings.VectorStore.IndexName))
	cmd.Printf("  Namespace: %s\n", valueOrUnset(settings.VectorStore.Namespace))
	cmd.Printf("  API Key: %s\n", maskAPIKey(settings.VectorStore.APIKey))
	cmd.Println()

	cmd.Println("[Ingestion]")
	cmd.Printf("  Chunk size: %d\n", settings.Ingestion.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Ingestion.ChunkOverlap)
	cmd.Printf("  Sample query: %s\n", settings.Ingestion.SampleQuery)
	cmd.Printf("  Temp dir: %s\n", valueOrUnset(settings.Ingestion.TempDir))
	cmd.Println()

	cmd.Printf("Config file: %s\n", settingsService.Path())
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if configCheckServer != "" {
		return checkServer(cmd, configCheckServer)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := settingsService.Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if checker, ok := settingsService.(connectivityChecker); ok {
		if err := checker.ValidateConnectivity(settings); err != nil {
			return fmt.Errorf("provider check failed: %w", err)
		}
	}
	cmd.Println("Configuration OK")
	return nil
}

// checkServer reads the health report of a running server.
func checkServer(cmd *cobra.Command, serverURL string) error {
	client := remote.NewClient(remote.Config{BaseURL: serverURL})
	report, err := client.Health(cmd.Context())
	if err != nil {
		return fmt.Errorf("server check failed: %w", err)
	}

	if !report.Status.OK {
		var failed []string
		for name, check := range report.Checks {
			if !check.OK {
				failed = append(failed, fmt.Sprintf("%s: %s", name, valueOrUnset(check.Err)))
			}
		}
		sort.Strings(failed)
		return fmt.Errorf("server not ready: %s", strings.Join(failed, "; "))
	}

	cmd.Printf("Server OK (uptime %ds)\n", report.UptimeSec)
	return nil
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
