package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/logger"
)

var (
	askLimit     int
	askJSON      bool
	askServer    string
	askNoHistory bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a question about the indexed papers",
	Long: `Runs one similarity search and one chat-model call, then prints the
answer with the pages it was grounded on.

The exchange is saved to the local chat history unless --no-history is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", domain.DefaultChatLimit, "number of passages to retrieve")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the response as JSON")
	askCmd.Flags().StringVar(&askServer, "server", "", "server URL, e.g. http://localhost:3000")
	askCmd.Flags().BoolVar(&askNoHistory, "no-history", false, "do not save the exchange")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]
	if strings.TrimSpace(query) == "" {
		return domain.ErrQueryRequired
	}

	workflows, err := workflowsFor(cmd.Context(), askServer)
	if err != nil {
		return err
	}
	defer workflows.Close()

	resp, err := workflows.Chat.Ask(cmd.Context(), domain.ChatQuery{Query: query, Limit: askLimit})
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	if !askNoHistory {
		saveExchange(cmd, query, resp)
	}

	if askJSON {
		return outputJSON(cmd, resp)
	}
	outputAnswer(cmd, resp)
	return nil
}

// saveExchange records the question and answer, warning on failure.
func saveExchange(cmd *cobra.Command, query string, resp *domain.ChatResponse) {
	history, closeHistory := optionalHistory()
	defer closeHistory()
	if history == nil {
		return
	}
	if _, err := history.RecordQuestion(cmd.Context(), query); err != nil {
		logger.Warn("saving question: %v", err)
		return
	}
	if _, err := history.RecordAnswer(cmd.Context(), resp.Answer, resp.Sources); err != nil {
		logger.Warn("saving answer: %v", err)
	}
}

func outputAnswer(cmd *cobra.Command, resp *domain.ChatResponse) {
	cmd.Println(resp.Answer)
	if len(resp.Sources) == 0 {
		return
	}
	cmd.Println()
	cmd.Println("Sources:")
	for i, s := range resp.Sources {
		cmd.Printf("  [%d] %s\n", i+1, formatSource(s))
	}
}

// formatSource renders a citation as "ldm.pdf p.2", with "?" for missing fields.
func formatSource(s domain.Source) string {
	name := "?"
	if s.Source != nil {
		name = *s.Source
	}
	page := "?"
	if s.Page != nil {
		page = fmt.Sprintf("%d", *s.Page)
	}
	return fmt.Sprintf("%s p.%s", name, page)
}
