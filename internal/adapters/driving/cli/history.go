package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local chat history",
	Long:  `Show or clear the conversation saved by 'chat' and 'ask'.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved messages, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved messages",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the most recent messages (0 = all)")
	historyListCmd.Flags().BoolVar(&historyJSON, "json", false, "output messages as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	history, closeHistory, err := openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	msgs, err := history.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		if msgs == nil {
			msgs = []domain.HistoryMessage{}
		}
		return outputJSON(cmd, msgs)
	}

	if len(msgs) == 0 {
		cmd.Println("No messages.")
		return nil
	}
	for i := range msgs {
		msg := &msgs[i]
		cmd.Printf("[%s] %s:\n", msg.Timestamp.Local().Format("2006-01-02 15:04"), roleLabel(msg.Role))
		cmd.Println(msg.Content)
		for _, s := range msg.Sources {
			cmd.Printf("  - %s\n", formatSource(s))
		}
		cmd.Println()
	}
	return nil
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	history, closeHistory, err := openHistory()
	if err != nil {
		return err
	}
	defer closeHistory()

	if err := history.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("History cleared.")
	return nil
}

func roleLabel(role domain.Role) string {
	if role == domain.RoleUser {
		return "You"
	}
	return "Assistant"
}
