package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/research-assistant/internal/watcher"
)

var (
	watchServer   string
	watchExisting bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Index PDFs dropped into a folder",
	Long: `Watch a folder and index every PDF written to it, one at a time.

A file is indexed once it has not changed for the debounce period.
Subfolders and hidden files are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchServer, "server", "", "server URL, e.g. http://localhost:3000")
	watchCmd.Flags().BoolVar(&watchExisting, "existing", false, "also index PDFs already in the folder")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before indexing")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workflows, err := workflowsFor(ctx, watchServer)
	if err != nil {
		return err
	}
	defer workflows.Close()

	w, err := watcher.New(watcher.Config{
		Dir:             args[0],
		Debounce:        watchDebounce,
		IncludeExisting: watchExisting,
		OnResult: func(r watcher.Result) {
			if r.Err != nil {
				cmd.PrintErrf("%s: %v\n", r.Path, r.Err)
				return
			}
			cmd.Printf("Indexed %s: %d pages, %d chunks\n", r.Ingest.Filename, r.Ingest.Pages, r.Ingest.Chunks)
		},
	}, workflows.Ingestion)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", w.Dir())
	return w.Run(ctx)
}
