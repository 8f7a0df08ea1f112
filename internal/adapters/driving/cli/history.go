package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyDork  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past harvests",
}

var historyRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent dork executions",
	Args:  cobra.NoArgs,
	RunE:  runHistoryRuns,
}

var historyFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "List downloaded files",
	Args:  cobra.NoArgs,
	RunE:  runHistoryFiles,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of rows")
	historyFilesCmd.Flags().StringVarP(&historyDork, "dork", "d", "", "only files found by this dork")
	historyCmd.AddCommand(historyRunsCmd)
	historyCmd.AddCommand(historyFilesCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryRuns(cmd *cobra.Command, _ []string) error {
	svcs, err := loadServices(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.History == nil {
		return errors.New("history service not configured")
	}

	runs, err := svcs.History.Runs(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No searches recorded.")
		return nil
	}

	for _, r := range runs {
		cmd.Printf("%s  %-16s %4d results %4d downloaded  %s\n",
			r.SearchedAt.Local().Format("2006-01-02 15:04"),
			humanize.Time(r.SearchedAt), r.ResultsCount, r.DownloadedCount, r.Dork)
	}
	return nil
}

func runHistoryFiles(cmd *cobra.Command, _ []string) error {
	svcs, err := loadServices(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.History == nil {
		return errors.New("history service not configured")
	}

	files, err := svcs.History.Files(cmd.Context(), historyDork, historyLimit)
	if err != nil {
		return fmt.Errorf("listing files: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("No files recorded.")
		return nil
	}

	for _, f := range files {
		cmd.Printf("%-9s %s/%s\n", humanize.Bytes(uint64(max(f.Size, 0))), f.Repository, f.Path)
		if f.LocalPath != "" {
			cmd.Printf("          %s\n", f.LocalPath)
		}
	}
	return nil
}
