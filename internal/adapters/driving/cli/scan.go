package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/logger"
)

var (
	scanKeyword string
	scanLimit   int
)

var scanCmd = &cobra.Command{
	Use:   "scan <file>",
	Short: "Scan a local file for sensitive patterns",
	Long: `Scans a file already on disk with the same engine used by run.
Useful to re-check raw downloads after changing labels or patterns.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanKeyword, "keyword", "k", "", "also list lines containing this keyword")
	scanCmd.Flags().IntVarP(&scanLimit, "limit", "n", 0, "maximum findings to print (0 prints all)")
	scanCmd.Flags().StringVar(&runLabelsFile, "labels-yaml", "", "custom labels YAML file")
	scanCmd.Flags().StringVar(&runPatternsFile, "patterns-yaml", "", "custom patterns YAML file")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	svcs, err := loadServices(cmd, Options{
		LabelsFile:   runLabelsFile,
		PatternsFile: runPatternsFile,
		NoHistory:    true,
	})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.Scanner == nil {
		return errors.New("scan service not configured")
	}

	logger.Section("scan")
	logger.Debug("scanning %s keyword=%q", args[0], scanKeyword)

	result, err := svcs.Scanner.ScanFile(cmd.Context(), args[0], scanKeyword, svcs.Settings.Scan.MaxContextLength)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	p := newPalette(cmd.OutOrStdout())
	cmd.Println(p.Info.Bold(true).Render("[FILE] " + result.Path))

	if scanKeyword != "" {
		cmd.Println()
		cmd.Printf("Keyword %q: %d line(s)\n", scanKeyword, len(result.Keywords))
		for _, m := range result.Keywords {
			cmd.Printf("%s %s\n", p.Keyword.Render(fmt.Sprintf("  >%5d |", m.LineNumber)), m.Line)
		}
	}

	if len(result.Findings) == 0 {
		cmd.Println()
		cmd.Println("No sensitive patterns found.")
		return nil
	}

	cmd.Println()
	for i, f := range result.Findings {
		if scanLimit > 0 && i == scanLimit {
			cmd.Println(p.Muted.Render(fmt.Sprintf("   ... and %d more", len(result.Findings)-scanLimit)))
			break
		}
		tag := fmt.Sprintf("   [%s] [%s] %s |", f.Severity, f.Label, lineDisplay(f.LineNumber))
		cmd.Printf("%s %s\n", p.Severity(f.Severity).Render(tag), truncate(f.MatchedText, matchedWidth))
	}

	stats := result.Stats
	cmd.Println()
	cmd.Printf("%d finding(s), %d unique label(s)", stats.Total, stats.UniqueLabels)
	for _, tier := range domain.AllSeverities() {
		cmd.Printf(", %s %d", tier, stats.BySeverity[tier])
	}
	cmd.Println()
	return nil
}
