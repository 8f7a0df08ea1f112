package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

var (
	findingsSeverity string
	findingsLimit    int
)

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Show recorded findings by severity",
	Long: `Without --severity, prints the number of findings per tier.
With --severity, lists the most recent findings of that tier.`,
	Args: cobra.NoArgs,
	RunE: runFindings,
}

func init() {
	findingsCmd.Flags().StringVarP(&findingsSeverity, "severity", "s", "", "tier to list: HIGH, MEDIUM or LOW")
	findingsCmd.Flags().IntVarP(&findingsLimit, "limit", "n", 50, "maximum number of findings")
	rootCmd.AddCommand(findingsCmd)
}

func runFindings(cmd *cobra.Command, _ []string) error {
	var tier domain.SeverityTier
	if findingsSeverity != "" {
		parsed, err := domain.ParseSeverity(findingsSeverity)
		if err != nil {
			return err
		}
		tier = parsed
	}

	svcs, err := loadServices(cmd, Options{})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.History == nil {
		return errors.New("history service not configured")
	}

	p := newPalette(cmd.OutOrStdout())

	if tier == "" {
		counts, err := svcs.History.SeverityCounts(cmd.Context())
		if err != nil {
			return fmt.Errorf("counting findings: %w", err)
		}
		for _, t := range domain.AllSeverities() {
			cmd.Printf("%s%s %d\n", p.Severity(t).Render(t.String()), strings.Repeat(" ", 6-len(t)), counts[t])
		}
		return nil
	}

	findings, err := svcs.History.Findings(cmd.Context(), tier, findingsLimit)
	if err != nil {
		return fmt.Errorf("listing findings: %w", err)
	}

	if len(findings) == 0 {
		cmd.Printf("No %s findings recorded.\n", tier)
		return nil
	}

	for _, f := range findings {
		tag := fmt.Sprintf("[%s] [%s] %s |", f.Severity, f.Label, lineDisplay(f.LineNumber))
		cmd.Printf("%s %s\n", p.Severity(f.Severity).Render(tag), truncate(f.MatchedText, matchedWidth))
		cmd.Printf("    %s/%s\n", f.Repository, f.Path)
	}
	return nil
}
