package cli

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show the current GitHub API quota",
	Args:  cobra.NoArgs,
	RunE:  runQuota,
}

func init() {
	rootCmd.AddCommand(quotaCmd)
}

func runQuota(cmd *cobra.Command, _ []string) error {
	svcs, err := loadServices(cmd, Options{NoHistory: true})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.Quota == nil {
		return errors.New("quota service not configured")
	}

	snapshot, err := svcs.Quota.Snapshot(cmd.Context())
	if err != nil {
		return fmt.Errorf("quota failed: %w", err)
	}

	if len(snapshot) == 0 {
		cmd.Println("No rate limit resources reported.")
		return nil
	}

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	p := newPalette(cmd.OutOrStdout())
	now := time.Now()
	cmd.Printf("%-12s %10s %10s  %s\n", "RESOURCE", "REMAINING", "LIMIT", "RESETS")
	for _, name := range names {
		r := snapshot[name]
		remaining := fmt.Sprintf("%10d", r.Remaining)
		if r.Remaining == 0 {
			remaining = p.Error.Render(remaining)
		}
		resets := "-"
		if !r.ResetAt.IsZero() {
			resets = humanize.RelTime(r.ResetAt, now, "ago", "from now")
		}
		cmd.Printf("%-12s %s %10d  %s\n", name, remaining, r.Limit, resets)
	}
	return nil
}
