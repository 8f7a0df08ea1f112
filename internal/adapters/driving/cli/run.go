package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gitminer/internal/adapters/driven/report"
	"github.com/custodia-labs/gitminer/internal/core/domain"
	"github.com/custodia-labs/gitminer/internal/core/ports/driving"
	"github.com/custodia-labs/gitminer/internal/logger"
)

const (
	// findingsShown caps findings printed per file unless --verbose is set.
	findingsShown = 10
	matchedWidth  = 80
)

var (
	runMaxResults   int
	runPerPage      int
	runWorkers      int
	runOutputCSV    string
	runReport       bool
	runNoAnalyze    bool
	runNoHistory    bool
	runLabelsFile   string
	runPatternsFile string
)

var runCmd = &cobra.Command{
	Use:   "run <dork|file>",
	Short: "Search dorks, download matches and scan them",
	Long: `Runs one dork, or every dork in a file (one per line, # for comments).
Matching files are saved under the raw directory and scanned for keyword
lines and sensitive patterns.`,
	Example: `  gitminer run "filename:.env DB_PASSWORD"
  gitminer run dorks.txt -m 500 --report
  gitminer run dorks.txt -o results.csv --no-analyze`,
	Args: cobra.ExactArgs(1),
	RunE: runHarvest,
}

func init() {
	runCmd.Flags().IntVarP(&runMaxResults, "max-results", "m", 0, "maximum results per dork (default from config)")
	runCmd.Flags().IntVarP(&runPerPage, "per-page", "p", 0, "results per page, max 100 (default from config)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "concurrent downloads (default from config)")
	runCmd.Flags().StringVarP(&runOutputCSV, "output-csv", "o", "", "export results to a CSV file")
	runCmd.Flags().BoolVar(&runReport, "report", false, "write a markdown threat report per dork")
	runCmd.Flags().BoolVar(&runNoAnalyze, "no-analyze", false, "skip keyword and finding output (reports still scan)")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "do not record this run in the history database")
	runCmd.Flags().StringVar(&runLabelsFile, "labels-yaml", "", "custom labels YAML file")
	runCmd.Flags().StringVar(&runPatternsFile, "patterns-yaml", "", "custom patterns YAML file")
	rootCmd.AddCommand(runCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	dorks, err := loadDorks(args[0])
	if err != nil {
		return err
	}

	svcs, err := loadServices(cmd, Options{
		LabelsFile:   runLabelsFile,
		PatternsFile: runPatternsFile,
		Report:       runReport,
		NoHistory:    runNoHistory,
	})
	if err != nil {
		return err
	}
	defer closeServices(svcs)

	if svcs.Harvester == nil {
		return errors.New("harvest service not configured")
	}

	out := cmd.OutOrStdout()
	p := newPalette(out)
	cmd.Println(p.Info.Render(fmt.Sprintf("[INF] Loaded %d dork(s)", len(dorks))))

	var csvWriter *report.CSVWriter
	if runOutputCSV != "" {
		f, err := os.Create(runOutputCSV)
		if err != nil {
			return fmt.Errorf("creating csv: %w", err)
		}
		defer f.Close()
		csvWriter = report.NewCSVWriter(f)
	}

	settings := svcs.Settings
	opts := driving.HarvestOptions{
		PerPage:          pick(runPerPage, settings.GitHub.PerPage),
		MaxResults:       pick(runMaxResults, settings.GitHub.MaxResults),
		Workers:          pick(runWorkers, settings.Scan.Workers),
		MaxContextLength: settings.Scan.MaxContextLength,
		Analyze:          !runNoAnalyze,
		KeywordLimit:     settings.Scan.KeywordLimit,
	}

	logger.Section("harvest")
	logger.Debug("per_page=%d max_results=%d workers=%d analyze=%t",
		opts.PerPage, opts.MaxResults, opts.Workers, opts.Analyze)

	display := &resultPrinter{out: out, p: p, analyze: opts.Analyze, showAll: logger.IsVerbose()}
	var csvErr error
	opts.OnResult = func(r domain.FileResult) {
		display.print(r)
		if csvWriter != nil && csvErr == nil {
			csvErr = csvWriter.WriteResult(r)
		}
	}

	summary, runErr := svcs.Harvester.Run(cmd.Context(), dorks, opts)
	display.finish()
	logger.Section("summary")

	if summary != nil {
		printSummary(out, p, summary)
	}

	if csvWriter != nil {
		if csvErr == nil {
			csvErr = csvWriter.Flush()
		}
		if csvErr != nil {
			return fmt.Errorf("exporting csv: %w", csvErr)
		}
		cmd.Println(p.Success.Render("[+] Results exported to CSV: " + runOutputCSV))
	}

	if svcs.Reports != nil {
		for _, path := range svcs.Reports() {
			cmd.Println(p.Success.Render("[+] Threat intelligence report generated: " + path))
		}
	}

	if runErr != nil {
		return fmt.Errorf("harvest failed: %w", runErr)
	}
	return nil
}

// loadDorks reads dorks from a file, or treats input as a single dork.
func loadDorks(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil || !info.Mode().IsRegular() {
		if strings.TrimSpace(input) == "" {
			return nil, errors.New("no valid dorks found")
		}
		return []string{input}, nil
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("reading dorks file: %w", err)
	}
	defer f.Close()

	var dorks []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dorks = append(dorks, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dorks file: %w", err)
	}
	if len(dorks) == 0 {
		return nil, fmt.Errorf("no valid dorks found in %s", input)
	}
	return dorks, nil
}

func pick(flag, fallback int) int {
	if flag > 0 {
		return flag
	}
	return fallback
}

// resultPrinter renders results as they arrive, grouped by dork.
type resultPrinter struct {
	out     io.Writer
	p       palette
	analyze bool
	showAll bool

	dork    string
	keyword string
	started bool
	matches int
}

func (d *resultPrinter) print(r domain.FileResult) {
	if !d.started || r.Dork != d.dork {
		d.finish()
		d.started = true
		d.dork = r.Dork
		d.keyword = r.Keyword
		d.matches = 0
		fmt.Fprintln(d.out)
		fmt.Fprintln(d.out, d.p.Title.Render("[*] Processing dork:"))
		fmt.Fprintln(d.out, d.p.Title.Render(" └➤ "+r.Dork))
	}

	if !d.analyze || r.LocalPath == "" || (len(r.Keywords) == 0 && len(r.Findings) == 0) {
		return
	}

	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, d.p.Info.Bold(true).Render("[FILE] "+r.LocalPath))
	for _, m := range r.Keywords {
		fmt.Fprintf(d.out, "%s %s\n", d.p.Keyword.Render(fmt.Sprintf("  >%5d |", m.LineNumber)), m.Line)
	}
	d.matches += len(r.Keywords)

	if len(r.Findings) > 0 {
		fmt.Fprintln(d.out)
		fmt.Fprintln(d.out, d.p.Title.Render("   [INF] Pattern Detection Results:"))
		for i, f := range r.Findings {
			if i == findingsShown && !d.showAll {
				fmt.Fprintln(d.out, d.p.Muted.Render(fmt.Sprintf("   ... and %d more", len(r.Findings)-findingsShown)))
				break
			}
			tag := fmt.Sprintf("   [%s] [%s] %s |", f.Severity, f.Label, lineDisplay(f.LineNumber))
			fmt.Fprintf(d.out, "%s %s\n", d.p.Severity(f.Severity).Render(tag), truncate(f.MatchedText, matchedWidth))
		}
		d.matches += len(r.Findings)
	}
}

// finish closes the current dork group.
func (d *resultPrinter) finish() {
	if d.started && d.analyze && d.matches == 0 {
		fmt.Fprintln(d.out, d.p.Warning.Render(
			fmt.Sprintf("[i] No matches found for '%s' in downloaded files.", d.keyword)))
	}
	d.started = false
}

func lineDisplay(n int) string {
	if n <= 0 {
		return ">  ???"
	}
	return fmt.Sprintf(">%5d", n)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func printSummary(out io.Writer, p palette, s *domain.HarvestSummary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, p.Info.Bold(true).Render("[INF] Summary:"))
	fmt.Fprintf(out, "  ├─➤ %d dork(s) searched\n", s.Dorks)
	fmt.Fprintf(out, "  ├─➤ %d files processed\n", s.Results)
	fmt.Fprintf(out, "  ├─➤ %s\n", p.Success.Render(fmt.Sprintf("%d successfully downloaded", s.Downloaded)))

	parts := make([]string, 0, len(domain.AllSeverities()))
	for _, tier := range domain.AllSeverities() {
		parts = append(parts, p.Severity(tier).Render(fmt.Sprintf("%s %d", tier, s.BySeverity[tier])))
	}
	fmt.Fprintf(out, "  └─➤ %d findings (%s)\n", s.Findings, strings.Join(parts, ", "))

	for _, dork := range s.Failed {
		fmt.Fprintln(out, p.Error.Render("[!] Search failed for dork: "+dork))
	}
}
