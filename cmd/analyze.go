package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/report"
	"github.com/pable/go-nfl-metrics/internal/stats"
	"github.com/pable/go-nfl-metrics/internal/storage"
)

var analyzeOut string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the safeties-vs-cornerbacks hypothesis tests",
	Long: `Runs the hypothesis battery over the stored play-level table:

  H1  safeties start farther from the ball landing spot (one-tailed t-test)
  H2  directional alignment differs between groups (two-tailed t-test)
  H3  cornerbacks carry more speed (one-tailed t-test)
  H4  reacting at all is associated with position group (chi-square)

Each t-test picks the pooled or Welch variant from a Levene homogeneity
check and reports Cohen's d alongside. Run 'nflmetrics features' first.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "write results JSON to this file (default: statistics.json in the output dir)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.GetPlayerPlays()
	if err != nil {
		return fmt.Errorf("load play features: %w", err)
	}
	if len(plays) == 0 {
		return fmt.Errorf("no play-level rows stored: run 'nflmetrics features' first")
	}

	results, err := stats.Analyze(plays, cfg.Analysis)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	report.PrintAnalysisResults(os.Stdout, results)

	outPath := analyzeOut
	if outPath == "" {
		if err := os.MkdirAll(cfg.Data.OutputDir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		outPath = cfg.Data.OutputDir + "/statistics.json"
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\nResults written to %s\n", outPath)
	return nil
}
