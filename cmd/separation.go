package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/export"
	"github.com/pable/go-nfl-metrics/internal/report"
	"github.com/pable/go-nfl-metrics/internal/separation"
	"github.com/pable/go-nfl-metrics/internal/storage"
	"github.com/pable/go-nfl-metrics/internal/tracking"
)

var (
	separationDataDir string
	separationOut     string
)

var separationCmd = &cobra.Command{
	Use:   "separation",
	Short: "Compute nearest-defender separation for targeted plays",
	Long: `For every play with a targeted-receiver route label, picks the presumed
target receiver (largest displacement among offensive skill positions), finds
the nearest defender at the throw and snap moments, and stores one record per
play. Plays that cannot be processed are counted and reported, never fatal.`,
	Args: cobra.NoArgs,
	RunE: runSeparation,
}

func init() {
	separationCmd.Flags().StringVar(&separationDataDir, "data", "", "tracking data directory (overrides config)")
	separationCmd.Flags().StringVar(&separationOut, "out", "", "also export separation records as CSV")
}

func runSeparation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dataDir := cfg.Data.TrainDir
	if separationDataDir != "" {
		dataDir = separationDataDir
	}

	fmt.Fprintf(os.Stdout, "Loading tracking data from %s...\n", dataDir)
	frames, err := tracking.LoadWeeks(dataDir, cfg.Data.InputPattern)
	if err != nil {
		return fmt.Errorf("load tracking data: %w", err)
	}

	contexts, err := tracking.LoadSupplementary(cfg.Data.SupplementaryFile)
	if err != nil {
		return fmt.Errorf("load supplementary data: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Finding nearest defenders across %d frames...\n", len(frames))
	records, skips := separation.Find(frames, contexts, cfg.Separation)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.InsertSeparationRecords(records); err != nil {
		return fmt.Errorf("store separation records: %w", err)
	}

	if separationOut != "" {
		f, err := os.Create(separationOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", separationOut, err)
		}
		defer f.Close()
		if err := export.WriteSeparationRecords(f, records); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exported separation records to %s\n", separationOut)
	}

	summary, err := db.SeparationStats()
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	report.PrintSeparationSummary(os.Stdout, summary, skips)

	routes, err := db.SeparationByRoute()
	if err != nil {
		return fmt.Errorf("summarize routes: %w", err)
	}
	if len(routes) > 0 {
		fmt.Fprintln(os.Stdout)
		report.PrintRouteSeparation(os.Stdout, routes)
	}
	return nil
}
