package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/export"
	"github.com/pable/go-nfl-metrics/internal/features"
	"github.com/pable/go-nfl-metrics/internal/model"
	"github.com/pable/go-nfl-metrics/internal/report"
	"github.com/pable/go-nfl-metrics/internal/storage"
	"github.com/pable/go-nfl-metrics/internal/tracking"
)

var (
	featuresDataDir string
	featuresOut     string
	featuresNoPost  bool
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Run the feature pipeline over weekly tracking data",
	Long: `Loads the weekly pre-throw tracking files and the supplementary play table,
engineers spatial, kinematic, directional, and temporal features per frame,
collapses them to one row per (game, play, player), and stores the result.

Post-throw weekly files are picked up when present; their absence leaves the
post-throw columns empty without failing the run.`,
	Args: cobra.NoArgs,
	RunE: runFeatures,
}

func init() {
	featuresCmd.Flags().StringVar(&featuresDataDir, "data", "", "tracking data directory (overrides config)")
	featuresCmd.Flags().StringVar(&featuresOut, "out", "", "also export the play-level table as CSV")
	featuresCmd.Flags().BoolVar(&featuresNoPost, "no-post", false, "skip post-throw files even if present")
}

func runFeatures(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dataDir := cfg.Data.TrainDir
	if featuresDataDir != "" {
		dataDir = featuresDataDir
	}

	fmt.Fprintf(os.Stdout, "Loading tracking data from %s...\n", dataDir)
	frames, err := tracking.LoadWeeks(dataDir, cfg.Data.InputPattern)
	if err != nil {
		return fmt.Errorf("load tracking data: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Loaded %d frames\n", len(frames))

	validation := tracking.Validate(frames)
	for _, warning := range validation.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}

	fmt.Fprintf(os.Stdout, "Loading supplementary data from %s...\n", cfg.Data.SupplementaryFile)
	contexts, err := tracking.LoadSupplementary(cfg.Data.SupplementaryFile)
	if err != nil {
		return fmt.Errorf("load supplementary data: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Loaded %d play contexts\n", len(contexts))
	tracking.AttachTimeToThrow(contexts, frames)

	var post map[model.PlayerPlayKey]model.PostAggregate
	if !featuresNoPost {
		postFrames, err := tracking.LoadWeeks(dataDir, cfg.Data.PostPattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: no post-throw data (%v), post-throw features will be empty\n", err)
		} else {
			post = features.AggregatePostFrames(postFrames)
			fmt.Fprintf(os.Stdout, "Aggregated post-throw tracking for %d player-plays\n", len(post))
		}
	}

	filtered := features.FilterFrames(frames, cfg.Filters)
	fmt.Fprintf(os.Stdout, "Engineering features over %d defensive-back frames...\n", len(filtered))
	table := features.Engineer(filtered, post, cfg.Features)
	plays := features.PlayLevel(table, contexts, cfg.Filters)
	fmt.Fprintf(os.Stdout, "Collapsed to %d play-level rows\n", len(plays))

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.InsertPlayContexts(contexts); err != nil {
		return fmt.Errorf("store play contexts: %w", err)
	}
	if err := db.InsertPlayerPlays(plays); err != nil {
		return fmt.Errorf("store play features: %w", err)
	}

	if featuresOut != "" {
		f, err := os.Create(featuresOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", featuresOut, err)
		}
		defer f.Close()
		if err := export.WritePlayerPlays(f, plays, cfg.RetainColumns); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Exported play-level table to %s\n", featuresOut)
	}

	summaries, err := db.GroupSummaries()
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	fmt.Fprintln(os.Stdout)
	report.PrintGroupSummaries(os.Stdout, summaries)
	return nil
}
