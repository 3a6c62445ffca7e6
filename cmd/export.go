package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/export"
	"github.com/pable/go-nfl-metrics/internal/storage"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <features|separation>",
	Short: "Export stored tables as CSV",
	Long: `Exports a stored table as CSV. 'features' writes the play-level feature
rows using the retained-column list from the config; 'separation' writes the
per-play nearest-defender records. NaN values become empty cells and floats
round-trip exactly through strconv.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"features", "separation"},
	RunE:      runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		out = f
	}

	switch args[0] {
	case "features":
		plays, err := db.GetPlayerPlays()
		if err != nil {
			return fmt.Errorf("load play features: %w", err)
		}
		if len(plays) == 0 {
			return fmt.Errorf("no play-level rows stored: run 'nflmetrics features' first")
		}
		if err := export.WritePlayerPlays(out, plays, cfg.RetainColumns); err != nil {
			return fmt.Errorf("export features: %w", err)
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(plays), exportOut)
		}
	case "separation":
		records, err := db.GetSeparationRecords()
		if err != nil {
			return fmt.Errorf("load separation records: %w", err)
		}
		if len(records) == 0 {
			return fmt.Errorf("no separation records stored: run 'nflmetrics separation' first")
		}
		if err := export.WriteSeparationRecords(out, records); err != nil {
			return fmt.Errorf("export separation: %w", err)
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(records), exportOut)
		}
	default:
		return fmt.Errorf("unknown table %q (want features or separation)", args[0])
	}
	return nil
}
