package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/export"
	"github.com/pable/go-nfl-metrics/internal/model"
	"github.com/pable/go-nfl-metrics/internal/report"
	"github.com/pable/go-nfl-metrics/internal/separation"
	"github.com/pable/go-nfl-metrics/internal/storage"
)

var (
	receiversPerTeam int
	receiversOut     string
)

var receiversCmd = &cobra.Command{
	Use:   "receivers",
	Short: "Show the most-targeted receivers per possession team",
	Long: `Counts how often each receiver was the presumed target across the stored
separation records, grouped by possession team. Run 'nflmetrics separation'
first.`,
	Args: cobra.NoArgs,
	RunE: runReceivers,
}

func init() {
	receiversCmd.Flags().IntVar(&receiversPerTeam, "top", 1, "receivers to show per team (0 = all)")
	receiversCmd.Flags().StringVar(&receiversOut, "out", "", "also export target counts as CSV")
}

func runReceivers(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	records, err := db.GetSeparationRecords()
	if err != nil {
		return fmt.Errorf("load separation records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No separation records stored yet. Run 'nflmetrics separation' first.")
		return nil
	}

	plays, err := db.ListPlays()
	if err != nil {
		return fmt.Errorf("load play contexts: %w", err)
	}
	contexts := make(map[model.PlayKey]model.PlayContext, len(plays))
	for _, c := range plays {
		contexts[model.PlayKey{GameID: c.GameID, PlayID: c.PlayID}] = c
	}

	targets := separation.TopReceivers(records, contexts)
	report.PrintTopReceivers(os.Stdout, targets, receiversPerTeam)

	if receiversOut != "" {
		f, err := os.Create(receiversOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", receiversOut, err)
		}
		defer f.Close()
		if err := export.WriteReceiverTargets(f, targets); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
		fmt.Fprintf(os.Stdout, "\nExported target counts to %s\n", receiversOut)
	}
	return nil
}
