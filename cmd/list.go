package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored plays",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.ListPlays()
	if err != nil {
		return fmt.Errorf("list plays: %w", err)
	}
	if len(plays) == 0 {
		fmt.Fprintln(os.Stdout, "No plays stored yet. Run 'nflmetrics features' to load data.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %6s  %-8s  %-10s  %-10s  %4s  %5s  %7s\n",
		"GAME", "PLAY", "RESULT", "ROUTE", "COVERAGE", "DOWN", "DIST", "TTT")
	fmt.Fprintf(os.Stdout, "%-12s  %6s  %-8s  %-10s  %-10s  %4s  %5s  %7s\n",
		"────────────", "──────", "────────", "──────────", "──────────", "────", "─────", "───────")
	for _, p := range plays {
		route := p.TargetRoute
		if route == "" {
			route = "—"
		}
		fmt.Fprintf(os.Stdout, "%-12s  %6d  %-8s  %-10s  %-10s  %4d  %5d  %6.1fs\n",
			p.GameID, p.PlayID, p.PassResult, route, p.CoverageType, p.Down, p.YardsToGo, p.TimeToThrow)
	}
	fmt.Fprintf(os.Stdout, "\n(%d plays)\n", len(plays))
	return nil
}
