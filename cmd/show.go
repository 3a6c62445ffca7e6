package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/report"
	"github.com/pable/go-nfl-metrics/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <game_id> <play_id>",
	Short: "Show play-level feature rows for one play",
	Args:  cobra.ExactArgs(2),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	gameID := args[0]
	playID, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad play id %q: %w", args[1], err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	plays, err := db.GetPlayerPlaysForPlay(gameID, playID)
	if err != nil {
		return fmt.Errorf("load play features: %w", err)
	}
	if len(plays) == 0 {
		fmt.Fprintf(os.Stdout, "No feature rows for play %s/%d.\n", gameID, playID)
		return nil
	}

	p := plays[0]
	fmt.Fprintf(os.Stdout, "\nGame %s  play %d  |  %s, %d&%d Q%d  |  route %s  |  coverage %s\n\n",
		p.GameID, p.PlayID, p.PassResult, p.Down, p.YardsToGo, p.Quarter, p.TargetRoute, p.CoverageType)
	report.PrintPlayerPlays(os.Stdout, plays)
	return nil
}
