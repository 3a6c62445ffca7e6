package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-nfl-metrics/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the metrics database",
	Long: `Run an arbitrary SQL query against the metrics database and print results as a table.

Schema overview:
  play_context(game_id TEXT, play_id, pass_result, target_route, possession_team,
    coverage_type, coverage_man_zone, down, yards_to_go, quarter, pass_length,
    yards_gained, time_to_throw)
  play_features(game_id TEXT, play_id, player_id, player_name, player_position,
    position_group, player_side, week, initial_dist_to_ball, min_dist_to_ball,
    avg_speed, max_speed, std_speed, speed_at_throw, avg_accel, max_accel,
    avg_dir_alignment, avg_orient_alignment, pct_good_dir_alignment,
    avg_closing_rate, reaction_frame_min, post_throw_distance,
    final_proximity_to_ball, convergence_distance, ...)
  separation_records(game_id TEXT, play_id, route, receiver_id, receiver_name,
    nearest_defender_id, nearest_defender_name, separation_at_throw,
    coverage_cushion, separation_change, defenders_within_3yd,
    defenders_within_5yd, throw_frame_id)

Note: game_id is stored as TEXT. Use quotes: WHERE game_id = '2022091100'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
