// Package export writes the play-level and separation tables as CSV.
// Float cells use the shortest round-trippable representation, so reading an
// exported file back reproduces every non-NaN value exactly; NaN cells are
// written empty.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/pable/go-nfl-metrics/internal/model"
)

// playColumn maps a play-level export column name to its cell value.
var playColumn = map[string]func(*model.PlayerPlay) string{
	"game_id":         func(p *model.PlayerPlay) string { return p.GameID },
	"play_id":         func(p *model.PlayerPlay) string { return strconv.Itoa(p.PlayID) },
	"player_id":       func(p *model.PlayerPlay) string { return strconv.Itoa(p.PlayerID) },
	"player_name":     func(p *model.PlayerPlay) string { return p.PlayerName },
	"player_position": func(p *model.PlayerPlay) string { return p.Position },
	"position_group":  func(p *model.PlayerPlay) string { return p.PositionGroup },
	"player_side":     func(p *model.PlayerPlay) string { return p.Side.String() },
	"week":            func(p *model.PlayerPlay) string { return p.Week },

	"pass_result":            func(p *model.PlayerPlay) string { return p.PassResult },
	"target_route":           func(p *model.PlayerPlay) string { return p.TargetRoute },
	"team_coverage_type":     func(p *model.PlayerPlay) string { return p.CoverageType },
	"team_coverage_man_zone": func(p *model.PlayerPlay) string { return p.CoverageManZone },
	"down":                   func(p *model.PlayerPlay) string { return strconv.Itoa(p.Down) },
	"yards_to_go":            func(p *model.PlayerPlay) string { return strconv.Itoa(p.YardsToGo) },
	"quarter":                func(p *model.PlayerPlay) string { return strconv.Itoa(p.Quarter) },

	"ball_land_x":              func(p *model.PlayerPlay) string { return cell(p.BallLandX) },
	"ball_land_y":              func(p *model.PlayerPlay) string { return cell(p.BallLandY) },
	"absolute_yardline_number": func(p *model.PlayerPlay) string { return cell(p.AbsoluteYardline) },

	"initial_dist_to_ball":    func(p *model.PlayerPlay) string { return cell(p.InitialDistToTarget) },
	"min_dist_to_ball":        func(p *model.PlayerPlay) string { return cell(p.MinDistToTarget) },
	"avg_speed":               func(p *model.PlayerPlay) string { return cell(p.AvgSpeed) },
	"max_speed":               func(p *model.PlayerPlay) string { return cell(p.MaxSpeed) },
	"min_speed":               func(p *model.PlayerPlay) string { return cell(p.MinSpeed) },
	"std_speed":               func(p *model.PlayerPlay) string { return cell(p.StdSpeed) },
	"speed_at_throw":          func(p *model.PlayerPlay) string { return cell(p.SpeedAtThrow) },
	"accel_at_throw":          func(p *model.PlayerPlay) string { return cell(p.AccelAtThrow) },
	"avg_accel":               func(p *model.PlayerPlay) string { return cell(p.AvgAccel) },
	"max_accel":               func(p *model.PlayerPlay) string { return cell(p.MaxAccel) },
	"std_accel":               func(p *model.PlayerPlay) string { return cell(p.StdAccel) },
	"avg_dir_alignment":       func(p *model.PlayerPlay) string { return cell(p.AvgDirAlignment) },
	"avg_orient_alignment":    func(p *model.PlayerPlay) string { return cell(p.AvgOrientAlignment) },
	"avg_body_control":        func(p *model.PlayerPlay) string { return cell(p.AvgBodyControl) },
	"pct_good_dir_alignment":  func(p *model.PlayerPlay) string { return cell(p.PctGoodDirAlign) },
	"avg_closing_rate":        func(p *model.PlayerPlay) string { return cell(p.AvgClosingRate) },
	"reaction_frame_min":      func(p *model.PlayerPlay) string { return cell(p.ReactionFrameMin) },
	"post_throw_distance":     func(p *model.PlayerPlay) string { return cell(p.PostThrowDistance) },
	"final_proximity_to_ball": func(p *model.PlayerPlay) string { return cell(p.FinalProximity) },
	"convergence_distance":    func(p *model.PlayerPlay) string { return cell(p.ConvergenceDistance) },
	"num_post_frames":         func(p *model.PlayerPlay) string { return cell(p.NumPostFrames) },
}

// WritePlayerPlays writes play-level rows with the given column allow-list.
// Unknown column names error rather than silently exporting an empty column.
func WritePlayerPlays(w io.Writer, plays []model.PlayerPlay, columns []string) error {
	getters := make([]func(*model.PlayerPlay) string, len(columns))
	for i, col := range columns {
		g, ok := playColumn[col]
		if !ok {
			return fmt.Errorf("unknown export column %q", col)
		}
		getters[i] = g
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for i := range plays {
		for j, g := range getters {
			row[j] = g(&plays[i])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SeparationColumns is the fixed header of the separation export.
var SeparationColumns = []string{
	"game_id", "play_id", "route",
	"receiver_id", "receiver_name", "receiver_position", "receiver_x", "receiver_y",
	"nearest_defender_id", "nearest_defender_name", "nearest_defender_position",
	"separation_at_throw", "coverage_cushion", "separation_change",
	"defenders_within_3yd", "defenders_within_5yd", "throw_frame_id",
}

// WriteSeparationRecords writes the separation table.
func WriteSeparationRecords(w io.Writer, records []model.SeparationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SeparationColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.GameID, strconv.Itoa(r.PlayID), r.Route,
			strconv.Itoa(r.ReceiverID), r.ReceiverName, r.ReceiverPosition,
			cell(r.ReceiverX), cell(r.ReceiverY),
			strconv.Itoa(r.NearestDefenderID), r.NearestDefenderName, r.NearestDefenderPosition,
			cell(r.SeparationAtThrow), cell(r.CoverageCushion), cell(r.SeparationChange),
			strconv.Itoa(r.DefendersWithin3yd), strconv.Itoa(r.DefendersWithin5yd),
			strconv.Itoa(r.ThrowFrameID),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReceiverTargets writes the per-team target counts.
func WriteReceiverTargets(w io.Writer, targets []model.ReceiverTargets) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"player_name", "player_position", "possession_team", "targets"}); err != nil {
		return err
	}
	for _, t := range targets {
		if err := cw.Write([]string{t.PlayerName, t.Position, t.PossessionTeam, strconv.Itoa(t.Targets)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
