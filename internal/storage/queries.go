package storage

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/pable/go-nfl-metrics/internal/model"
)

// InsertPlayContexts bulk-inserts play contexts in a transaction. Uses
// INSERT OR REPLACE for idempotency across re-runs.
func (db *DB) InsertPlayContexts(contexts map[model.PlayKey]model.PlayContext) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO play_context(
			game_id, play_id, pass_result, target_route, possession_team,
			coverage_type, coverage_man_zone,
			down, yards_to_go, quarter,
			pass_length, yards_gained, time_to_throw
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range contexts {
		_, err = stmt.Exec(
			c.GameID, c.PlayID, c.PassResult, c.TargetRoute, c.PossessionTeam,
			c.CoverageType, c.CoverageManZone,
			c.Down, c.YardsToGo, c.Quarter,
			nullFloat(c.PassLength), nullFloat(c.YardsGained), nullFloat(c.TimeToThrow),
		)
		if err != nil {
			return fmt.Errorf("insert play_context for %s/%d: %w", c.GameID, c.PlayID, err)
		}
	}
	return tx.Commit()
}

// InsertPlayerPlays bulk-inserts play-level feature rows in a transaction.
// NaN values persist as NULL.
func (db *DB) InsertPlayerPlays(plays []model.PlayerPlay) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO play_features(
			game_id, play_id, player_id, player_name, player_position,
			position_group, player_side, week,
			pass_result, target_route, team_coverage_type, team_coverage_man_zone,
			down, yards_to_go, quarter,
			ball_land_x, ball_land_y, absolute_yardline_number,
			initial_dist_to_ball, min_dist_to_ball,
			avg_speed, max_speed, min_speed, std_speed,
			speed_at_throw, accel_at_throw,
			avg_accel, max_accel, std_accel,
			avg_dir_alignment, avg_orient_alignment, avg_body_control,
			pct_good_dir_alignment,
			avg_closing_rate, reaction_frame_min,
			post_throw_distance, final_proximity_to_ball,
			convergence_distance, num_post_frames
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range plays {
		_, err = stmt.Exec(
			p.GameID, p.PlayID, p.PlayerID, p.PlayerName, p.Position,
			p.PositionGroup, p.Side.String(), p.Week,
			p.PassResult, p.TargetRoute, p.CoverageType, p.CoverageManZone,
			p.Down, p.YardsToGo, p.Quarter,
			nullFloat(p.BallLandX), nullFloat(p.BallLandY), nullFloat(p.AbsoluteYardline),
			nullFloat(p.InitialDistToTarget), nullFloat(p.MinDistToTarget),
			nullFloat(p.AvgSpeed), nullFloat(p.MaxSpeed), nullFloat(p.MinSpeed), nullFloat(p.StdSpeed),
			nullFloat(p.SpeedAtThrow), nullFloat(p.AccelAtThrow),
			nullFloat(p.AvgAccel), nullFloat(p.MaxAccel), nullFloat(p.StdAccel),
			nullFloat(p.AvgDirAlignment), nullFloat(p.AvgOrientAlignment), nullFloat(p.AvgBodyControl),
			nullFloat(p.PctGoodDirAlign),
			nullFloat(p.AvgClosingRate), nullFloat(p.ReactionFrameMin),
			nullFloat(p.PostThrowDistance), nullFloat(p.FinalProximity),
			nullFloat(p.ConvergenceDistance), nullFloat(p.NumPostFrames),
		)
		if err != nil {
			return fmt.Errorf("insert play_features for %s/%d/%d: %w", p.GameID, p.PlayID, p.PlayerID, err)
		}
	}
	return tx.Commit()
}

const playFeatureColumns = `
	game_id, play_id, player_id, player_name, player_position,
	position_group, player_side, week,
	pass_result, target_route, team_coverage_type, team_coverage_man_zone,
	down, yards_to_go, quarter,
	ball_land_x, ball_land_y, absolute_yardline_number,
	initial_dist_to_ball, min_dist_to_ball,
	avg_speed, max_speed, min_speed, std_speed,
	speed_at_throw, accel_at_throw,
	avg_accel, max_accel, std_accel,
	avg_dir_alignment, avg_orient_alignment, avg_body_control,
	pct_good_dir_alignment,
	avg_closing_rate, reaction_frame_min,
	post_throw_distance, final_proximity_to_ball,
	convergence_distance, num_post_frames`

// GetPlayerPlays returns all stored play-level rows ordered by key. NULL
// feature cells come back as NaN.
func (db *DB) GetPlayerPlays() ([]model.PlayerPlay, error) {
	rows, err := db.conn.Query(`
		SELECT` + playFeatureColumns + `
		FROM play_features ORDER BY game_id, play_id, player_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayerPlays(rows)
}

// GetPlayerPlaysForPlay returns the play-level rows of one play.
func (db *DB) GetPlayerPlaysForPlay(gameID string, playID int) ([]model.PlayerPlay, error) {
	rows, err := db.conn.Query(`
		SELECT`+playFeatureColumns+`
		FROM play_features WHERE game_id = ? AND play_id = ?
		ORDER BY player_id`, gameID, playID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayerPlays(rows)
}

func scanPlayerPlays(rows *sql.Rows) ([]model.PlayerPlay, error) {
	var out []model.PlayerPlay
	for rows.Next() {
		var p model.PlayerPlay
		var sideStr string
		var f [24]sql.NullFloat64
		if err := rows.Scan(
			&p.GameID, &p.PlayID, &p.PlayerID, &p.PlayerName, &p.Position,
			&p.PositionGroup, &sideStr, &p.Week,
			&p.PassResult, &p.TargetRoute, &p.CoverageType, &p.CoverageManZone,
			&p.Down, &p.YardsToGo, &p.Quarter,
			&f[0], &f[1], &f[2],
			&f[3], &f[4],
			&f[5], &f[6], &f[7], &f[8],
			&f[9], &f[10],
			&f[11], &f[12], &f[13],
			&f[14], &f[15], &f[16],
			&f[17],
			&f[18], &f[19],
			&f[20], &f[21],
			&f[22], &f[23],
		); err != nil {
			return nil, err
		}
		p.Side = model.ParseSide(sideStr)

		p.BallLandX = floatOrNaN(f[0])
		p.BallLandY = floatOrNaN(f[1])
		p.AbsoluteYardline = floatOrNaN(f[2])
		p.InitialDistToTarget = floatOrNaN(f[3])
		p.MinDistToTarget = floatOrNaN(f[4])
		p.AvgSpeed = floatOrNaN(f[5])
		p.MaxSpeed = floatOrNaN(f[6])
		p.MinSpeed = floatOrNaN(f[7])
		p.StdSpeed = floatOrNaN(f[8])
		p.SpeedAtThrow = floatOrNaN(f[9])
		p.AccelAtThrow = floatOrNaN(f[10])
		p.AvgAccel = floatOrNaN(f[11])
		p.MaxAccel = floatOrNaN(f[12])
		p.StdAccel = floatOrNaN(f[13])
		p.AvgDirAlignment = floatOrNaN(f[14])
		p.AvgOrientAlignment = floatOrNaN(f[15])
		p.AvgBodyControl = floatOrNaN(f[16])
		p.PctGoodDirAlign = floatOrNaN(f[17])
		p.AvgClosingRate = floatOrNaN(f[18])
		p.ReactionFrameMin = floatOrNaN(f[19])
		p.PostThrowDistance = floatOrNaN(f[20])
		p.FinalProximity = floatOrNaN(f[21])
		p.ConvergenceDistance = floatOrNaN(f[22])
		p.NumPostFrames = floatOrNaN(f[23])
		out = append(out, p)
	}
	return out, rows.Err()
}

// InsertSeparationRecords bulk-inserts separation records in a transaction.
func (db *DB) InsertSeparationRecords(records []model.SeparationRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO separation_records(
			game_id, play_id, route,
			receiver_id, receiver_name, receiver_position, receiver_x, receiver_y,
			nearest_defender_id, nearest_defender_name, nearest_defender_position,
			separation_at_throw, coverage_cushion, separation_change,
			defenders_within_3yd, defenders_within_5yd, throw_frame_id
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		_, err = stmt.Exec(
			r.GameID, r.PlayID, r.Route,
			r.ReceiverID, r.ReceiverName, r.ReceiverPosition,
			nullFloat(r.ReceiverX), nullFloat(r.ReceiverY),
			r.NearestDefenderID, r.NearestDefenderName, r.NearestDefenderPosition,
			nullFloat(r.SeparationAtThrow), nullFloat(r.CoverageCushion), nullFloat(r.SeparationChange),
			r.DefendersWithin3yd, r.DefendersWithin5yd, r.ThrowFrameID,
		)
		if err != nil {
			return fmt.Errorf("insert separation_records for %s/%d: %w", r.GameID, r.PlayID, err)
		}
	}
	return tx.Commit()
}

// GetSeparationRecords returns all stored separation records ordered by key.
func (db *DB) GetSeparationRecords() ([]model.SeparationRecord, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, play_id, route,
		       receiver_id, receiver_name, receiver_position, receiver_x, receiver_y,
		       nearest_defender_id, nearest_defender_name, nearest_defender_position,
		       separation_at_throw, coverage_cushion, separation_change,
		       defenders_within_3yd, defenders_within_5yd, throw_frame_id
		FROM separation_records ORDER BY game_id, play_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SeparationRecord
	for rows.Next() {
		var r model.SeparationRecord
		var rx, ry, sep, cushion, change sql.NullFloat64
		if err := rows.Scan(
			&r.GameID, &r.PlayID, &r.Route,
			&r.ReceiverID, &r.ReceiverName, &r.ReceiverPosition, &rx, &ry,
			&r.NearestDefenderID, &r.NearestDefenderName, &r.NearestDefenderPosition,
			&sep, &cushion, &change,
			&r.DefendersWithin3yd, &r.DefendersWithin5yd, &r.ThrowFrameID,
		); err != nil {
			return nil, err
		}
		r.ReceiverX = floatOrNaN(rx)
		r.ReceiverY = floatOrNaN(ry)
		r.SeparationAtThrow = floatOrNaN(sep)
		r.CoverageCushion = floatOrNaN(cushion)
		r.SeparationChange = floatOrNaN(change)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListPlays returns stored play contexts ordered by key.
func (db *DB) ListPlays() ([]model.PlayContext, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, play_id, pass_result, target_route, possession_team,
		       coverage_type, coverage_man_zone,
		       down, yards_to_go, quarter,
		       pass_length, yards_gained, time_to_throw
		FROM play_context ORDER BY game_id, play_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayContext
	for rows.Next() {
		var c model.PlayContext
		var passLen, yards, ttt sql.NullFloat64
		if err := rows.Scan(
			&c.GameID, &c.PlayID, &c.PassResult, &c.TargetRoute, &c.PossessionTeam,
			&c.CoverageType, &c.CoverageManZone,
			&c.Down, &c.YardsToGo, &c.Quarter,
			&passLen, &yards, &ttt,
		); err != nil {
			return nil, err
		}
		c.PassLength = floatOrNaN(passLen)
		c.YardsGained = floatOrNaN(yards)
		c.TimeToThrow = floatOrNaN(ttt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// nullFloat maps NaN to NULL for storage; floatOrNaN reverses it on read.
func nullFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
