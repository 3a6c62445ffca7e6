package storage

import (
	"database/sql"
	"fmt"
	"math"
)

// GroupSummary holds per-position-group means over the stored play-level
// feature table, used by the feature summary report.
type GroupSummary struct {
	PositionGroup string
	Players       int
	Plays         int

	AvgInitialDist float64
	AvgMinDist     float64
	AvgSpeed       float64
	AvgAlignment   float64
	AvgClosingRate float64
	ReactingPct    float64
}

// GroupSummaries aggregates the play-level table by position group.
func (db *DB) GroupSummaries() ([]GroupSummary, error) {
	rows, err := db.conn.Query(`
		SELECT position_group,
		       COUNT(DISTINCT player_id),
		       COUNT(*),
		       AVG(initial_dist_to_ball),
		       AVG(min_dist_to_ball),
		       AVG(avg_speed),
		       AVG(avg_dir_alignment),
		       AVG(avg_closing_rate),
		       AVG(CASE WHEN reaction_frame_min IS NOT NULL THEN 1.0 ELSE 0.0 END)
		FROM play_features
		WHERE position_group != ''
		GROUP BY position_group
		ORDER BY position_group`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupSummary
	for rows.Next() {
		var s GroupSummary
		var initial, minDist, speed, align, closing, reacting sql.NullFloat64
		if err := rows.Scan(&s.PositionGroup, &s.Players, &s.Plays,
			&initial, &minDist, &speed, &align, &closing, &reacting); err != nil {
			return nil, err
		}
		s.AvgInitialDist = floatOrNaN(initial)
		s.AvgMinDist = floatOrNaN(minDist)
		s.AvgSpeed = floatOrNaN(speed)
		s.AvgAlignment = floatOrNaN(align)
		s.AvgClosingRate = floatOrNaN(closing)
		s.ReactingPct = floatOrNaN(reacting)
		out = append(out, s)
	}
	return out, rows.Err()
}

// SeparationSummary holds aggregate statistics over the stored separation
// records.
type SeparationSummary struct {
	Plays         int
	AvgSeparation float64
	MinSeparation float64
	MaxSeparation float64
	AvgCushion    float64
	TightCoverage int // plays with at least one defender within the tight radius
}

// SeparationStats aggregates the separation table.
func (db *DB) SeparationStats() (SeparationSummary, error) {
	var s SeparationSummary
	var avg, min, max, cushion sql.NullFloat64
	err := db.conn.QueryRow(`
		SELECT COUNT(*),
		       AVG(separation_at_throw),
		       MIN(separation_at_throw),
		       MAX(separation_at_throw),
		       AVG(coverage_cushion),
		       COALESCE(SUM(CASE WHEN defenders_within_3yd > 0 THEN 1 ELSE 0 END), 0)
		FROM separation_records`).
		Scan(&s.Plays, &avg, &min, &max, &cushion, &s.TightCoverage)
	if err != nil {
		return s, err
	}
	s.AvgSeparation = floatOrNaN(avg)
	s.MinSeparation = floatOrNaN(min)
	s.MaxSeparation = floatOrNaN(max)
	s.AvgCushion = floatOrNaN(cushion)
	return s, nil
}

// RouteSeparation holds mean separation per target route.
type RouteSeparation struct {
	Route         string
	Plays         int
	AvgSeparation float64
}

// SeparationByRoute aggregates separation at throw per route, most frequent
// routes first.
func (db *DB) SeparationByRoute() ([]RouteSeparation, error) {
	rows, err := db.conn.Query(`
		SELECT route, COUNT(*), AVG(separation_at_throw)
		FROM separation_records
		WHERE route != ''
		GROUP BY route
		ORDER BY COUNT(*) DESC, route`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RouteSeparation
	for rows.Next() {
		var r RouteSeparation
		var avg sql.NullFloat64
		if err := rows.Scan(&r.Route, &r.Plays, &avg); err != nil {
			return nil, err
		}
		r.AvgSeparation = floatOrNaN(avg)
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw executes an arbitrary query and returns column names plus rows of
// stringified values. Used by the sql command.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		raw := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		if math.IsNaN(x) {
			return "NULL"
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
