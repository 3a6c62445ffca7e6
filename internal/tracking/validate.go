package tracking

import (
	"fmt"
	"math"
	"sort"

	"github.com/pable/go-nfl-metrics/internal/model"
)

// Validation summarizes data-quality issues in a loaded frame set. Issues
// here are warnings; only missing files and columns abort a run.
type Validation struct {
	Rows          int
	DuplicateRows int
	// MissingByColumn holds the proportion of NaN cells per numeric column,
	// only for columns that have any.
	MissingByColumn map[string]float64
}

// Validate counts duplicate (game, play, player, frame) rows and per-column
// missing-value proportions.
func Validate(frames []model.Frame) Validation {
	v := Validation{Rows: len(frames), MissingByColumn: make(map[string]float64)}
	if len(frames) == 0 {
		return v
	}

	type rowKey struct {
		key     model.PlayerPlayKey
		frameID int
	}
	seen := make(map[rowKey]bool, len(frames))
	missing := make(map[string]int)
	for _, f := range frames {
		rk := rowKey{key: f.Key(), frameID: f.FrameID}
		if seen[rk] {
			v.DuplicateRows++
		}
		seen[rk] = true

		for col, val := range map[string]float64{
			"x": f.X, "y": f.Y, "s": f.Speed, "a": f.Accel,
			"dir": f.Dir, "o": f.Orient,
			"ball_land_x": f.BallLandX, "ball_land_y": f.BallLandY,
			"absolute_yardline_number": f.AbsoluteYardline,
		} {
			if math.IsNaN(val) {
				missing[col]++
			}
		}
	}

	for col, n := range missing {
		v.MissingByColumn[col] = float64(n) / float64(len(frames))
	}
	return v
}

// Warnings renders the validation as printable warning lines, empty when the
// data is clean.
func (v *Validation) Warnings() []string {
	var out []string
	if v.DuplicateRows > 0 {
		out = append(out, fmt.Sprintf("found %d duplicate rows", v.DuplicateRows))
	}

	cols := make([]string, 0, len(v.MissingByColumn))
	for col := range v.MissingByColumn {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		out = append(out, fmt.Sprintf("column %s: %.1f%% missing values", col, v.MissingByColumn[col]*100))
	}
	return out
}
