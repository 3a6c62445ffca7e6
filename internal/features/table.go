// Package features derives play-level features from raw tracking frames: the
// spatial, kinematic, directional, and temporal stages plus the final
// frame-to-play collapse. Group summaries are computed per (game, play,
// player) and broadcast back onto every frame of the group, so the collapse
// is a first-row-per-group selection.
package features

import (
	"math"
	"sort"

	"github.com/pable/go-nfl-metrics/internal/model"
)

// NewTable builds the per-frame feature table from raw frames. Rows are
// sorted by (game, play, player, frame) — the temporal stage depends on this
// order — and every derived column starts as NaN.
func NewTable(frames []model.Frame) []model.FrameFeatures {
	rows := make([]model.FrameFeatures, len(frames))
	nan := math.NaN()
	for i, f := range frames {
		rows[i] = model.FrameFeatures{
			Frame: f,

			DistToTarget:   nan,
			DistFromLOS:    nan,
			DistFromCenter: nan,

			AngleToBall:     nan,
			DirAlignment:    nan,
			OrientAlignment: nan,
			BodyControl:     nan,

			DistChange:        nan,
			ClosingRate:       nan,
			ClosingRateSmooth: nan,

			AvgSpeed: nan, MaxSpeed: nan, MinSpeed: nan, StdSpeed: nan,
			AvgAccel: nan, MaxAccel: nan, StdAccel: nan,
			SpeedAtThrow: nan, AccelAtThrow: nan,

			AvgDirAlignment:    nan,
			AvgOrientAlignment: nan,
			AvgBodyControl:     nan,
			PctGoodDirAlign:    nan,

			AvgClosingRate:      nan,
			ReactionFrameMin:    nan,
			InitialDistToTarget: nan,
			MinDistToTarget:     nan,

			PostThrowDistance:    nan,
			FinalProximity:       nan,
			InitialPostProximity: nan,
			ConvergenceDistance:  nan,
			NumPostFrames:        nan,
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := &rows[i], &rows[j]
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		if a.PlayID != b.PlayID {
			return a.PlayID < b.PlayID
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		return a.FrameID < b.FrameID
	})
	return rows
}

// span is a contiguous [start,end) index range of rows sharing one
// (game, play, player) key.
type span struct {
	start, end int
}

// groupSpans returns the contiguous group ranges of a sorted table.
func groupSpans(rows []model.FrameFeatures) []span {
	var spans []span
	for i := 0; i < len(rows); {
		j := i + 1
		key := rows[i].Key()
		for j < len(rows) && rows[j].Key() == key {
			j++
		}
		spans = append(spans, span{start: i, end: j})
		i = j
	}
	return spans
}
