package features

import (
	"math"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// TemporalFeatures fills the order-sensitive columns: frame-to-frame closing
// rate toward the ball-landing spot, its trailing moving average, the
// reaction-frame heuristic, and the initial/minimum distances. Requires the
// table produced by NewTable (frames sorted by frame id within each group);
// SpatialFeatures must have run first to populate DistToTarget.
func TemporalFeatures(rows []model.FrameFeatures, cfg config.TemporalConfig) {
	for _, sp := range groupSpans(rows) {
		n := sp.end - sp.start

		// Diff of distance-to-target; the first frame has no predecessor.
		closing := make([]float64, n)
		closing[0] = math.NaN()
		for i := 1; i < n; i++ {
			cur := rows[sp.start+i].DistToTarget
			prev := rows[sp.start+i-1].DistToTarget
			closing[i] = -(cur - prev) // positive = getting closer
		}
		for i := 0; i < n; i++ {
			r := &rows[sp.start+i]
			if i == 0 {
				r.DistChange = math.NaN()
			} else {
				r.DistChange = -closing[i]
			}
			r.ClosingRate = closing[i]
		}

		avgClosing := nanMean(closing)

		// Trailing moving average, window clipped at the group start so the
		// first element averages only itself, the second the first two, and
		// so on until the window reaches full size.
		reactionFrame := math.NaN()
		for i := 0; i < n; i++ {
			lo := i - cfg.ReactionWindow + 1
			if lo < 0 {
				lo = 0
			}
			smooth := nanMean(closing[lo : i+1])

			r := &rows[sp.start+i]
			r.ClosingRateSmooth = smooth
			r.Reacting = !math.IsNaN(smooth) && smooth > cfg.ReactionThreshold
			if r.Reacting {
				fid := float64(r.FrameID)
				if math.IsNaN(reactionFrame) || fid < reactionFrame {
					reactionFrame = fid
				}
			}
		}

		dists := make([]float64, n)
		for i := 0; i < n; i++ {
			dists[i] = rows[sp.start+i].DistToTarget
		}
		initial := dists[0]
		minDist := nanMin(dists)

		for i := sp.start; i < sp.end; i++ {
			r := &rows[i]
			r.AvgClosingRate = avgClosing
			r.ReactionFrameMin = reactionFrame
			r.InitialDistToTarget = initial
			r.MinDistToTarget = minDist
		}
	}
}
