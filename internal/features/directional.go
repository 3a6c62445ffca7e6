package features

import (
	"math"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/geom"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// DirectionalFeatures fills the per-frame angle-alignment columns and their
// group averages: how well movement direction and body orientation track the
// ball-landing spot, and the fraction of frames per group where the movement
// direction is within the configured threshold.
func DirectionalFeatures(rows []model.FrameFeatures, cfg config.DirectionalConfig) {
	for i := range rows {
		r := &rows[i]
		r.AngleToBall = geom.AngleToTarget(r.X, r.Y, r.BallLandX, r.BallLandY)
		r.DirAlignment = geom.AngularDifference(r.Dir, r.AngleToBall)
		r.OrientAlignment = geom.AngularDifference(r.Orient, r.AngleToBall)
		r.BodyControl = geom.AngularDifference(r.Dir, r.Orient)
		r.GoodDirAlign = !math.IsNaN(r.DirAlignment) && r.DirAlignment < cfg.AlignmentThreshold
	}

	for _, sp := range groupSpans(rows) {
		n := sp.end - sp.start
		dirs := make([]float64, 0, n)
		orients := make([]float64, 0, n)
		controls := make([]float64, 0, n)
		good := 0
		for i := sp.start; i < sp.end; i++ {
			dirs = append(dirs, rows[i].DirAlignment)
			orients = append(orients, rows[i].OrientAlignment)
			controls = append(controls, rows[i].BodyControl)
			if rows[i].GoodDirAlign {
				good++
			}
		}

		avgDir := nanMean(dirs)
		avgOrient := nanMean(orients)
		avgControl := nanMean(controls)
		pctGood := float64(good) / float64(n)

		for i := sp.start; i < sp.end; i++ {
			r := &rows[i]
			r.AvgDirAlignment = avgDir
			r.AvgOrientAlignment = avgOrient
			r.AvgBodyControl = avgControl
			r.PctGoodDirAlign = pctGood
		}
	}
}
