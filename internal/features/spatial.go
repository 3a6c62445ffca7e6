package features

import (
	"math"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/geom"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// SpatialFeatures fills the purely elementwise positioning columns: distance
// to the ball-landing spot, distance from the line of scrimmage, and the
// field-position flags.
func SpatialFeatures(rows []model.FrameFeatures, cfg config.SpatialConfig) {
	center := cfg.FieldWidth / 2
	halfHash := cfg.HashWidth / 2

	for i := range rows {
		r := &rows[i]
		r.DistToTarget = geom.Distance(r.X, r.Y, r.BallLandX, r.BallLandY)
		r.DistFromLOS = math.Abs(r.X - r.AbsoluteYardline)
		r.DistFromCenter = math.Abs(r.Y - center)
		r.NearHash = r.DistFromCenter <= halfHash
		r.NearSideline = r.Y < cfg.SidelineMargin || r.Y > cfg.FieldWidth-cfg.SidelineMargin
	}
}
