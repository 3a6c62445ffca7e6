package features

import (
	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// Engineer runs the full feature pipeline over raw tracking frames: spatial,
// kinematic, directional, and temporal stages in order, plus post-throw
// columns when post-throw aggregates are supplied (nil is fine). The returned
// table is sorted by (game, play, player, frame) with every group column
// broadcast onto each frame of its group.
func Engineer(frames []model.Frame, post map[model.PlayerPlayKey]model.PostAggregate, cfg config.FeaturesConfig) []model.FrameFeatures {
	rows := NewTable(frames)
	SpatialFeatures(rows, cfg.Spatial)
	KinematicFeatures(rows, cfg.Kinematic)
	DirectionalFeatures(rows, cfg.Directional)
	TemporalFeatures(rows, cfg.Temporal)
	PostThrowFeatures(rows, post)
	return rows
}

// FilterFrames keeps only frames for the configured side and position groups.
// An empty side or empty position lists disable that filter.
func FilterFrames(frames []model.Frame, cfg config.FiltersConfig) []model.Frame {
	positions := make(map[string]struct{})
	for _, p := range cfg.SafetyPositions {
		positions[p] = struct{}{}
	}
	for _, p := range cfg.CornerbackPositions {
		positions[p] = struct{}{}
	}
	side := model.ParseSide(cfg.PlayerSide)

	var out []model.Frame
	for _, f := range frames {
		if side != model.SideUnknown && f.Side != side {
			continue
		}
		if len(positions) > 0 {
			if _, ok := positions[f.Position]; !ok {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// PlayLevel collapses the per-frame feature table to one row per (game, play,
// player), taking each retained column's first value within the group — valid
// because the group broadcasts made every aggregate column constant within a
// group. Context rows are joined by (game, play); plays with no context keep
// zero-valued context fields.
func PlayLevel(rows []model.FrameFeatures, contexts map[model.PlayKey]model.PlayContext, filters config.FiltersConfig) []model.PlayerPlay {
	var out []model.PlayerPlay
	for _, sp := range groupSpans(rows) {
		first := &rows[sp.start]

		p := model.PlayerPlay{
			GameID:   first.GameID,
			PlayID:   first.PlayID,
			PlayerID: first.PlayerID,

			PlayerName:    first.PlayerName,
			Position:      first.Position,
			PositionGroup: filters.PositionGroup(first.Position),
			Side:          first.Side,
			Week:          first.Week,

			BallLandX:        first.BallLandX,
			BallLandY:        first.BallLandY,
			AbsoluteYardline: first.AbsoluteYardline,

			InitialDistToTarget: first.InitialDistToTarget,
			MinDistToTarget:     first.MinDistToTarget,
			AvgSpeed:            first.AvgSpeed,
			MaxSpeed:            first.MaxSpeed,
			MinSpeed:            first.MinSpeed,
			StdSpeed:            first.StdSpeed,
			SpeedAtThrow:        first.SpeedAtThrow,
			AccelAtThrow:        first.AccelAtThrow,
			AvgAccel:            first.AvgAccel,
			MaxAccel:            first.MaxAccel,
			StdAccel:            first.StdAccel,
			AvgDirAlignment:     first.AvgDirAlignment,
			AvgOrientAlignment:  first.AvgOrientAlignment,
			AvgBodyControl:      first.AvgBodyControl,
			PctGoodDirAlign:     first.PctGoodDirAlign,
			AvgClosingRate:      first.AvgClosingRate,
			ReactionFrameMin:    first.ReactionFrameMin,

			PostThrowDistance:   first.PostThrowDistance,
			FinalProximity:      first.FinalProximity,
			ConvergenceDistance: first.ConvergenceDistance,
			NumPostFrames:       first.NumPostFrames,
		}

		if ctx, ok := contexts[first.PlayKey()]; ok {
			p.PassResult = ctx.PassResult
			p.TargetRoute = ctx.TargetRoute
			p.CoverageType = ctx.CoverageType
			p.CoverageManZone = ctx.CoverageManZone
			p.Down = ctx.Down
			p.YardsToGo = ctx.YardsToGo
			p.Quarter = ctx.Quarter
		}

		out = append(out, p)
	}
	return out
}
