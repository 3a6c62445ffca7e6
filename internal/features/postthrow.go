package features

import (
	"github.com/pable/go-nfl-metrics/internal/geom"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// PostThrowFeatures fills the post-throw movement columns from pre-aggregated
// post-throw tracking. Groups without a post-throw aggregate keep NaN in all
// five columns; the pipeline completes either way.
func PostThrowFeatures(rows []model.FrameFeatures, post map[model.PlayerPlayKey]model.PostAggregate) {
	if len(post) == 0 {
		return
	}
	for _, sp := range groupSpans(rows) {
		agg, ok := post[rows[sp.start].Key()]
		if !ok {
			continue
		}

		// Straight-line displacement over the post-throw window, and
		// proximity to the ball-landing spot at its start and end.
		dist := geom.Distance(agg.FirstX, agg.FirstY, agg.LastX, agg.LastY)
		ballX := rows[sp.start].BallLandX
		ballY := rows[sp.start].BallLandY
		finalProx := geom.Distance(agg.LastX, agg.LastY, ballX, ballY)
		initialProx := geom.Distance(agg.FirstX, agg.FirstY, ballX, ballY)

		for i := sp.start; i < sp.end; i++ {
			r := &rows[i]
			r.PostThrowDistance = dist
			r.FinalProximity = finalProx
			r.InitialPostProximity = initialProx
			r.ConvergenceDistance = initialProx - finalProx
			r.NumPostFrames = float64(agg.FrameCount)
		}
	}
}

// AggregatePostFrames reduces raw post-throw frames to one PostAggregate per
// (game, play, player): first/last position by frame id, mean position, and
// the frame count.
func AggregatePostFrames(frames []model.Frame) map[model.PlayerPlayKey]model.PostAggregate {
	type accum struct {
		firstFrame, lastFrame int
		firstX, firstY        float64
		lastX, lastY          float64
		sumX, sumY            float64
		count                 int
	}
	accums := make(map[model.PlayerPlayKey]*accum)
	for _, f := range frames {
		key := f.Key()
		a := accums[key]
		if a == nil {
			a = &accum{firstFrame: f.FrameID, lastFrame: f.FrameID,
				firstX: f.X, firstY: f.Y, lastX: f.X, lastY: f.Y}
			accums[key] = a
		}
		if f.FrameID < a.firstFrame {
			a.firstFrame, a.firstX, a.firstY = f.FrameID, f.X, f.Y
		}
		if f.FrameID >= a.lastFrame {
			a.lastFrame, a.lastX, a.lastY = f.FrameID, f.X, f.Y
		}
		a.sumX += f.X
		a.sumY += f.Y
		a.count++
	}

	out := make(map[model.PlayerPlayKey]model.PostAggregate, len(accums))
	for key, a := range accums {
		out[key] = model.PostAggregate{
			Key:        key,
			FirstX:     a.firstX,
			FirstY:     a.firstY,
			LastX:      a.lastX,
			LastY:      a.lastY,
			MeanX:      a.sumX / float64(a.count),
			MeanY:      a.sumY / float64(a.count),
			FrameCount: a.count,
		}
	}
	return out
}
