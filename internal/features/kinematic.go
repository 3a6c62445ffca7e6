package features

import (
	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// KinematicFeatures computes the configured summary statistics over each
// group's speed and acceleration series and broadcasts them onto every frame
// of the group. Metrics not named in the config stay NaN.
func KinematicFeatures(rows []model.FrameFeatures, cfg config.KinematicConfig) {
	for _, sp := range groupSpans(rows) {
		n := sp.end - sp.start
		speeds := make([]float64, 0, n)
		accels := make([]float64, 0, n)
		for i := sp.start; i < sp.end; i++ {
			speeds = append(speeds, rows[i].Speed)
			accels = append(accels, rows[i].Accel)
		}

		var avgS, maxS, minS, stdS = rows[sp.start].AvgSpeed, rows[sp.start].MaxSpeed, rows[sp.start].MinSpeed, rows[sp.start].StdSpeed
		for _, metric := range cfg.SpeedMetrics {
			switch metric {
			case "mean":
				avgS = nanMean(speeds)
			case "max":
				maxS = nanMax(speeds)
			case "min":
				minS = nanMin(speeds)
			case "std":
				stdS = nanStd(speeds)
			}
		}

		var avgA, maxA, stdA = rows[sp.start].AvgAccel, rows[sp.start].MaxAccel, rows[sp.start].StdAccel
		for _, metric := range cfg.AccelerationMetrics {
			switch metric {
			case "mean":
				avgA = nanMean(accels)
			case "max":
				maxA = nanMax(accels)
			case "std":
				stdA = nanStd(accels)
			}
		}

		// Rows are sorted by frame id, so the span's last row is the throw
		// moment. A single-frame group's at-throw value is its own value.
		speedAtThrow := rows[sp.start].SpeedAtThrow
		accelAtThrow := rows[sp.start].AccelAtThrow
		if cfg.AtThrow {
			speedAtThrow = rows[sp.end-1].Speed
			accelAtThrow = rows[sp.end-1].Accel
		}

		for i := sp.start; i < sp.end; i++ {
			r := &rows[i]
			r.AvgSpeed, r.MaxSpeed, r.MinSpeed, r.StdSpeed = avgS, maxS, minS, stdS
			r.AvgAccel, r.MaxAccel, r.StdAccel = avgA, maxA, stdA
			r.SpeedAtThrow, r.AccelAtThrow = speedAtThrow, accelAtThrow
		}
	}
}
