// Package separation finds, for every targeted play, the presumed target
// receiver and the nearest defender at the throw and snap moments.
//
// The receiver is a heuristic: among offensive players at receiver-eligible
// positions, the one with the largest straight-line displacement over the
// play. The tracking data carries no targeted-receiver ground truth, so this
// stands in for it and is not validated against one.
package separation

import (
	"math"
	"sort"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/geom"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// SkipReport counts targeted plays dropped per reason. Skipped plays are not
// errors; a handful of malformed plays must never halt the run. The report
// makes the undercount visible instead of silent.
type SkipReport struct {
	TargetedPlays int
	Processed     int

	NoEligibleReceivers int // no offensive skill-position frames in the play
	ReceiverNotAtThrow  int // selected receiver has no frame at the throw moment
	NoDefendersAtThrow  int // no defensive frames at the throw moment
}

// Skipped returns the total number of dropped plays.
func (r *SkipReport) Skipped() int {
	return r.NoEligibleReceivers + r.ReceiverNotAtThrow + r.NoDefendersAtThrow
}

// Find computes one SeparationRecord per targeted play. A play is targeted
// when its context carries a non-empty target-route label. Records are
// returned sorted by (game, play); plays that cannot be processed are counted
// in the report and dropped.
func Find(frames []model.Frame, contexts map[model.PlayKey]model.PlayContext, cfg config.SeparationConfig) ([]model.SeparationRecord, SkipReport) {
	eligible := make(map[string]struct{}, len(cfg.EligiblePositions))
	for _, p := range cfg.EligiblePositions {
		eligible[p] = struct{}{}
	}

	byPlay := make(map[model.PlayKey][]model.Frame)
	for _, f := range frames {
		byPlay[f.PlayKey()] = append(byPlay[f.PlayKey()], f)
	}

	keys := make([]model.PlayKey, 0, len(byPlay))
	for key := range byPlay {
		if ctx, ok := contexts[key]; ok && ctx.Targeted() {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].GameID != keys[j].GameID {
			return keys[i].GameID < keys[j].GameID
		}
		return keys[i].PlayID < keys[j].PlayID
	})

	report := SkipReport{TargetedPlays: len(keys)}
	var records []model.SeparationRecord
	for _, key := range keys {
		rec, reason := processPlay(byPlay[key], contexts[key], eligible, cfg)
		switch reason {
		case skipNone:
			report.Processed++
			records = append(records, rec)
		case skipNoReceivers:
			report.NoEligibleReceivers++
		case skipReceiverNotAtThrow:
			report.ReceiverNotAtThrow++
		case skipNoDefenders:
			report.NoDefendersAtThrow++
		}
	}
	return records, report
}

type skipReason int

const (
	skipNone skipReason = iota
	skipNoReceivers
	skipReceiverNotAtThrow
	skipNoDefenders
)

func processPlay(frames []model.Frame, ctx model.PlayContext, eligible map[string]struct{}, cfg config.SeparationConfig) (model.SeparationRecord, skipReason) {
	receiverID, ok := selectReceiver(frames, eligible)
	if !ok {
		return model.SeparationRecord{}, skipNoReceivers
	}

	snapFrame, throwFrame := frames[0].FrameID, frames[0].FrameID
	for _, f := range frames[1:] {
		if f.FrameID < snapFrame {
			snapFrame = f.FrameID
		}
		if f.FrameID > throwFrame {
			throwFrame = f.FrameID
		}
	}

	recvThrow, ok := playerAt(frames, receiverID, throwFrame)
	if !ok {
		return model.SeparationRecord{}, skipReceiverNotAtThrow
	}

	defThrow := defendersAt(frames, throwFrame)
	if len(defThrow) == 0 {
		return model.SeparationRecord{}, skipNoDefenders
	}

	nearest, sepAtThrow, within3, within5 := nearestDefender(defThrow, recvThrow.X, recvThrow.Y, cfg)

	// Snap-moment quantities are best-effort: if the receiver or all
	// defenders are missing at the snap frame, the cushion is NaN but the
	// throw-moment record stands.
	cushion := math.NaN()
	change := math.NaN()
	if recvSnap, ok := playerAt(frames, receiverID, snapFrame); ok {
		if defSnap := defendersAt(frames, snapFrame); len(defSnap) > 0 {
			_, cushion, _, _ = nearestDefender(defSnap, recvSnap.X, recvSnap.Y, cfg)
			change = sepAtThrow - cushion
		}
	}

	return model.SeparationRecord{
		GameID: recvThrow.GameID,
		PlayID: recvThrow.PlayID,
		Route:  ctx.TargetRoute,

		ReceiverID:       recvThrow.PlayerID,
		ReceiverName:     recvThrow.PlayerName,
		ReceiverPosition: recvThrow.Position,
		ReceiverX:        recvThrow.X,
		ReceiverY:        recvThrow.Y,

		NearestDefenderID:       nearest.PlayerID,
		NearestDefenderName:     nearest.PlayerName,
		NearestDefenderPosition: nearest.Position,

		SeparationAtThrow: sepAtThrow,
		CoverageCushion:   cushion,
		SeparationChange:  change,

		DefendersWithin3yd: within3,
		DefendersWithin5yd: within5,

		ThrowFrameID: throwFrame,
	}, skipNone
}

// selectReceiver picks the eligible offensive player with the largest
// straight-line displacement between their first and last frame. Players
// tracked for fewer than two frames have no displacement and are not
// candidates. Ties break toward the lower player id, which the ascending scan
// order guarantees.
func selectReceiver(frames []model.Frame, eligible map[string]struct{}) (int, bool) {
	type track struct {
		frames                int
		firstFrame, lastFrame int
		firstX, firstY        float64
		lastX, lastY          float64
	}
	tracks := make(map[int]*track)
	for _, f := range frames {
		if f.Side != model.SideOffense {
			continue
		}
		if _, ok := eligible[f.Position]; !ok {
			continue
		}
		tr := tracks[f.PlayerID]
		if tr == nil {
			tr = &track{firstFrame: f.FrameID, lastFrame: f.FrameID,
				firstX: f.X, firstY: f.Y, lastX: f.X, lastY: f.Y}
			tracks[f.PlayerID] = tr
		}
		if f.FrameID < tr.firstFrame {
			tr.firstFrame, tr.firstX, tr.firstY = f.FrameID, f.X, f.Y
		}
		if f.FrameID >= tr.lastFrame {
			tr.lastFrame, tr.lastX, tr.lastY = f.FrameID, f.X, f.Y
		}
		tr.frames++
	}

	ids := make([]int, 0, len(tracks))
	for id := range tracks {
		if tracks[id].frames >= 2 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, false
	}
	sort.Ints(ids)

	best := ids[0]
	bestDisp := -1.0
	for _, id := range ids {
		tr := tracks[id]
		disp := geom.Distance(tr.firstX, tr.firstY, tr.lastX, tr.lastY)
		if disp > bestDisp {
			best, bestDisp = id, disp
		}
	}
	return best, true
}

func playerAt(frames []model.Frame, playerID, frameID int) (model.Frame, bool) {
	for _, f := range frames {
		if f.PlayerID == playerID && f.FrameID == frameID {
			return f, true
		}
	}
	return model.Frame{}, false
}

func defendersAt(frames []model.Frame, frameID int) []model.Frame {
	var out []model.Frame
	for _, f := range frames {
		if f.Side == model.SideDefense && f.FrameID == frameID {
			out = append(out, f)
		}
	}
	return out
}

func nearestDefender(defenders []model.Frame, x, y float64, cfg config.SeparationConfig) (model.Frame, float64, int, int) {
	nearest := defenders[0]
	minDist := math.Inf(1)
	within3, within5 := 0, 0
	for _, d := range defenders {
		dist := geom.Distance(d.X, d.Y, x, y)
		if dist < minDist {
			nearest, minDist = d, dist
		}
		if dist <= cfg.TightRadius {
			within3++
		}
		if dist <= cfg.LooseRadius {
			within5++
		}
	}
	return nearest, minDist, within3, within5
}

// TopReceivers counts, per possession team, how often each receiver was the
// presumed target. Results are sorted by team then descending target count.
func TopReceivers(records []model.SeparationRecord, contexts map[model.PlayKey]model.PlayContext) []model.ReceiverTargets {
	type key struct {
		team, name, position string
	}
	counts := make(map[key]int)
	for _, rec := range records {
		ctx, ok := contexts[model.PlayKey{GameID: rec.GameID, PlayID: rec.PlayID}]
		if !ok {
			continue
		}
		counts[key{ctx.PossessionTeam, rec.ReceiverName, rec.ReceiverPosition}]++
	}

	out := make([]model.ReceiverTargets, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.ReceiverTargets{
			PlayerName:     k.name,
			Position:       k.position,
			PossessionTeam: k.team,
			Targets:        n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PossessionTeam != out[j].PossessionTeam {
			return out[i].PossessionTeam < out[j].PossessionTeam
		}
		if out[i].Targets != out[j].Targets {
			return out[i].Targets > out[j].Targets
		}
		return out[i].PlayerName < out[j].PlayerName
	})
	return out
}
