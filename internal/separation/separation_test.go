package separation

import (
	"math"
	"testing"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

const (
	wideReceiver = 81001
	runningBack  = 81002
	cornerback   = 81003
	safety       = 81004
)

func sepFrame(playID, playerID, frameID int, position string, side model.Side, x, y float64) model.Frame {
	return model.Frame{
		GameID:     "2023091000",
		PlayID:     playID,
		PlayerID:   playerID,
		FrameID:    frameID,
		PlayerName: position,
		Position:   position,
		Side:       side,
		X:          x,
		Y:          y,
	}
}

// targetedPlay builds a play with a WR running 5 yards, an RB running 2, and
// one CB ending up 3 yards from the WR at the throw.
func targetedPlay(playID int) []model.Frame {
	return []model.Frame{
		sepFrame(playID, wideReceiver, 1, "WR", model.SideOffense, 0, 0),
		sepFrame(playID, wideReceiver, 2, "WR", model.SideOffense, 5, 0),
		sepFrame(playID, runningBack, 1, "RB", model.SideOffense, 0, 5),
		sepFrame(playID, runningBack, 2, "RB", model.SideOffense, 2, 5),
		sepFrame(playID, cornerback, 1, "CB", model.SideDefense, 0, 1),
		sepFrame(playID, cornerback, 2, "CB", model.SideDefense, 5, 3),
	}
}

func targetedContexts(playIDs ...int) map[model.PlayKey]model.PlayContext {
	out := make(map[model.PlayKey]model.PlayContext)
	for _, id := range playIDs {
		key := model.PlayKey{GameID: "2023091000", PlayID: id}
		out[key] = model.PlayContext{
			GameID: key.GameID, PlayID: id,
			TargetRoute: "GO", PossessionTeam: "SF",
		}
	}
	return out
}

func sepConfig() config.SeparationConfig {
	return config.New().Separation
}

func TestFind_SelectsMaxDisplacementReceiver(t *testing.T) {
	records, report := Find(targetedPlay(1), targetedContexts(1), sepConfig())
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d (report %+v)", len(records), report)
	}
	rec := records[0]
	if rec.ReceiverID != wideReceiver {
		t.Errorf("receiver: want WR (displacement 5 over RB's 2), got %d", rec.ReceiverID)
	}
	if rec.ReceiverPosition != "WR" || rec.Route != "GO" {
		t.Errorf("record identity: %+v", rec)
	}
	if rec.ThrowFrameID != 2 {
		t.Errorf("ThrowFrameID: want 2, got %d", rec.ThrowFrameID)
	}
}

func TestFind_SeparationAndRadii(t *testing.T) {
	records, _ := Find(targetedPlay(1), targetedContexts(1), sepConfig())
	rec := records[0]

	// CB at (5,3), WR at (5,0) at the throw.
	if math.Abs(rec.SeparationAtThrow-3) > 1e-9 {
		t.Errorf("SeparationAtThrow: want 3, got %v", rec.SeparationAtThrow)
	}
	if rec.NearestDefenderID != cornerback {
		t.Errorf("NearestDefenderID: want CB, got %d", rec.NearestDefenderID)
	}
	if rec.DefendersWithin3yd != 1 || rec.DefendersWithin5yd != 1 {
		t.Errorf("radius counts: got within3=%d within5=%d", rec.DefendersWithin3yd, rec.DefendersWithin5yd)
	}

	// At the snap the CB is 1 yard off the WR.
	if math.Abs(rec.CoverageCushion-1) > 1e-9 {
		t.Errorf("CoverageCushion: want 1, got %v", rec.CoverageCushion)
	}
	if math.Abs(rec.SeparationChange-2) > 1e-9 {
		t.Errorf("SeparationChange: want 2, got %v", rec.SeparationChange)
	}
}

func TestFind_UntargetedPlaysIgnored(t *testing.T) {
	frames := append(targetedPlay(1), targetedPlay(2)...)
	records, report := Find(frames, targetedContexts(1), sepConfig())
	if len(records) != 1 {
		t.Fatalf("want 1 record (play 2 has no route label), got %d", len(records))
	}
	if report.TargetedPlays != 1 || report.Processed != 1 || report.Skipped() != 0 {
		t.Errorf("report: %+v", report)
	}
}

func TestFind_SkipReasons(t *testing.T) {
	// Play 1: no eligible offensive players at all.
	noOffense := []model.Frame{
		sepFrame(1, cornerback, 1, "CB", model.SideDefense, 0, 0),
	}
	// Play 2: WR tracked early but absent from the throw frame (3).
	noThrow := []model.Frame{
		sepFrame(2, wideReceiver, 1, "WR", model.SideOffense, 0, 0),
		sepFrame(2, wideReceiver, 2, "WR", model.SideOffense, 3, 0),
		sepFrame(2, cornerback, 1, "CB", model.SideDefense, 0, 1),
		sepFrame(2, cornerback, 2, "CB", model.SideDefense, 1, 1),
		sepFrame(2, cornerback, 3, "CB", model.SideDefense, 2, 1),
	}
	// Play 3: no defenders in the play.
	noDefense := []model.Frame{
		sepFrame(3, wideReceiver, 1, "WR", model.SideOffense, 0, 0),
		sepFrame(3, wideReceiver, 2, "WR", model.SideOffense, 5, 0),
	}

	var frames []model.Frame
	frames = append(frames, noOffense...)
	frames = append(frames, noThrow...)
	frames = append(frames, noDefense...)

	records, report := Find(frames, targetedContexts(1, 2, 3), sepConfig())
	if len(records) != 0 {
		t.Fatalf("want 0 records, got %d", len(records))
	}
	if report.TargetedPlays != 3 || report.Skipped() != 3 {
		t.Errorf("totals: %+v", report)
	}
	if report.NoEligibleReceivers != 1 {
		t.Errorf("NoEligibleReceivers: want 1, got %d", report.NoEligibleReceivers)
	}
	if report.ReceiverNotAtThrow != 1 {
		t.Errorf("ReceiverNotAtThrow: want 1, got %d", report.ReceiverNotAtThrow)
	}
	if report.NoDefendersAtThrow != 1 {
		t.Errorf("NoDefendersAtThrow: want 1, got %d", report.NoDefendersAtThrow)
	}
}

func TestFind_SingleFrameReceiverNotACandidate(t *testing.T) {
	// Play 1: the only eligible receiver has one frame, so it has no
	// displacement and the play is skipped.
	oneFrameOnly := []model.Frame{
		sepFrame(1, wideReceiver, 2, "WR", model.SideOffense, 5, 0),
		sepFrame(1, cornerback, 1, "CB", model.SideDefense, 0, 1),
		sepFrame(1, cornerback, 2, "CB", model.SideDefense, 5, 2),
	}
	// Play 2: a single-frame WR must not outrank a tracked RB, even though
	// the RB moved less than the WR's position suggests.
	withAlternative := []model.Frame{
		sepFrame(2, wideReceiver, 2, "WR", model.SideOffense, 20, 0),
		sepFrame(2, runningBack, 1, "RB", model.SideOffense, 0, 5),
		sepFrame(2, runningBack, 2, "RB", model.SideOffense, 2, 5),
		sepFrame(2, cornerback, 1, "CB", model.SideDefense, 0, 1),
		sepFrame(2, cornerback, 2, "CB", model.SideDefense, 2, 6),
	}

	var frames []model.Frame
	frames = append(frames, oneFrameOnly...)
	frames = append(frames, withAlternative...)

	records, report := Find(frames, targetedContexts(1, 2), sepConfig())
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d (report %+v)", len(records), report)
	}
	if report.NoEligibleReceivers != 1 {
		t.Errorf("NoEligibleReceivers: want 1, got %d", report.NoEligibleReceivers)
	}
	if records[0].PlayID != 2 || records[0].ReceiverID != runningBack {
		t.Errorf("receiver: want RB on play 2, got %+v", records[0])
	}
}

func TestFind_SnapMissingKeepsThrowRecord(t *testing.T) {
	// Defender only appears at the throw frame, so the cushion is
	// unobservable but the throw-moment record must survive.
	frames := []model.Frame{
		sepFrame(1, wideReceiver, 1, "WR", model.SideOffense, 0, 0),
		sepFrame(1, wideReceiver, 2, "WR", model.SideOffense, 5, 0),
		sepFrame(1, cornerback, 2, "CB", model.SideDefense, 5, 4),
	}
	records, report := Find(frames, targetedContexts(1), sepConfig())
	if len(records) != 1 || report.Skipped() != 0 {
		t.Fatalf("want 1 record, got %d (report %+v)", len(records), report)
	}
	rec := records[0]
	if math.Abs(rec.SeparationAtThrow-4) > 1e-9 {
		t.Errorf("SeparationAtThrow: want 4, got %v", rec.SeparationAtThrow)
	}
	if !math.IsNaN(rec.CoverageCushion) || !math.IsNaN(rec.SeparationChange) {
		t.Errorf("snap-derived values: want NaN, got cushion=%v change=%v", rec.CoverageCushion, rec.SeparationChange)
	}
}

func TestFind_TieBreaksToLowerPlayerID(t *testing.T) {
	// Two WRs with identical displacement; the lower id wins.
	frames := []model.Frame{
		sepFrame(1, wideReceiver, 1, "WR", model.SideOffense, 0, 0),
		sepFrame(1, wideReceiver, 2, "WR", model.SideOffense, 4, 0),
		sepFrame(1, runningBack, 1, "WR", model.SideOffense, 0, 10),
		sepFrame(1, runningBack, 2, "WR", model.SideOffense, 4, 10),
		sepFrame(1, cornerback, 2, "CB", model.SideDefense, 4, 1),
	}
	records, _ := Find(frames, targetedContexts(1), sepConfig())
	if len(records) != 1 {
		t.Fatal("want 1 record")
	}
	if records[0].ReceiverID != wideReceiver {
		t.Errorf("tie-break: want lower id %d, got %d", wideReceiver, records[0].ReceiverID)
	}
}

func TestTopReceivers(t *testing.T) {
	records := []model.SeparationRecord{
		{GameID: "2023091000", PlayID: 1, ReceiverName: "WR", ReceiverPosition: "WR"},
		{GameID: "2023091000", PlayID: 2, ReceiverName: "WR", ReceiverPosition: "WR"},
		{GameID: "2023091000", PlayID: 3, ReceiverName: "RB", ReceiverPosition: "RB"},
	}
	targets := TopReceivers(records, targetedContexts(1, 2, 3))
	if len(targets) != 2 {
		t.Fatalf("want 2 receivers, got %d", len(targets))
	}
	if targets[0].PlayerName != "WR" || targets[0].Targets != 2 {
		t.Errorf("top receiver: %+v", targets[0])
	}
	if targets[0].PossessionTeam != "SF" {
		t.Errorf("team: %+v", targets[0])
	}
}
