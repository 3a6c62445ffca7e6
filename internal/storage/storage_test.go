package storage

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-nfl-metrics/internal/model"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func samplePlay() model.PlayerPlay {
	return model.PlayerPlay{
		GameID:   "2023090700",
		PlayID:   64,
		PlayerID: 47001,

		PlayerName:    "A. Safety",
		Position:      "FS",
		PositionGroup: "safeties",
		Side:          model.SideDefense,
		Week:          "w01",

		PassResult:       "C",
		TargetRoute:      "HITCH",
		CoverageType:     "Cover-3",
		CoverageManZone:  "Zone",
		Down:             2,
		YardsToGo:        7,
		Quarter:          4,
		BallLandX:        40,
		BallLandY:        20,
		AbsoluteYardline: 35,

		InitialDistToTarget: 18.4,
		MinDistToTarget:     6.1,
		AvgSpeed:            4.7,
		MaxSpeed:            7.2,
		MinSpeed:            1.1,
		StdSpeed:            1.8,
		SpeedAtThrow:        6.9,
		AccelAtThrow:        1.4,
		AvgAccel:            1.2,
		MaxAccel:            3.6,
		StdAccel:            math.NaN(),
		AvgDirAlignment:     32.5,
		AvgOrientAlignment:  28.1,
		AvgBodyControl:      12.0,
		PctGoodDirAlign:     0.4,
		AvgClosingRate:      0.35,
		ReactionFrameMin:    12,

		PostThrowDistance:   math.NaN(),
		FinalProximity:      math.NaN(),
		ConvergenceDistance: math.NaN(),
		NumPostFrames:       math.NaN(),
	}
}

func TestPlayerPlayRoundTrip(t *testing.T) {
	db := openTestDB(t)

	in := samplePlay()
	require.NoError(t, db.InsertPlayerPlays([]model.PlayerPlay{in}))

	plays, err := db.GetPlayerPlays()
	require.NoError(t, err)
	require.Len(t, plays, 1)

	got := plays[0]
	assert.Equal(t, in.GameID, got.GameID)
	assert.Equal(t, in.PlayerID, got.PlayerID)
	assert.Equal(t, in.PositionGroup, got.PositionGroup)
	assert.Equal(t, model.SideDefense, got.Side)
	assert.Equal(t, in.TargetRoute, got.TargetRoute)
	assert.Equal(t, in.Down, got.Down)
	assert.InDelta(t, in.InitialDistToTarget, got.InitialDistToTarget, 1e-9)
	assert.InDelta(t, in.SpeedAtThrow, got.SpeedAtThrow, 1e-9)
	assert.InDelta(t, in.ReactionFrameMin, got.ReactionFrameMin, 1e-9)

	// NaN persists as NULL and comes back as NaN.
	assert.True(t, math.IsNaN(got.StdAccel))
	assert.True(t, math.IsNaN(got.PostThrowDistance))
	assert.True(t, math.IsNaN(got.NumPostFrames))
}

func TestInsertPlayerPlays_Idempotent(t *testing.T) {
	db := openTestDB(t)

	in := samplePlay()
	require.NoError(t, db.InsertPlayerPlays([]model.PlayerPlay{in}))
	in.AvgSpeed = 5.5
	require.NoError(t, db.InsertPlayerPlays([]model.PlayerPlay{in}))

	plays, err := db.GetPlayerPlays()
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.InDelta(t, 5.5, plays[0].AvgSpeed, 1e-9)
}

func TestSeparationRecordRoundTrip(t *testing.T) {
	db := openTestDB(t)

	in := model.SeparationRecord{
		GameID: "2023090700",
		PlayID: 64,
		Route:  "HITCH",

		ReceiverID:       81001,
		ReceiverName:     "D. Receiver",
		ReceiverPosition: "WR",
		ReceiverX:        41.2,
		ReceiverY:        18.7,

		NearestDefenderID:       47001,
		NearestDefenderName:     "A. Safety",
		NearestDefenderPosition: "FS",

		SeparationAtThrow: 3.0,
		CoverageCushion:   math.NaN(),
		SeparationChange:  math.NaN(),

		DefendersWithin3yd: 1,
		DefendersWithin5yd: 2,
		ThrowFrameID:       23,
	}
	require.NoError(t, db.InsertSeparationRecords([]model.SeparationRecord{in}))

	records, err := db.GetSeparationRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, in.ReceiverID, got.ReceiverID)
	assert.Equal(t, in.NearestDefenderName, got.NearestDefenderName)
	assert.InDelta(t, 3.0, got.SeparationAtThrow, 1e-9)
	assert.True(t, math.IsNaN(got.CoverageCushion))
	assert.Equal(t, 2, got.DefendersWithin5yd)
	assert.Equal(t, 23, got.ThrowFrameID)
}

func TestPlayContextRoundTrip(t *testing.T) {
	db := openTestDB(t)

	key := model.PlayKey{GameID: "2023090700", PlayID: 64}
	contexts := map[model.PlayKey]model.PlayContext{
		key: {
			GameID: key.GameID, PlayID: key.PlayID,
			PassResult: "C", TargetRoute: "HITCH", PossessionTeam: "SF",
			CoverageType: "Cover-3", CoverageManZone: "Zone",
			Down: 2, YardsToGo: 7, Quarter: 4,
			PassLength: 12.5, YardsGained: 8, TimeToThrow: 2.3,
		},
	}
	require.NoError(t, db.InsertPlayContexts(contexts))

	plays, err := db.ListPlays()
	require.NoError(t, err)
	require.Len(t, plays, 1)
	assert.Equal(t, "SF", plays[0].PossessionTeam)
	assert.InDelta(t, 2.3, plays[0].TimeToThrow, 1e-9)
}

func TestGroupSummaries(t *testing.T) {
	db := openTestDB(t)

	safety := samplePlay()
	cb := samplePlay()
	cb.PlayerID = 47002
	cb.Position = "CB"
	cb.PositionGroup = "cornerbacks"
	cb.InitialDistToTarget = 8.0
	cb.ReactionFrameMin = math.NaN()
	require.NoError(t, db.InsertPlayerPlays([]model.PlayerPlay{safety, cb}))

	summaries, err := db.GroupSummaries()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "cornerbacks", summaries[0].PositionGroup)
	assert.InDelta(t, 8.0, summaries[0].AvgInitialDist, 1e-9)
	assert.InDelta(t, 0.0, summaries[0].ReactingPct, 1e-9)

	assert.Equal(t, "safeties", summaries[1].PositionGroup)
	assert.InDelta(t, 18.4, summaries[1].AvgInitialDist, 1e-9)
	assert.InDelta(t, 1.0, summaries[1].ReactingPct, 1e-9)
}

func TestSeparationStatsAndRoutes(t *testing.T) {
	db := openTestDB(t)

	records := []model.SeparationRecord{
		{GameID: "g", PlayID: 1, Route: "GO", SeparationAtThrow: 2, CoverageCushion: 5, DefendersWithin3yd: 1},
		{GameID: "g", PlayID: 2, Route: "GO", SeparationAtThrow: 4, CoverageCushion: 6},
		{GameID: "g", PlayID: 3, Route: "HITCH", SeparationAtThrow: 6, CoverageCushion: math.NaN()},
	}
	require.NoError(t, db.InsertSeparationRecords(records))

	stats, err := db.SeparationStats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Plays)
	assert.InDelta(t, 4.0, stats.AvgSeparation, 1e-9)
	assert.InDelta(t, 2.0, stats.MinSeparation, 1e-9)
	assert.InDelta(t, 6.0, stats.MaxSeparation, 1e-9)
	// NULL cushions are excluded from the average.
	assert.InDelta(t, 5.5, stats.AvgCushion, 1e-9)
	assert.Equal(t, 1, stats.TightCoverage)

	routes, err := db.SeparationByRoute()
	require.NoError(t, err)
	require.Len(t, routes, 2)
	assert.Equal(t, "GO", routes[0].Route)
	assert.Equal(t, 2, routes[0].Plays)
	assert.InDelta(t, 3.0, routes[0].AvgSeparation, 1e-9)
}

func TestQueryRaw(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.InsertPlayerPlays([]model.PlayerPlay{samplePlay()}))

	cols, rows, err := db.QueryRaw("SELECT game_id, play_id, std_accel FROM play_features")
	require.NoError(t, err)
	assert.Equal(t, []string{"game_id", "play_id", "std_accel"}, cols)
	require.Len(t, rows, 1)
	assert.Equal(t, "2023090700", rows[0][0])
	assert.Equal(t, "64", rows[0][1])
	assert.Equal(t, "NULL", rows[0][2])
}
