package export

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

func TestWritePlayerPlays_RoundTrip(t *testing.T) {
	play := model.PlayerPlay{
		GameID:   "2023090700",
		PlayID:   64,
		PlayerID: 47001,

		PlayerName:    "A. Safety",
		Position:      "FS",
		PositionGroup: "safeties",
		Week:          "w01",

		PassResult:  "C",
		TargetRoute: "HITCH",
		Down:        2, YardsToGo: 7, Quarter: 4,
		BallLandX: 40.25, BallLandY: 20.125, AbsoluteYardline: 35,

		InitialDistToTarget: 18.43217,
		MinDistToTarget:     6.1,
		AvgSpeed:            4.071428571428571,
		SpeedAtThrow:        6.9,
		AvgDirAlignment:     32.5,
		AvgClosingRate:      0.35,
		ReactionFrameMin:    12,

		MaxSpeed: math.NaN(), MinSpeed: math.NaN(), StdSpeed: math.NaN(),
		AccelAtThrow: math.NaN(), AvgAccel: math.NaN(), MaxAccel: math.NaN(),
		StdAccel: math.NaN(), AvgOrientAlignment: math.NaN(), AvgBodyControl: math.NaN(),
		PctGoodDirAlign: math.NaN(), PostThrowDistance: math.NaN(),
		FinalProximity: math.NaN(), ConvergenceDistance: math.NaN(), NumPostFrames: math.NaN(),
	}

	columns := config.New().RetainColumns
	var buf bytes.Buffer
	if err := WritePlayerPlays(&buf, []model.PlayerPlay{play}, columns); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want header + 1 row, got %d rows", len(rows))
	}
	if len(rows[0]) != len(columns) {
		t.Fatalf("header width: want %d, got %d", len(columns), len(rows[0]))
	}

	byName := make(map[string]string, len(columns))
	for i, col := range rows[0] {
		byName[col] = rows[1][i]
	}

	// Non-NaN floats survive the round trip exactly.
	for col, want := range map[string]float64{
		"initial_dist_to_ball": play.InitialDistToTarget,
		"avg_speed":            play.AvgSpeed,
		"ball_land_y":          play.BallLandY,
		"avg_closing_rate":     play.AvgClosingRate,
		"reaction_frame_min":   play.ReactionFrameMin,
	} {
		got, err := strconv.ParseFloat(byName[col], 64)
		if err != nil {
			t.Fatalf("%s: %v", col, err)
		}
		if got != want {
			t.Errorf("%s: round trip changed %v to %v", col, want, got)
		}
	}

	// NaN cells come out empty.
	if byName["std_speed"] != "" || byName["post_throw_distance"] != "" {
		t.Errorf("NaN cells should be empty, got %q / %q", byName["std_speed"], byName["post_throw_distance"])
	}
	if byName["game_id"] != "2023090700" || byName["position_group"] != "safeties" {
		t.Errorf("identity cells: %v", byName)
	}
}

func TestWritePlayerPlays_UnknownColumn(t *testing.T) {
	var buf bytes.Buffer
	err := WritePlayerPlays(&buf, nil, []string{"game_id", "no_such_column"})
	if err == nil || !strings.Contains(err.Error(), "no_such_column") {
		t.Fatalf("want unknown-column error, got %v", err)
	}
}

func TestWriteSeparationRecords(t *testing.T) {
	rec := model.SeparationRecord{
		GameID: "2023090700", PlayID: 64, Route: "GO",
		ReceiverID: 81001, ReceiverName: "D. Receiver", ReceiverPosition: "WR",
		ReceiverX: 41.2, ReceiverY: 18.7,
		NearestDefenderID: 47001, NearestDefenderName: "A. Safety", NearestDefenderPosition: "FS",
		SeparationAtThrow: 3, CoverageCushion: math.NaN(), SeparationChange: math.NaN(),
		DefendersWithin3yd: 1, DefendersWithin5yd: 2, ThrowFrameID: 23,
	}

	var buf bytes.Buffer
	if err := WriteSeparationRecords(&buf, []model.SeparationRecord{rec}); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || len(rows[0]) != len(SeparationColumns) {
		t.Fatalf("shape: %d rows x %d cols", len(rows), len(rows[0]))
	}
	byName := make(map[string]string)
	for i, col := range rows[0] {
		byName[col] = rows[1][i]
	}
	if byName["separation_at_throw"] != "3" {
		t.Errorf("separation_at_throw: %q", byName["separation_at_throw"])
	}
	if byName["coverage_cushion"] != "" {
		t.Errorf("NaN cushion should be empty, got %q", byName["coverage_cushion"])
	}
	if byName["nearest_defender_name"] != "A. Safety" {
		t.Errorf("defender name: %q", byName["nearest_defender_name"])
	}
}
