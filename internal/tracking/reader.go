// Package tracking loads the weekly tracking CSVs and the supplementary play
// table, validating required columns up front. A missing file or column is
// fatal; malformed cell values degrade to NaN.
package tracking

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-nfl-metrics/internal/model"
)

// Required columns for the weekly tracking files and the supplementary play
// table. Loading aborts when any is absent.
var (
	frameColumns = []string{
		"game_id", "play_id", "nfl_id", "frame_id",
		"player_name", "player_position", "player_side",
		"x", "y", "s", "a", "dir", "o",
		"ball_land_x", "ball_land_y", "absolute_yardline_number",
	}
	contextColumns = []string{
		"game_id", "play_id", "pass_result", "route_of_targeted_receiver",
		"possession_team",
	}
)

// LoadWeeks reads every file in dir matching pattern (sorted by name) and
// returns the union of their frames. The week label is taken from the file
// name's final underscore-separated token, e.g. input_2023_w01.csv -> "w01".
func LoadWeeks(dir, pattern string) ([]model.Frame, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no tracking files match %s in %s", pattern, dir)
	}
	sort.Strings(paths)

	var frames []model.Frame
	for _, path := range paths {
		week := weekLabel(path)
		fileFrames, err := loadFrameFile(path, week)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		frames = append(frames, fileFrames...)
	}
	return frames, nil
}

func weekLabel(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parts := strings.Split(stem, "_")
	return parts[len(parts)-1]
}

func loadFrameFile(path, week string) ([]model.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := readTable(csv.NewReader(f), frameColumns)
	if err != nil {
		return nil, err
	}

	frames := make([]model.Frame, 0, len(rows))
	for _, row := range rows {
		frames = append(frames, model.Frame{
			GameID:   row.str("game_id"),
			PlayID:   row.intVal("play_id"),
			PlayerID: row.intVal("nfl_id"),
			FrameID:  row.intVal("frame_id"),

			PlayerName: row.str("player_name"),
			Position:   row.str("player_position"),
			Side:       model.ParseSide(row.str("player_side")),
			Week:       week,

			X:      row.floatVal("x"),
			Y:      row.floatVal("y"),
			Speed:  row.floatVal("s"),
			Accel:  row.floatVal("a"),
			Dir:    row.floatVal("dir"),
			Orient: row.floatVal("o"),

			BallLandX:        row.floatVal("ball_land_x"),
			BallLandY:        row.floatVal("ball_land_y"),
			AbsoluteYardline: row.floatVal("absolute_yardline_number"),
		})
	}
	return frames, nil
}

// LoadSupplementary reads the per-play context table, keyed by (game, play).
// Both .csv and .xlsx files are accepted.
func LoadSupplementary(path string) (map[model.PlayKey]model.PlayContext, error) {
	var rows []record
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		rows, err = readExcel(path, contextColumns)
	default:
		rows, err = readCSVFile(path, contextColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	contexts := make(map[model.PlayKey]model.PlayContext, len(rows))
	for _, row := range rows {
		ctx := model.PlayContext{
			GameID: row.str("game_id"),
			PlayID: row.intVal("play_id"),

			PassResult:      row.str("pass_result"),
			TargetRoute:     row.str("route_of_targeted_receiver"),
			PossessionTeam:  row.str("possession_team"),
			CoverageType:    row.str("team_coverage_type"),
			CoverageManZone: row.str("team_coverage_man_zone"),
			Down:            row.intVal("down"),
			YardsToGo:       row.intVal("yards_to_go"),
			Quarter:         row.intVal("quarter"),
			PassLength:      row.floatVal("pass_length"),
			YardsGained:     row.floatVal("yards_gained"),
			TimeToThrow:     row.floatVal("time_to_throw"),
		}
		contexts[model.PlayKey{GameID: ctx.GameID, PlayID: ctx.PlayID}] = ctx
	}
	return contexts, nil
}

// AttachTimeToThrow fills each context's TimeToThrow from the tracking frames
// (max frame id of the play times the frame tick), overriding only contexts
// that have no value yet.
func AttachTimeToThrow(contexts map[model.PlayKey]model.PlayContext, frames []model.Frame) {
	maxFrame := make(map[model.PlayKey]int)
	for _, f := range frames {
		key := f.PlayKey()
		if f.FrameID > maxFrame[key] {
			maxFrame[key] = f.FrameID
		}
	}
	for key, ctx := range contexts {
		if ctx.TimeToThrow > 0 {
			continue
		}
		if mf, ok := maxFrame[key]; ok {
			ctx.TimeToThrow = float64(mf) * model.FrameTick
			contexts[key] = ctx
		}
	}
}

// ---- Row representation ----

// record is one parsed row: cell values addressable by column name. Columns
// absent from the file read as empty, which the typed accessors turn into
// zero or NaN.
type record struct {
	index map[string]int
	cells []string
}

func (r *record) str(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(r.cells[i]), `"`)
}

func (r *record) intVal(col string) int {
	v, err := strconv.Atoi(r.str(col))
	if err != nil {
		return 0
	}
	return v
}

func (r *record) floatVal(col string) float64 {
	s := r.str(col)
	if s == "" || s == "NA" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func readCSVFile(path string, required []string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readTable(csv.NewReader(f), required)
}

func readTable(r *csv.Reader, required []string) ([]record, error) {
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header, required)
	if err != nil {
		return nil, err
	}

	var rows []record
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, record{index: index, cells: cells})
	}
	return rows, nil
}

func readExcel(path string, required []string) ([]record, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	index, err := columnIndex(raw[0], required)
	if err != nil {
		return nil, err
	}
	rows := make([]record, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		rows = append(rows, record{index: index, cells: cells})
	}
	return rows, nil
}

func columnIndex(header, required []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.Trim(strings.TrimSpace(name), `"`)] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}
