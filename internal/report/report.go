// Package report renders the pipeline's summary tables.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-nfl-metrics/internal/model"
	"github.com/pable/go-nfl-metrics/internal/separation"
	"github.com/pable/go-nfl-metrics/internal/stats"
	"github.com/pable/go-nfl-metrics/internal/storage"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// fmtF renders a float with the given precision, "—" for NaN.
func fmtF(v float64, prec int) string {
	if math.IsNaN(v) {
		return "—"
	}
	return fmt.Sprintf("%.*f", prec, v)
}

// PrintGroupSummaries prints per-position-group feature means.
func PrintGroupSummaries(w io.Writer, summaries []storage.GroupSummary) {
	table := newTable(w)
	table.Header("GROUP", "PLAYERS", "PLAYS", "INIT_DIST", "MIN_DIST", "SPEED", "ALIGN", "CLOSING", "REACT%")
	for _, s := range summaries {
		table.Append(
			s.PositionGroup,
			fmt.Sprintf("%d", s.Players),
			fmt.Sprintf("%d", s.Plays),
			fmtF(s.AvgInitialDist, 1),
			fmtF(s.AvgMinDist, 1),
			fmtF(s.AvgSpeed, 2),
			fmtF(s.AvgAlignment, 1),
			fmtF(s.AvgClosingRate, 2),
			fmtF(s.ReactingPct*100, 0)+"%",
		)
	}
	table.Render()
}

// PrintSeparationSummary prints aggregate separation stats and the skip
// report.
func PrintSeparationSummary(w io.Writer, summary storage.SeparationSummary, report separation.SkipReport) {
	fmt.Fprintf(w, "\nSeparation records: %d  |  avg %.2f yd  |  min %.2f  |  max %.2f  |  avg cushion %.2f\n",
		summary.Plays, summary.AvgSeparation, summary.MinSeparation, summary.MaxSeparation, summary.AvgCushion)
	fmt.Fprintf(w, "Tight coverage (defender within 3 yd): %d of %d plays\n\n",
		summary.TightCoverage, summary.Plays)

	if report.Skipped() == 0 {
		fmt.Fprintf(w, "All %d targeted plays processed.\n", report.TargetedPlays)
		return
	}
	fmt.Fprintf(w, "%d of %d targeted plays skipped:\n", report.Skipped(), report.TargetedPlays)
	if report.NoEligibleReceivers > 0 {
		fmt.Fprintf(w, "  no eligible receivers:      %d\n", report.NoEligibleReceivers)
	}
	if report.ReceiverNotAtThrow > 0 {
		fmt.Fprintf(w, "  receiver missing at throw:  %d\n", report.ReceiverNotAtThrow)
	}
	if report.NoDefendersAtThrow > 0 {
		fmt.Fprintf(w, "  no defenders at throw:      %d\n", report.NoDefendersAtThrow)
	}
}

// PrintRouteSeparation prints mean separation per target route.
func PrintRouteSeparation(w io.Writer, routes []storage.RouteSeparation) {
	table := newTable(w)
	table.Header("ROUTE", "PLAYS", "AVG_SEP")
	for _, r := range routes {
		table.Append(r.Route, fmt.Sprintf("%d", r.Plays), fmtF(r.AvgSeparation, 2))
	}
	table.Render()
}

// PrintAnalysisResults prints the hypothesis-test battery, ordered by name.
func PrintAnalysisResults(w io.Writer, results *stats.Results) {
	fmt.Fprintf(w, "\nSample: %d rows (%d safeties, %d cornerbacks)\n\n",
		results.SampleSize.Total, results.SampleSize.Safeties, results.SampleSize.Cornerbacks)

	names := make([]string, 0, len(results.Tests))
	for name := range results.Tests {
		names = append(names, name)
	}
	sort.Strings(names)

	table := newTable(w)
	table.Header("TEST", "HYPOTHESIS", "TYPE", "STAT", "P", "EFFECT", "MEAN_S", "MEAN_CB", "SIG")
	for _, name := range names {
		r := results.Tests[name]
		sig := " "
		if r.Significant {
			sig = "*"
		}
		table.Append(
			name,
			r.Hypothesis,
			r.TestType,
			fmtF(r.Statistic, 3),
			fmtF(r.PValue, 6),
			fmtF(r.EffectSize, 3),
			fmtF(r.MeanSafeties, 2),
			fmtF(r.MeanCornerbacks, 2),
			sig,
		)
	}
	table.Render()
}

// PrintTopReceivers prints target counts, already sorted by team and count.
func PrintTopReceivers(w io.Writer, targets []model.ReceiverTargets, perTeam int) {
	table := newTable(w)
	table.Header("TEAM", "RECEIVER", "POS", "TARGETS")

	shown := make(map[string]int)
	for _, t := range targets {
		if perTeam > 0 && shown[t.PossessionTeam] >= perTeam {
			continue
		}
		shown[t.PossessionTeam]++
		table.Append(t.PossessionTeam, t.PlayerName, t.Position, fmt.Sprintf("%d", t.Targets))
	}
	table.Render()
}

// PrintPlayerPlays prints play-level feature rows.
func PrintPlayerPlays(w io.Writer, plays []model.PlayerPlay) {
	table := newTable(w)
	table.Header("GAME", "PLAY", "PLAYER", "POS", "GROUP", "INIT_DIST", "MIN_DIST", "SPEED", "ALIGN", "CLOSING", "REACT_S")
	for i := range plays {
		p := &plays[i]
		table.Append(
			p.GameID,
			fmt.Sprintf("%d", p.PlayID),
			p.PlayerName,
			p.Position,
			p.PositionGroup,
			fmtF(p.InitialDistToTarget, 1),
			fmtF(p.MinDistToTarget, 1),
			fmtF(p.AvgSpeed, 2),
			fmtF(p.AvgDirAlignment, 1),
			fmtF(p.AvgClosingRate, 2),
			fmtF(p.ReactionTime(), 1),
		)
	}
	table.Render()
}
