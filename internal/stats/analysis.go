package stats

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pable/go-nfl-metrics/internal/config"
	"github.com/pable/go-nfl-metrics/internal/model"
)

// HypothesisResult is one hypothesis test's outcome, shaped to match the
// statistics.json layout the report tooling consumes.
type HypothesisResult struct {
	Hypothesis string `json:"hypothesis"`
	TestType   string `json:"test_type"`

	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	EffectSize float64 `json:"effect_size"`
	HedgesG    float64 `json:"hedges_g"`

	MeanSafeties    float64 `json:"mean_safeties"`
	MeanCornerbacks float64 `json:"mean_cornerbacks"`
	MeanDiff        float64 `json:"mean_diff"`

	NSafeties    int `json:"n_safeties"`
	NCornerbacks int `json:"n_cornerbacks"`

	Significant    bool        `json:"significant"`
	AssumptionsMet bool        `json:"assumptions_met"`
	Assumptions    Assumptions `json:"assumptions"`

	CramersV float64 `json:"cramers_v,omitempty"`
}

// Results is the full analysis output written to statistics.json.
type Results struct {
	Date string `json:"date"`

	SampleSize struct {
		Total       int `json:"total"`
		Safeties    int `json:"safeties"`
		Cornerbacks int `json:"cornerbacks"`
	} `json:"sample_size"`

	Tests map[string]HypothesisResult `json:"hypothesis_tests"`
}

// Analyze runs the safeties-vs-cornerbacks hypothesis battery over play-level
// rows:
//
//	H1: safeties start farther from the ball landing spot (one-tailed).
//	H2: directional alignment differs between the groups (two-tailed).
//	H3: cornerbacks carry more speed (one-tailed, cornerbacks first).
//	H4: reacting at all is associated with position group (chi-square).
//
// Each t-test picks pooled vs Welch from the Levene homogeneity check.
func Analyze(plays []model.PlayerPlay, cfg config.AnalysisConfig) (*Results, error) {
	res := &Results{
		Date:  time.Now().Format(time.RFC3339),
		Tests: make(map[string]HypothesisResult),
	}

	var safeties, cornerbacks []model.PlayerPlay
	for _, p := range plays {
		switch p.PositionGroup {
		case "safeties":
			safeties = append(safeties, p)
		case "cornerbacks":
			cornerbacks = append(cornerbacks, p)
		}
	}
	res.SampleSize.Total = len(plays)
	res.SampleSize.Safeties = len(safeties)
	res.SampleSize.Cornerbacks = len(cornerbacks)

	h1, err := compareGroups("H1_positioning", safeties, cornerbacks, Greater, cfg.Alpha,
		func(p *model.PlayerPlay) float64 { return p.InitialDistToTarget })
	if err != nil {
		return nil, fmt.Errorf("H1: %w", err)
	}
	res.Tests["H1"] = h1

	h2, err := compareGroups("H2_alignment", safeties, cornerbacks, TwoSided, cfg.Alpha,
		func(p *model.PlayerPlay) float64 { return p.AvgDirAlignment })
	if err != nil {
		return nil, fmt.Errorf("H2: %w", err)
	}
	res.Tests["H2"] = h2

	// Cornerbacks first so "greater" tests CB speed exceeding safety speed;
	// the reported means stay safeties/cornerbacks either way.
	h3, err := compareGroups("H3_speed", cornerbacks, safeties, Greater, cfg.Alpha,
		func(p *model.PlayerPlay) float64 { return p.AvgSpeed })
	if err != nil {
		return nil, fmt.Errorf("H3: %w", err)
	}
	h3.MeanSafeties, h3.MeanCornerbacks = h3.MeanCornerbacks, h3.MeanSafeties
	h3.NSafeties, h3.NCornerbacks = h3.NCornerbacks, h3.NSafeties
	res.Tests["H3"] = h3

	if h4, err := reactionByGroup(safeties, cornerbacks, cfg.Alpha); err == nil {
		res.Tests["H4"] = h4
	}

	return res, nil
}

func compareGroups(name string, group1, group2 []model.PlayerPlay, alt Alternative, alpha float64, column func(*model.PlayerPlay) float64) (HypothesisResult, error) {
	g1 := collect(group1, column)
	g2 := collect(group2, column)
	if len(g1) < 3 || len(g2) < 3 {
		return HypothesisResult{}, fmt.Errorf("too few observations (%d vs %d)", len(g1), len(g2))
	}

	assumptions := CheckAssumptions(g1, g2, alpha)
	test, err := TTest(g1, g2, alt, assumptions.Homogeneity.Passed)
	if err != nil {
		return HypothesisResult{}, err
	}

	testType := "t-test"
	if !assumptions.Homogeneity.Passed {
		testType = "welch-t-test"
	}

	return HypothesisResult{
		Hypothesis: name,
		TestType:   testType,

		Statistic:  test.Statistic,
		PValue:     test.PValue,
		EffectSize: CohensD(g1, g2),
		HedgesG:    HedgesG(g1, g2),

		MeanSafeties:    stat.Mean(g1, nil),
		MeanCornerbacks: stat.Mean(g2, nil),
		MeanDiff:        test.MeanDiff,

		NSafeties:    len(g1),
		NCornerbacks: len(g2),

		Significant:    test.PValue < alpha,
		AssumptionsMet: assumptions.AllMet,
		Assumptions:    assumptions,
	}, nil
}

// reactionByGroup builds a 2x2 contingency of position group against whether
// the player ever reacted during the play.
func reactionByGroup(safeties, cornerbacks []model.PlayerPlay, alpha float64) (HypothesisResult, error) {
	count := func(group []model.PlayerPlay) (reacted, not float64) {
		for i := range group {
			if math.IsNaN(group[i].ReactionFrameMin) {
				not++
			} else {
				reacted++
			}
		}
		return
	}
	sr, sn := count(safeties)
	cr, cn := count(cornerbacks)

	chi, err := ChiSquare([][]float64{{sr, sn}, {cr, cn}})
	if err != nil {
		return HypothesisResult{}, err
	}
	return HypothesisResult{
		Hypothesis:   "H4_reaction",
		TestType:     "chi-square",
		Statistic:    chi.Statistic,
		PValue:       chi.PValue,
		EffectSize:   chi.CramersV,
		CramersV:     chi.CramersV,
		NSafeties:    len(safeties),
		NCornerbacks: len(cornerbacks),
		Significant:  chi.PValue < alpha,
	}, nil
}

// collect pulls one column out of a group, dropping NaN.
func collect(group []model.PlayerPlay, column func(*model.PlayerPlay) float64) []float64 {
	out := make([]float64, 0, len(group))
	for i := range group {
		if v := column(&group[i]); !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
