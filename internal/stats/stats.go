// Package stats implements the hypothesis-testing layer: two-sample t-tests,
// chi-square independence, effect sizes, and the assumption checks used to
// pick between the pooled and Welch test variants.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Alternative selects the alternative hypothesis for a t-test.
type Alternative string

const (
	TwoSided Alternative = "two-sided"
	Greater  Alternative = "greater"
	Less     Alternative = "less"
)

// TTestResult holds a two-sample t-test outcome.
type TTestResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	DF        float64 `json:"df"`
	MeanDiff  float64 `json:"mean_diff"`
}

// TTest runs an independent two-sample t-test of group1 against group2.
// equalVar selects the pooled-variance test; false gives Welch's test with
// Satterthwaite degrees of freedom.
func TTest(group1, group2 []float64, alternative Alternative, equalVar bool) (TTestResult, error) {
	n1, n2 := float64(len(group1)), float64(len(group2))
	if len(group1) < 2 || len(group2) < 2 {
		return TTestResult{}, fmt.Errorf("t-test needs at least 2 observations per group, got %d and %d", len(group1), len(group2))
	}

	m1, m2 := stat.Mean(group1, nil), stat.Mean(group2, nil)
	v1, v2 := stat.Variance(group1, nil), stat.Variance(group2, nil)
	diff := m1 - m2

	var t, df float64
	if equalVar {
		pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
		t = diff / math.Sqrt(pooled*(1/n1+1/n2))
		df = n1 + n2 - 2
	} else {
		se1, se2 := v1/n1, v2/n2
		t = diff / math.Sqrt(se1+se2)
		df = (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	var p float64
	switch alternative {
	case Greater:
		p = dist.Survival(t)
	case Less:
		p = dist.CDF(t)
	default:
		p = 2 * dist.Survival(math.Abs(t))
	}

	return TTestResult{Statistic: t, PValue: p, DF: df, MeanDiff: diff}, nil
}

// CohensD is the pooled-standard-deviation standardized mean difference.
func CohensD(group1, group2 []float64) float64 {
	n1, n2 := float64(len(group1)), float64(len(group2))
	v1, v2 := stat.Variance(group1, nil), stat.Variance(group2, nil)
	pooled := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	return (stat.Mean(group1, nil) - stat.Mean(group2, nil)) / pooled
}

// HedgesG is Cohen's d with the small-sample bias correction.
func HedgesG(group1, group2 []float64) float64 {
	n := float64(len(group1) + len(group2))
	return CohensD(group1, group2) * (1 - 3/(4*n-9))
}

// ChiSquareResult holds a chi-square independence test outcome.
type ChiSquareResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	DF        int     `json:"df"`
	CramersV  float64 `json:"cramers_v"`
}

// ChiSquare runs a chi-square test of independence over a contingency table
// of observed counts, and reports Cramér's V alongside.
func ChiSquare(observed [][]float64) (ChiSquareResult, error) {
	rows := len(observed)
	if rows < 2 || len(observed[0]) < 2 {
		return ChiSquareResult{}, fmt.Errorf("contingency table must be at least 2x2, got %dx%d", rows, len(observed[0]))
	}
	cols := len(observed[0])

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	total := 0.0
	for i, row := range observed {
		if len(row) != cols {
			return ChiSquareResult{}, fmt.Errorf("ragged contingency table at row %d", i)
		}
		for j, o := range row {
			rowSums[i] += o
			colSums[j] += o
			total += o
		}
	}
	if total == 0 {
		return ChiSquareResult{}, fmt.Errorf("empty contingency table")
	}

	chi2 := 0.0
	for i := range observed {
		for j := range observed[i] {
			expected := rowSums[i] * colSums[j] / total
			d := observed[i][j] - expected
			chi2 += d * d / expected
		}
	}

	df := (rows - 1) * (cols - 1)
	p := distuv.ChiSquared{K: float64(df)}.Survival(chi2)

	minDim := rows - 1
	if cols-1 < minDim {
		minDim = cols - 1
	}
	v := math.Sqrt(chi2 / (total * float64(minDim)))

	return ChiSquareResult{Statistic: chi2, PValue: p, DF: df, CramersV: v}, nil
}

// CheckResult is one assumption check: statistic, p-value, and whether the
// assumption holds at the given alpha.
type CheckResult struct {
	Statistic float64 `json:"statistic"`
	PValue    float64 `json:"p_value"`
	Passed    bool    `json:"passed"`
}

// Levene tests homogeneity of variances across groups using median centering
// (the Brown-Forsythe variant). Passed means variances look equal.
func Levene(alpha float64, groups ...[]float64) CheckResult {
	k := len(groups)
	n := 0
	for _, g := range groups {
		n += len(g)
	}

	// Absolute deviations from each group's median.
	z := make([][]float64, k)
	groupMeans := make([]float64, k)
	grand := 0.0
	for i, g := range groups {
		med := median(g)
		z[i] = make([]float64, len(g))
		for j, x := range g {
			z[i][j] = math.Abs(x - med)
		}
		groupMeans[i] = stat.Mean(z[i], nil)
		grand += groupMeans[i] * float64(len(g))
	}
	grand /= float64(n)

	num, den := 0.0, 0.0
	for i := range z {
		ni := float64(len(z[i]))
		d := groupMeans[i] - grand
		num += ni * d * d
		for _, zij := range z[i] {
			e := zij - groupMeans[i]
			den += e * e
		}
	}

	w := (float64(n-k) / float64(k-1)) * num / den
	p := distuv.F{D1: float64(k - 1), D2: float64(n - k)}.Survival(w)
	return CheckResult{Statistic: w, PValue: p, Passed: p > alpha}
}

// JarqueBera tests normality from sample skewness and excess kurtosis. Passed
// means the data looks normal at the given alpha.
func JarqueBera(data []float64, alpha float64) CheckResult {
	n := float64(len(data))
	mean := stat.Mean(data, nil)

	var m2, m3, m4 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
		m4 += d * d * d * d
	}
	m2 /= n
	m3 /= n
	m4 /= n

	skew := m3 / math.Pow(m2, 1.5)
	kurt := m4/(m2*m2) - 3

	jb := n / 6 * (skew*skew + kurt*kurt/4)
	p := distuv.ChiSquared{K: 2}.Survival(jb)
	return CheckResult{Statistic: jb, PValue: p, Passed: p > alpha}
}

// Assumptions bundles the parametric-test precondition checks for two groups.
type Assumptions struct {
	NormalityGroup1 CheckResult `json:"normality_group1"`
	NormalityGroup2 CheckResult `json:"normality_group2"`
	Homogeneity     CheckResult `json:"homogeneity"`
	AllMet          bool        `json:"all_met"`
}

// CheckAssumptions runs normality on both groups and Levene across them.
// Homogeneity decides between the pooled and Welch t-test variants.
func CheckAssumptions(group1, group2 []float64, alpha float64) Assumptions {
	a := Assumptions{
		NormalityGroup1: JarqueBera(group1, alpha),
		NormalityGroup2: JarqueBera(group2, alpha),
		Homogeneity:     Levene(alpha, group1, group2),
	}
	a.AllMet = a.NormalityGroup1.Passed && a.NormalityGroup2.Passed && a.Homogeneity.Passed
	return a
}

func median(data []float64) float64 {
	s := append([]float64(nil), data...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
