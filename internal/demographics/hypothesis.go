package demographics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"jefabcli/internal/table"
)

// Significance labels for p-values
const (
	VerySignificant = "Muy significativa"
	Significant     = "Significativa"
	NotSignificant  = "No significativa"
)

// Association strength labels for Cramér's V
const (
	StrengthStrong   = "Fuerte"
	StrengthModerate = "Moderada"
	StrengthWeak     = "Débil"
)

// AssociationPairs are the categorical pairs tested for association
var AssociationPairs = [][2]string{
	{ColumnSexUp, ColumnCategoryUp},
	{ColumnAgeGroup, ColumnCategoryUp},
	{ColumnMaritalStatusUp, ColumnSexUp},
	{ColumnEducationLow, ColumnCategoryUp},
}

// Association is the chi-square test of independence between two columns
type Association struct {
	Rows         string  `json:"rows"`
	Cols         string  `json:"cols"`
	N            int     `json:"n"`
	DOF          int     `json:"dof"`
	Chi2         float64 `json:"chi2"`
	PValue       float64 `json:"p_value"`
	CramerV      float64 `json:"cramer_v"`
	Significance string  `json:"significance"`
	Strength     string  `json:"strength"`
}

// TTest compares the mean age of men and women
type TTest struct {
	T              float64 `json:"t"`
	DOF            float64 `json:"dof"`
	PValue         float64 `json:"p_value"`
	MeanDifference float64 `json:"mean_difference"`
	Significance   string  `json:"significance"`
}

// ANOVA compares the mean age across categories
type ANOVA struct {
	F            float64 `json:"f"`
	DFBetween    int     `json:"df_between"`
	DFWithin     int     `json:"df_within"`
	PValue       float64 `json:"p_value"`
	Groups       int     `json:"groups"`
	Significance string  `json:"significance"`
}

// SignificanceOf labels a p-value
func SignificanceOf(p float64) string {
	switch {
	case p < 0.01:
		return VerySignificant
	case p < 0.05:
		return Significant
	default:
		return NotSignificant
	}
}

// StrengthOf labels a Cramér's V
func StrengthOf(v float64) string {
	switch {
	case v > 0.3:
		return StrengthStrong
	case v > 0.1:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Crosstab counts rows by the text values of two columns, ignoring rows
// where either is missing. Labels are sorted.
func Crosstab(t *table.Table, rows, cols string) (rowLabels, colLabels []string, counts [][]float64) {
	a, okA := t.Column(rows)
	b, okB := t.Column(cols)
	if !okA || !okB {
		return nil, nil, nil
	}

	type cell struct{ r, c string }
	tally := make(map[cell]float64)
	rowSet := make(map[string]struct{})
	colSet := make(map[string]struct{})
	for i := range a.Values {
		r, ok1 := a.Values[i].Str()
		c, ok2 := b.Values[i].Str()
		if !ok1 || !ok2 {
			continue
		}
		tally[cell{r, c}]++
		rowSet[r] = struct{}{}
		colSet[c] = struct{}{}
	}

	rowLabels = sortedKeys(rowSet)
	colLabels = sortedKeys(colSet)
	counts = make([][]float64, len(rowLabels))
	for i, r := range rowLabels {
		counts[i] = make([]float64, len(colLabels))
		for j, c := range colLabels {
			counts[i][j] = tally[cell{r, c}]
		}
	}
	return rowLabels, colLabels, counts
}

// Associate runs the chi-square test of independence on the crosstab of
// rows by cols. Tables smaller than 2x2 return false. A 2x2 table uses the
// Yates continuity correction.
func Associate(t *table.Table, rows, cols string) (Association, bool) {
	rowLabels, colLabels, counts := Crosstab(t, rows, cols)
	if len(rowLabels) < 2 || len(colLabels) < 2 {
		return Association{}, false
	}

	rowSums := make([]float64, len(rowLabels))
	colSums := make([]float64, len(colLabels))
	var n float64
	for i, row := range counts {
		for j, o := range row {
			rowSums[i] += o
			colSums[j] += o
			n += o
		}
	}

	dof := (len(rowLabels) - 1) * (len(colLabels) - 1)
	var chi2 float64
	for i, row := range counts {
		for j, o := range row {
			e := rowSums[i] * colSums[j] / n
			diff := math.Abs(o - e)
			if dof == 1 {
				diff = math.Max(diff-0.5, 0)
			}
			chi2 += diff * diff / e
		}
	}

	k := math.Min(float64(len(rowLabels)), float64(len(colLabels))) - 1
	v := math.Sqrt(chi2 / (n * k))
	p := distuv.ChiSquared{K: float64(dof)}.Survival(chi2)

	return Association{
		Rows:         rows,
		Cols:         cols,
		N:            int(n),
		DOF:          dof,
		Chi2:         chi2,
		PValue:       p,
		CramerV:      v,
		Significance: SignificanceOf(p),
		Strength:     StrengthOf(v),
	}, true
}

// Associations tests every pair of AssociationPairs present in t
func Associations(t *table.Table) []Association {
	var out []Association
	for _, pair := range AssociationPairs {
		if !t.Has(pair[0]) || !t.Has(pair[1]) {
			continue
		}
		if a, ok := Associate(t, pair[0], pair[1]); ok {
			out = append(out, a)
		}
	}
	return out
}

// AgeBySex runs Welch's t-test on the ages of men and women. It needs at
// least two ages in each group.
func AgeBySex(t *table.Table) (TTest, bool) {
	groups := agesBy(t, ColumnSexUp)
	men, women := groups[SexMale], groups[SexFemale]
	if len(men) < 2 || len(women) < 2 {
		return TTest{}, false
	}

	m1, v1 := stat.MeanVariance(men, nil)
	m2, v2 := stat.MeanVariance(women, nil)
	n1, n2 := float64(len(men)), float64(len(women))

	se1, se2 := v1/n1, v2/n2
	se := math.Sqrt(se1 + se2)
	if se == 0 {
		return TTest{}, false
	}
	tstat := (m1 - m2) / se
	dof := (se1 + se2) * (se1 + se2) / (se1*se1/(n1-1) + se2*se2/(n2-1))
	p := 2 * distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}.Survival(math.Abs(tstat))

	return TTest{
		T:              tstat,
		DOF:            dof,
		PValue:         p,
		MeanDifference: m1 - m2,
		Significance:   SignificanceOf(p),
	}, true
}

// AgeByCategory runs a one-way ANOVA of age across categories. Categories
// with fewer than two ages are left out; at least two must remain.
func AgeByCategory(t *table.Table) (ANOVA, bool) {
	byCategory := agesBy(t, ColumnCategoryUp)
	var groups [][]float64
	for _, key := range sortedKeys(byCategory) {
		if len(byCategory[key]) > 1 {
			groups = append(groups, byCategory[key])
		}
	}
	if len(groups) < 2 {
		return ANOVA{}, false
	}

	var all []float64
	for _, g := range groups {
		all = append(all, g...)
	}
	grand := stat.Mean(all, nil)

	var between, within float64
	for _, g := range groups {
		m := stat.Mean(g, nil)
		between += float64(len(g)) * (m - grand) * (m - grand)
		for _, x := range g {
			within += (x - m) * (x - m)
		}
	}

	dfb := len(groups) - 1
	dfw := len(all) - len(groups)
	if within == 0 {
		return ANOVA{}, false
	}
	f := (between / float64(dfb)) / (within / float64(dfw))
	p := distuv.F{D1: float64(dfb), D2: float64(dfw)}.Survival(f)

	return ANOVA{
		F:            f,
		DFBetween:    dfb,
		DFWithin:     dfw,
		PValue:       p,
		Groups:       len(groups),
		Significance: SignificanceOf(p),
	}, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
