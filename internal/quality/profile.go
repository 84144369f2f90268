package quality

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"jefabcli/internal/cleaning"
	"jefabcli/internal/table"
)

// HighMissingPercent is the share of missing cells above which a column is flagged
const HighMissingPercent = 10.0

// TopValues is the number of most frequent answers kept per text column
const TopValues = 5

// MissingLabel renders missing cells in frequency tables
const MissingLabel = "<NA>"

// ColumnSummary describes one column
type ColumnSummary struct {
	Name     string  `json:"name"`
	Kind     string  `json:"kind"`
	Missing  int     `json:"missing"`
	Percent  float64 `json:"percent"`
	Distinct int     `json:"distinct"`
}

// NumericSummary describes the distribution of a numeric column
type NumericSummary struct {
	Name           string  `json:"name"`
	Count          int     `json:"count"`
	Mean           float64 `json:"mean"`
	Std            float64 `json:"std"`
	Min            float64 `json:"min"`
	Q1             float64 `json:"q1"`
	Median         float64 `json:"median"`
	Q3             float64 `json:"q3"`
	Max            float64 `json:"max"`
	Outliers       int     `json:"outliers"`
	OutlierPercent float64 `json:"outlier_percent"`
}

// VariantGroup lists raw answers of one column that share a canonical label
type VariantGroup struct {
	Column    string   `json:"column"`
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
}

// ValueCount is one row of a frequency table
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// CategoricalProfile describes the answers of a text column
type CategoricalProfile struct {
	Name             string       `json:"name"`
	Top              []ValueCount `json:"top"`
	PaddedWhitespace bool         `json:"padded_whitespace"`
	MixedCase        bool         `json:"mixed_case"`
}

// Correlation is a Pearson matrix over pairwise complete rows. Undefined
// entries are NaN.
type Correlation struct {
	Columns []string    `json:"columns"`
	Matrix  [][]float64 `json:"matrix"`
}

// Report is the data quality profile of a table
type Report struct {
	Rows            int                  `json:"rows"`
	Columns         int                  `json:"columns"`
	Duplicates      int                  `json:"duplicates"`
	KindCounts      map[string]int       `json:"kind_counts"`
	MojibakeHeaders []string             `json:"mojibake_headers,omitempty"`
	Summary         []ColumnSummary      `json:"summary"`
	HighMissing     []ColumnSummary      `json:"high_missing,omitempty"`
	Variants        []VariantGroup       `json:"variants,omitempty"`
	Numeric         []NumericSummary     `json:"numeric,omitempty"`
	Correlation     Correlation          `json:"correlation"`
	Categorical     []CategoricalProfile `json:"categorical,omitempty"`
}

// Profile computes the quality report of t. It does not modify t. The
// canonicalizer groups raw answers into variants; nil skips the grouping.
func Profile(t *table.Table, c *cleaning.Canonicalizer) Report {
	report := Report{
		Rows:       t.Rows(),
		Columns:    t.Width(),
		Duplicates: countDuplicateRows(t),
		KindCounts: make(map[string]int),
	}

	for _, col := range t.Columns() {
		report.KindCounts[col.Kind.String()]++
		if strings.ContainsAny(col.Name, "Ãâ") {
			report.MojibakeHeaders = append(report.MojibakeHeaders, col.Name)
		}
		report.Summary = append(report.Summary, summarize(col, t.Rows()))
	}

	sort.SliceStable(report.Summary, func(i, j int) bool {
		return report.Summary[i].Percent > report.Summary[j].Percent
	})
	for _, s := range report.Summary {
		if s.Percent > HighMissingPercent {
			report.HighMissing = append(report.HighMissing, s)
		}
	}

	for _, col := range t.ColumnsOfKind(table.KindText) {
		if c != nil {
			report.Variants = append(report.Variants, variantGroups(col, c)...)
		}
		report.Categorical = append(report.Categorical, categorical(col))
	}

	numeric := t.ColumnsOfKind(table.KindNumber)
	for _, col := range numeric {
		if ns, ok := describe(col); ok {
			report.Numeric = append(report.Numeric, ns)
		}
	}
	report.Correlation = correlate(numeric)

	return report
}

func summarize(col *table.Column, rows int) ColumnSummary {
	missing := col.MissingCount()
	distinct := make(map[string]struct{})
	for _, v := range col.Values {
		distinct[valueKey(v)] = struct{}{}
	}

	percent := 0.0
	if rows > 0 {
		percent = math.Round(float64(missing)/float64(rows)*10000) / 100
	}
	return ColumnSummary{
		Name:     col.Name,
		Kind:     col.Kind.String(),
		Missing:  missing,
		Percent:  percent,
		Distinct: len(distinct),
	}
}

// valueKey distinguishes the three value states so "0" and 0 differ
func valueKey(v table.Value) string {
	switch {
	case v.IsMissing():
		return "m"
	case v.IsText():
		return "t" + v.String()
	default:
		return "n" + v.String()
	}
}

// countDuplicateRows counts rows equal to an earlier row
func countDuplicateRows(t *table.Table) int {
	seen := make(map[string]struct{}, t.Rows())
	dups := 0
	var b strings.Builder
	for i := 0; i < t.Rows(); i++ {
		b.Reset()
		for _, v := range t.Row(i) {
			b.WriteString(valueKey(v))
			b.WriteByte(0)
		}
		key := b.String()
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// variantGroups groups the distinct raw answers of a column by canonical
// label, in order of first appearance. Only groups with several spellings
// are returned.
func variantGroups(col *table.Column, c *cleaning.Canonicalizer) []VariantGroup {
	var order []string
	groups := make(map[string][]string)
	seen := make(map[string]struct{})

	for _, v := range col.Values {
		raw, ok := v.Str()
		if !ok {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}

		label, known := c.Lookup(raw)
		if !known {
			label = raw
		}
		if _, exists := groups[label]; !exists {
			order = append(order, label)
		}
		groups[label] = append(groups[label], raw)
	}

	var out []VariantGroup
	for _, label := range order {
		if len(groups[label]) > 1 {
			out = append(out, VariantGroup{Column: col.Name, Canonical: label, Variants: groups[label]})
		}
	}
	return out
}

func categorical(col *table.Column) CategoricalProfile {
	profile := CategoricalProfile{Name: col.Name}

	counts := make(map[string]int)
	var order []string
	raw := make(map[string]struct{})
	lowered := make(map[string]struct{})

	for _, v := range col.Values {
		label := MissingLabel
		if s, ok := v.Str(); ok {
			label = s
			raw[s] = struct{}{}
			lowered[strings.ToLower(s)] = struct{}{}
			if s != strings.TrimSpace(s) {
				profile.PaddedWhitespace = true
			}
		}
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}
	profile.MixedCase = len(lowered) < len(raw)

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > TopValues {
		order = order[:TopValues]
	}
	for _, label := range order {
		profile.Top = append(profile.Top, ValueCount{Value: label, Count: counts[label]})
	}
	return profile
}

func presentFloats(col *table.Column) []float64 {
	xs := make([]float64, 0, col.Len())
	for _, v := range col.Values {
		if f, ok := v.Float(); ok {
			xs = append(xs, f)
		}
	}
	return xs
}

// describe summarizes a numeric column; false when it has no values
func describe(col *table.Column) (NumericSummary, bool) {
	xs := presentFloats(col)
	if len(xs) == 0 {
		return NumericSummary{}, false
	}
	sort.Float64s(xs)

	ns := NumericSummary{
		Name:   col.Name,
		Count:  len(xs),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Q1:     quantile(xs, 0.25),
		Median: quantile(xs, 0.5),
		Q3:     quantile(xs, 0.75),
	}
	ns.Mean = stat.Mean(xs, nil)
	if len(xs) > 1 {
		ns.Std = stat.StdDev(xs, nil)
	} else {
		ns.Std = math.NaN()
	}

	iqr := ns.Q3 - ns.Q1
	low, high := ns.Q1-1.5*iqr, ns.Q3+1.5*iqr
	for _, x := range xs {
		if x < low || x > high {
			ns.Outliers++
		}
	}
	if rows := col.Len(); rows > 0 {
		ns.OutlierPercent = math.Round(float64(ns.Outliers)/float64(rows)*10000) / 100
	}
	return ns, true
}

// quantile interpolates linearly between the order statistics around
// (n-1)p, the rule spreadsheet tools and pandas use. xs must be sorted.
func quantile(xs []float64, p float64) float64 {
	h := float64(len(xs)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(xs) {
		return xs[len(xs)-1]
	}
	return xs[lo] + (h-float64(lo))*(xs[lo+1]-xs[lo])
}

func correlate(cols []*table.Column) Correlation {
	corr := Correlation{
		Columns: make([]string, len(cols)),
		Matrix:  make([][]float64, len(cols)),
	}
	for i, col := range cols {
		corr.Columns[i] = col.Name
		corr.Matrix[i] = make([]float64, len(cols))
	}

	for i := range cols {
		for j := i; j < len(cols); j++ {
			r := pairwise(cols[i], cols[j])
			corr.Matrix[i][j] = r
			corr.Matrix[j][i] = r
		}
	}
	return corr
}

// pairwise is the Pearson correlation over rows where both columns are present
func pairwise(a, b *table.Column) float64 {
	var xs, ys []float64
	for i := range a.Values {
		x, okx := a.Values[i].Float()
		y, oky := b.Values[i].Float()
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
