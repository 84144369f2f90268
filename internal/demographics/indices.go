package demographics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"jefabcli/internal/table"
)

// AgeSummary describes the age column
type AgeSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Indices are the headline demographic indices. Undefined values are NaN.
type Indices struct {
	Age         AgeSummary         `json:"age"`
	Masculinity float64            `json:"masculinity"`
	Dependency  float64            `json:"dependency"`
	AgeCV       float64            `json:"age_cv"`
	MedianAge   map[string]float64 `json:"median_age_by_category"`
}

// GroupCount is the size of one age group
type GroupCount struct {
	Group   string  `json:"group"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AgeStructure is the distribution over AgeGroups
type AgeStructure struct {
	Groups []GroupCount `json:"groups"`
	Modal  string       `json:"modal"`
}

// ComputeIndices computes the masculinity index (men per 100 women), the dependency
// index (people under 30 or 50 and over per 100 people aged 30 to 49), the
// coefficient of variation of age and the median age per category.
// t must come from Prepare.
func ComputeIndices(t *table.Table) Indices {
	idx := Indices{
		Masculinity: math.NaN(),
		Dependency:  math.NaN(),
		AgeCV:       math.NaN(),
		MedianAge:   make(map[string]float64),
	}

	if sex, ok := t.Column(ColumnSexUp); ok {
		var men, women int
		for _, v := range sex.Values {
			switch s, _ := v.Str(); s {
			case SexMale:
				men++
			case SexFemale:
				women++
			}
		}
		if women > 0 {
			idx.Masculinity = float64(men) / float64(women) * 100
		}
	}

	ages := presentAges(t)
	if len(ages) == 0 {
		return idx
	}

	var young, old, active int
	for _, a := range ages {
		switch {
		case a < 30:
			young++
		case a >= 50:
			old++
		default:
			active++
		}
	}
	if active > 0 {
		idx.Dependency = float64(young+old) / float64(active) * 100
	}

	mean := stat.Mean(ages, nil)
	if len(ages) > 1 && mean != 0 {
		idx.AgeCV = stat.StdDev(ages, nil) / mean * 100
	}

	idx.Age = AgeSummary{
		Count:  len(ages),
		Mean:   mean,
		Median: median(ages),
		Min:    floats.Min(ages),
		Max:    floats.Max(ages),
	}

	for category, values := range agesBy(t, ColumnCategoryUp) {
		idx.MedianAge[category] = median(values)
	}

	return idx
}

// ComputeAgeStructure counts people per age group. Percentages are over all
// rows, rounded to one decimal. The modal group is the first largest one.
func ComputeAgeStructure(t *table.Table) AgeStructure {
	counts := make(map[string]int, len(AgeGroups))
	if col, ok := t.Column(ColumnAgeGroup); ok {
		for _, v := range col.Values {
			if s, ok := v.Str(); ok {
				counts[s]++
			}
		}
	}

	structure := AgeStructure{Groups: make([]GroupCount, 0, len(AgeGroups))}
	best := 0
	for _, g := range AgeGroups {
		gc := GroupCount{Group: g, Count: counts[g]}
		if t.Rows() > 0 {
			gc.Percent = math.Round(float64(gc.Count)/float64(t.Rows())*1000) / 10
		}
		if gc.Count > best {
			best = gc.Count
			structure.Modal = g
		}
		structure.Groups = append(structure.Groups, gc)
	}
	return structure
}

func presentAges(t *table.Table) []float64 {
	col, ok := t.Column(ColumnAge)
	if !ok {
		return nil
	}
	ages := make([]float64, 0, col.Len())
	for _, v := range col.Values {
		if a, ok := v.Float(); ok {
			ages = append(ages, a)
		}
	}
	return ages
}

// agesBy groups present ages by the text value of column; rows with a
// missing group value are left out
func agesBy(t *table.Table, column string) map[string][]float64 {
	groups := make(map[string][]float64)
	col, ok := t.Column(column)
	if !ok {
		return groups
	}
	for i, v := range col.Values {
		key, ok := v.Str()
		if !ok {
			continue
		}
		if a, ok := t.Get(ColumnAge, i).Float(); ok {
			groups[key] = append(groups[key], a)
		}
	}
	return groups
}

// median averages the two middle values of an even-sized sample
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
