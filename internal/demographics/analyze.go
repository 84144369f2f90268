package demographics

import (
	"fmt"
	"math"

	"jefabcli/internal/table"
)

// noAnswer is the normalized rank answer left out of the most frequent rank
const noAnswer = "no responde"

// Frequency is a labelled count with its share of all rows
type Frequency struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// KeyAnswers answers the headline questions of the survey report
type KeyAnswers struct {
	ModalAgeRange       string      `json:"modal_age_range,omitempty"`
	Sex                 []Frequency `json:"sex,omitempty"`
	MostFrequentRank    *Frequency  `json:"most_frequent_rank,omitempty"`
	PredominantCategory *Frequency  `json:"predominant_category,omitempty"`
}

// Report aggregates the demographic analysis of a survey
type Report struct {
	Rows          int           `json:"rows"`
	Indices       Indices       `json:"indices"`
	AgeStructure  AgeStructure  `json:"age_structure"`
	Associations  []Association `json:"associations,omitempty"`
	AgeBySex      *TTest        `json:"age_by_sex,omitempty"`
	AgeByCategory *ANOVA        `json:"age_by_category,omitempty"`
	Answers       KeyAnswers    `json:"answers"`
}

// Analyze prepares t and runs every analysis on it. t is not modified.
func Analyze(t *table.Table) Report {
	p := Prepare(t)

	report := Report{
		Rows:         p.Rows(),
		Indices:      ComputeIndices(p),
		AgeStructure: ComputeAgeStructure(p),
		Associations: Associations(p),
		Answers:      Answer(p),
	}
	if tt, ok := AgeBySex(p); ok {
		report.AgeBySex = &tt
	}
	if a, ok := AgeByCategory(p); ok {
		report.AgeByCategory = &a
	}
	return report
}

// Answer computes the key answers on a prepared table
func Answer(t *table.Table) KeyAnswers {
	answers := KeyAnswers{
		ModalAgeRange: modalAgeRange(presentAges(t)),
		Sex:           Frequencies(t, ColumnSexUp),
	}

	if rank, ok := t.Column(ColumnRank); ok {
		low, _ := t.Column(ColumnRankLow)
		counts := make(map[string]int)
		var order []string
		for i, v := range rank.Values {
			s, ok := v.Str()
			if !ok {
				continue
			}
			if low != nil {
				if l, _ := low.Values[i].Str(); l == noAnswer {
					continue
				}
			}
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
		if f, ok := mode(order, counts, t.Rows()); ok {
			answers.MostFrequentRank = &f
		}
	}

	if freqs := Frequencies(t, ColumnCategoryUp); len(freqs) > 0 {
		answers.PredominantCategory = &freqs[0]
	}
	return answers
}

// Frequencies counts the present values of column, most frequent first.
// Ties keep the order of first appearance. Percentages are over all rows.
func Frequencies(t *table.Table, column string) []Frequency {
	col, ok := t.Column(column)
	if !ok {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	for _, v := range col.Values {
		s, ok := v.Str()
		if !ok {
			continue
		}
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}

	out := make([]Frequency, 0, len(order))
	for len(order) > 0 {
		f, _ := mode(order, counts, t.Rows())
		out = append(out, f)
		rest := order[:0:0]
		for _, label := range order {
			if label != f.Label {
				rest = append(rest, label)
			}
		}
		order = rest
	}
	return out
}

// mode returns the first label with the highest count
func mode(order []string, counts map[string]int, rows int) (Frequency, bool) {
	var best Frequency
	for _, label := range order {
		if counts[label] > best.Count {
			best = Frequency{Label: label, Count: counts[label]}
		}
	}
	if best.Count == 0 {
		return Frequency{}, false
	}
	if rows > 0 {
		best.Percent = math.Round(float64(best.Count)/float64(rows)*1000) / 10
	}
	return best, true
}

// modalAgeRange finds the most populated five-year range between 18 and 68.
// Ranges are open on the left, so 18 itself falls in none of them.
func modalAgeRange(ages []float64) string {
	const first, width, ranges = 18, 5, 10
	var counts [ranges]int
	for _, a := range ages {
		if a <= first || a > first+width*ranges {
			continue
		}
		i := int(math.Ceil((a-first)/width)) - 1
		counts[i]++
	}

	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	low := first + best*width
	return fmt.Sprintf("(%d, %d]", low, low+width)
}
