package cleaning

import (
	"sort"

	"jefabcli/internal/table"
)

// Report counts the cells a table-level pass rewrote
type Report struct {
	Changed   int            `json:"changed"`
	PerColumn map[string]int `json:"per_column,omitempty"`
}

// Columns returns the names of the columns that changed, sorted
func (r Report) Columns() []string {
	names := make([]string, 0, len(r.PerColumn))
	for name := range r.PerColumn {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Report) add(column string, n int) {
	if n == 0 {
		return
	}
	if r.PerColumn == nil {
		r.PerColumn = make(map[string]int)
	}
	r.PerColumn[column] += n
	r.Changed += n
}

// NormalizeTable runs the normalizer over every text column in place
func NormalizeTable(t *table.Table, n *Normalizer) Report {
	return mapTextColumns(t, n.Normalize)
}

// CanonicalizeTable collapses list separators and maps known variants to their
// label in every text column, in place
func CanonicalizeTable(t *table.Table, c *Canonicalizer) Report {
	return mapTextColumns(t, func(v table.Value) table.Value {
		return c.Canonicalize(CollapseListSeparators(v))
	})
}

func mapTextColumns(t *table.Table, fn func(table.Value) table.Value) Report {
	var report Report
	for _, col := range t.ColumnsOfKind(table.KindText) {
		changed := 0
		for i, v := range col.Values {
			out := fn(v)
			if !out.Equal(v) {
				col.Values[i] = out
				changed++
			}
		}
		report.add(col.Name, changed)
	}
	return report
}
