package table

import (
	"math"
	"strconv"
	"strings"
)

// ParseCell converts a raw spreadsheet cell into a Value.
// Blank cells and the literal markers pandas writes for missing data become missing.
func ParseCell(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" || s == "nan" || s == "NaN" {
		return Missing()
	}
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	return Text(raw)
}

// FromStrings builds a column from raw cells and tags it. The column is numeric
// when every present cell parses as a number; otherwise every present cell is
// kept as its raw text.
func FromStrings(name string, raw []string) *Column {
	values := make([]Value, len(raw))
	numeric := true
	present := 0
	for i, r := range raw {
		v := ParseCell(r)
		values[i] = v
		if v.IsMissing() {
			continue
		}
		present++
		if !v.IsNumber() {
			numeric = false
		}
	}

	kind := KindText
	if numeric && present > 0 {
		kind = KindNumber
	}
	if kind == KindText {
		for i, r := range raw {
			if !values[i].IsMissing() {
				values[i] = Text(r)
			}
		}
	}
	return &Column{Name: name, Kind: kind, Values: values}
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
