package imputation

import (
	"math"

	"jefabcli/internal/config"
	"jefabcli/internal/table"
)

// Bracketer maps ages to bracket labels
type Bracketer struct {
	bands []config.Bracket
	other string
}

// NewBracketer uses the bands in the given order. Bands are inclusive on both ends.
func NewBracketer(bands []config.Bracket, other string) *Bracketer {
	owned := make([]config.Bracket, len(bands))
	copy(owned, bands)
	return &Bracketer{bands: owned, other: other}
}

// Bracket returns the bracket of an age: number 0 when the age is missing,
// non-numeric or zero, the first band containing it, or the catch-all label.
func (b *Bracketer) Bracket(age table.Value) table.Value {
	a, ok := age.Float()
	if !ok || a == 0 || math.IsNaN(a) {
		return table.Number(0)
	}
	for _, band := range b.bands {
		if a >= float64(band.Low) && a <= float64(band.High) {
			return table.Text(band.Label)
		}
	}
	return table.Text(b.other)
}
