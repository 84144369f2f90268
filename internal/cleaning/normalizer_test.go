package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jefabcli/internal/config"
	"jefabcli/internal/table"
)

func defaultNormalizer() *Normalizer {
	return NewNormalizer(config.DefaultCleaning().Mojibake)
}

func TestNormalizeString(t *testing.T) {
	n := defaultNormalizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \t\n ", want: ""},
		{name: "trim and lowercase", input: "  Madre ", want: "madre"},
		{name: "accents stripped", input: "Mamá", want: "mama"},
		{name: "enye stripped", input: "Año", want: "ano"},
		{name: "mojibake acute", input: "MamÃ¡", want: "mama"},
		{name: "mojibake soft hyphen sequence", input: "TÃ\u00ado", want: "tio"},
		{name: "mojibake uppercase", input: "ÃšLTIMO", want: "ultimo"},
		{name: "mojibake enye", input: "EspaÃ±a", want: "espana"},
		{name: "already clean", input: "primos", want: "primos"},
		{name: "list keeps separators", input: "Madre ; Padre", want: "madre ; padre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.NormalizeString(tt.input))
		})
	}
}

func TestNormalizeString_Idempotent(t *testing.T) {
	n := defaultNormalizer()

	inputs := []string{
		"", "  ", "Sí", "SÍ", "MamÃ¡", "Ãœber", "İstanbul", "ﬁn", "Ñandú  ",
		"madre;padre", "  Hermanos ; Tíos ", "18-22", "NaN",
	}
	for _, in := range inputs {
		once := n.NormalizeString(in)
		assert.Equal(t, once, n.NormalizeString(once), "input %q", in)
	}
}

func TestNormalizer_LongestPatternFirst(t *testing.T) {
	tests := []struct {
		name  string
		table []config.Replacement
	}{
		{
			name: "short pattern listed first",
			table: []config.Replacement{
				{From: "Ã", To: "Á"},
				{From: "Ã±", To: "ñ"},
			},
		},
		{
			name: "long pattern listed first",
			table: []config.Replacement{
				{From: "Ã±", To: "ñ"},
				{From: "Ã", To: "Á"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.table)
			assert.Equal(t, "espana", n.NormalizeString("EspaÃ±a"))
			assert.Equal(t, "arbol", n.NormalizeString("Ãrbol"))
			assert.Equal(t, "Ã±", n.Patterns()[0].From)
		})
	}
}

func TestNormalizer_TiesKeepTableOrder(t *testing.T) {
	n := NewNormalizer([]config.Replacement{
		{From: "ab", To: "x"},
		{From: "", To: "ignored"},
		{From: "bc", To: "y"},
	})

	patterns := n.Patterns()
	assert.Len(t, patterns, 2)
	assert.Equal(t, "ab", patterns[0].From)
	assert.Equal(t, "bc", patterns[1].From)
	assert.Equal(t, "xc", n.NormalizeString("abc"))
}

func TestNormalize_Values(t *testing.T) {
	n := defaultNormalizer()

	assert.True(t, n.Normalize(table.Missing()).IsMissing())
	assert.True(t, n.Normalize(table.Number(0)).Equal(table.Number(0)))
	assert.True(t, n.Normalize(table.Text(" SÍ ")).Equal(table.Text("si")))
	assert.True(t, n.Normalize(table.Text("   ")).Equal(table.Text("")), "blank text stays present")
}
