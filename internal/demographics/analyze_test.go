package demographics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jefabcli/internal/shared/testutil"
)

func TestAnalyze(t *testing.T) {
	tbl := surveyTable(t)

	report := Analyze(tbl)

	assert.Equal(t, 8, report.Rows)
	assert.InDelta(t, 250.0, report.Indices.Masculinity, 1e-9)
	assert.Equal(t, "26-35", report.AgeStructure.Modal)
	assert.Nil(t, report.AgeBySex, "only one woman has an age")
	require.NotNil(t, report.AgeByCategory)
	assert.Equal(t, 2, report.AgeByCategory.Groups)

	require.NotEmpty(t, report.Associations)
	assert.Equal(t, ColumnSexUp, report.Associations[0].Rows)
	assert.Equal(t, 7, report.Associations[0].N)

	assert.False(t, tbl.Has(ColumnSexUp), "input must not be modified")
}

func TestAnswer(t *testing.T) {
	answers := Answer(Prepare(surveyTable(t)))

	assert.Equal(t, "(23, 28]", answers.ModalAgeRange)
	assert.Equal(t, []Frequency{
		{Label: "HOMBRE", Count: 5, Percent: 62.5},
		{Label: "MUJER", Count: 2, Percent: 25},
	}, answers.Sex)

	require.NotNil(t, answers.MostFrequentRank)
	assert.Equal(t, Frequency{Label: "Sargento", Count: 3, Percent: 37.5}, *answers.MostFrequentRank)

	// OFICIAL and SUBOFICIAL tie; the first one seen wins
	require.NotNil(t, answers.PredominantCategory)
	assert.Equal(t, Frequency{Label: "OFICIAL", Count: 3, Percent: 37.5}, *answers.PredominantCategory)
}

func TestFrequencies(t *testing.T) {
	tbl := testutil.BuildTable(t, testutil.TextCol("X", "b", "a", "b", nil, "c", "a", "b"))

	got := Frequencies(tbl, "X")

	assert.Equal(t, []Frequency{
		{Label: "b", Count: 3, Percent: 42.9},
		{Label: "a", Count: 2, Percent: 28.6},
		{Label: "c", Count: 1, Percent: 14.3},
	}, got)
	assert.Nil(t, Frequencies(tbl, "Y"))
}

func TestModalAgeRange(t *testing.T) {
	tests := []struct {
		name string
		ages []float64
		want string
	}{
		{name: "empty", ages: nil, want: ""},
		{name: "eighteen falls outside", ages: []float64{18, 18}, want: ""},
		{name: "right edge included", ages: []float64{23, 23, 24}, want: "(18, 23]"},
		{name: "tie keeps the younger range", ages: []float64{20, 30}, want: "(18, 23]"},
		{name: "last range", ages: []float64{66, 68, 70}, want: "(63, 68]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, modalAgeRange(tt.ages))
		})
	}
}
