package demographics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jefabcli/internal/shared/testutil"
)

func TestComputeIndices(t *testing.T) {
	idx := ComputeIndices(Prepare(surveyTable(t)))

	// 5 men, 2 women
	assert.InDelta(t, 250.0, idx.Masculinity, 1e-9)
	// ages 24 28 | 31 45 | 52 60
	assert.InDelta(t, 200.0, idx.Dependency, 1e-9)
	assert.InDelta(t, 100*math.Sqrt(210)/40, idx.AgeCV, 1e-9)

	assert.Equal(t, AgeSummary{Count: 6, Mean: 40, Median: 38, Min: 24, Max: 60}, idx.Age)

	require.Len(t, idx.MedianAge, 3)
	assert.Equal(t, 28.0, idx.MedianAge[CategoryOfficer])
	assert.Equal(t, 45.5, idx.MedianAge[CategoryNCO])
	assert.Equal(t, 52.0, idx.MedianAge[CategoryCivilian])
}

func TestComputeIndices_Undefined(t *testing.T) {
	tbl := testutil.BuildTable(t,
		testutil.TextCol(ColumnSex, "Hombre", "Hombre"),
		testutil.NumCol(ColumnAge, 22, 55),
	)

	idx := ComputeIndices(Prepare(tbl))

	assert.True(t, math.IsNaN(idx.Masculinity), "no women")
	assert.True(t, math.IsNaN(idx.Dependency), "nobody aged 30 to 49")
	assert.False(t, math.IsNaN(idx.AgeCV))
	assert.Empty(t, idx.MedianAge)
}

func TestComputeIndices_NoAges(t *testing.T) {
	tbl := testutil.BuildTable(t, testutil.TextCol(ColumnSex, "Hombre", "Mujer"))

	idx := ComputeIndices(Prepare(tbl))

	assert.InDelta(t, 100.0, idx.Masculinity, 1e-9)
	assert.True(t, math.IsNaN(idx.Dependency))
	assert.True(t, math.IsNaN(idx.AgeCV))
	assert.Zero(t, idx.Age.Count)
}

func TestComputeAgeStructure(t *testing.T) {
	s := ComputeAgeStructure(Prepare(surveyTable(t)))

	want := []GroupCount{
		{Group: "18-25", Count: 1, Percent: 12.5},
		{Group: "26-35", Count: 2, Percent: 25},
		{Group: "36-45", Count: 1, Percent: 12.5},
		{Group: "46-55", Count: 1, Percent: 12.5},
		{Group: "56+", Count: 1, Percent: 12.5},
	}
	assert.Equal(t, want, s.Groups)
	assert.Equal(t, "26-35", s.Modal)
}

func TestComputeAgeStructure_Empty(t *testing.T) {
	tbl := testutil.BuildTable(t, testutil.TextCol(ColumnSex, "Hombre"))

	s := ComputeAgeStructure(Prepare(tbl))

	assert.Len(t, s.Groups, len(AgeGroups))
	assert.Empty(t, s.Modal)
}

func TestMedian(t *testing.T) {
	assert.True(t, math.IsNaN(median(nil)))
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
}
