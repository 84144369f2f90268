package demographics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jefabcli/internal/shared/testutil"
	"jefabcli/internal/table"
)

// surveyTable is a small cleaned survey with messy spellings and gaps
func surveyTable(t *testing.T) *table.Table {
	return testutil.BuildTable(t,
		testutil.TextCol(ColumnSex, "Hombre", "hombre ", "Mujer", "HOMBRE", "mujer", "Hombre", nil, "Hombre"),
		testutil.TextCol(ColumnCategory, "Oficial", "Suboficial", "Oficial", "Civil", "Suboficial", "Oficial", "Civil", "Suboficial"),
		testutil.TextCol(ColumnRank, "Capitán", "Sargento", "Teniente", "No responde", "Sargento", "Capitán", "No responde", "Sargento"),
		testutil.TextCol(ColumnMaritalStatus, "Casado", "Soltero", "Casada", "Unión libre", "Soltera", "Casado", nil, "Casado"),
		testutil.TextCol(ColumnEducationLevel, "Profesional", "Técnico", "Profesional", "Bachiller", "Técnico", "Posgrado", "Bachiller", "Técnico"),
		testutil.TextCol(ColumnAge, 24, 31, "45", 52, nil, 28, "sin dato", 60),
	)
}

func TestPrepare_DerivedColumns(t *testing.T) {
	tbl := surveyTable(t)
	p := Prepare(tbl)

	tests := []struct {
		column string
		row    int
		want   table.Value
	}{
		{ColumnSexUp, 0, table.Text("HOMBRE")},
		{ColumnSexUp, 1, table.Text("HOMBRE")},
		{ColumnSexUp, 4, table.Text("MUJER")},
		{ColumnSexUp, 6, table.Missing()},
		{ColumnCategoryUp, 1, table.Text("SUBOFICIAL")},
		{ColumnRankLow, 0, table.Text("capitan")},
		{ColumnRankLow, 3, table.Text("no responde")},
		{ColumnEducationLow, 1, table.Text("tecnico")},
		{ColumnMaritalStatusUp, 3, table.Text("UNION LIBRE")},
		{ColumnMaritalStatusUp, 6, table.Missing()},
		{ColumnAge, 2, table.Number(45)},
		{ColumnAge, 6, table.Missing()},
		{ColumnAgeGroup, 0, table.Text("18-25")},
		{ColumnAgeGroup, 1, table.Text("26-35")},
		{ColumnAgeGroup, 2, table.Text("36-45")},
		{ColumnAgeGroup, 4, table.Missing()},
		{ColumnAgeGroup, 7, table.Text("56+")},
	}

	for _, tt := range tests {
		got := p.Get(tt.column, tt.row)
		assert.True(t, tt.want.Equal(got), "%s[%d] = %q, want %q", tt.column, tt.row, got.String(), tt.want.String())
	}

	age, ok := p.Column(ColumnAge)
	require.True(t, ok)
	assert.Equal(t, table.KindNumber, age.Kind)
}

func TestPrepare_DoesNotMutate(t *testing.T) {
	tbl := surveyTable(t)
	before := tbl.Clone()

	Prepare(tbl)

	assert.Equal(t, before.Names(), tbl.Names())
	for _, name := range tbl.Names() {
		for i := 0; i < tbl.Rows(); i++ {
			assert.True(t, before.Get(name, i).Equal(tbl.Get(name, i)), "%s[%d] changed", name, i)
		}
	}
}

func TestPrepare_MissingSources(t *testing.T) {
	tbl := testutil.BuildTable(t, testutil.TextCol(ColumnSex, "Mujer", "Hombre"))

	p := Prepare(tbl)

	assert.True(t, p.Has(ColumnSexUp))
	assert.False(t, p.Has(ColumnCategoryUp))
	assert.False(t, p.Has(ColumnAgeGroup))
}

func TestAgeGroup(t *testing.T) {
	tests := []struct {
		age  float64
		want string
	}{
		{0, "18-25"},
		{18, "18-25"},
		{25, "18-25"},
		{25.5, "26-35"},
		{35, "26-35"},
		{36, "36-45"},
		{55, "46-55"},
		{56, "56+"},
		{90, "56+"},
		{-1, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroup(tt.age), "age %v", tt.age)
	}
}
