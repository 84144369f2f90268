package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jefabcli/internal/table"
)

func TestBuildTable(t *testing.T) {
	tbl := BuildTable(t,
		TextCol("HIJOS", "no", nil, "si"),
		NumCol("NUMERO_HIJOS", nil, 2, 1.5),
	)

	assert.Equal(t, 3, tbl.Rows())
	assert.Equal(t, []string{"HIJOS", "NUMERO_HIJOS"}, tbl.Names())
	assert.True(t, tbl.Get("HIJOS", 1).IsMissing())
	assert.True(t, tbl.Get("NUMERO_HIJOS", 1).Equal(table.Number(2)))

	col, ok := tbl.Column("NUMERO_HIJOS")
	require.True(t, ok)
	assert.Equal(t, table.KindNumber, col.Kind)
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	WriteWorkbook(t, path, []string{"A", "B"}, [][]any{{"x", 1}, {nil, 2}})

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "B"}, rows[0])
	assert.Equal(t, []string{"", "2"}, rows[2])
}
