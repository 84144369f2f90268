package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jefabcli/internal/table"
)

// Cell converts a literal into a table value: nil is missing, strings are text,
// integers and floats are numbers.
func Cell(v any) table.Value {
	switch x := v.(type) {
	case nil:
		return table.Missing()
	case table.Value:
		return x
	case string:
		return table.Text(x)
	case int:
		return table.Number(float64(x))
	case float64:
		return table.Number(x)
	default:
		panic(fmt.Sprintf("testutil: unsupported cell literal %T", v))
	}
}

// TextCol builds a text column from literals
func TextCol(name string, cells ...any) *table.Column {
	return col(name, table.KindText, cells)
}

// NumCol builds a numeric column from literals
func NumCol(name string, cells ...any) *table.Column {
	return col(name, table.KindNumber, cells)
}

func col(name string, kind table.Kind, cells []any) *table.Column {
	values := make([]table.Value, len(cells))
	for i, c := range cells {
		values[i] = Cell(c)
	}
	return &table.Column{Name: name, Kind: kind, Values: values}
}

// BuildTable assembles columns of equal length into a table
func BuildTable(t testing.TB, cols ...*table.Column) *table.Table {
	t.Helper()

	rows := 0
	if len(cols) > 0 {
		rows = len(cols[0].Values)
	}
	tbl := table.New(rows)
	for _, c := range cols {
		require.NoError(t, tbl.AddColumn(c))
	}
	return tbl
}

// WriteWorkbook writes a single-sheet workbook with a header row and the given rows.
// nil cells are left blank.
func WriteWorkbook(t testing.TB, path string, header []string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for c, h := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}

	require.NoError(t, f.SaveAs(path))
}
