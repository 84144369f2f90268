package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_States(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		missing  bool
		text     bool
		number   bool
		rendered string
	}{
		{name: "zero value is missing", value: Value{}, missing: true, rendered: ""},
		{name: "missing", value: Missing(), missing: true, rendered: ""},
		{name: "empty text is present", value: Text(""), text: true, rendered: ""},
		{name: "text", value: Text("madre"), text: true, rendered: "madre"},
		{name: "integral number", value: Number(30), number: true, rendered: "30"},
		{name: "fractional number", value: Number(2.5), number: true, rendered: "2.5"},
		{name: "zero is data", value: Number(0), number: true, rendered: "0"},
		{name: "NaN collapses to missing", value: Number(math.NaN()), missing: true, rendered: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, tt.value.IsMissing())
			assert.Equal(t, tt.text, tt.value.IsText())
			assert.Equal(t, tt.number, tt.value.IsNumber())
			assert.Equal(t, tt.rendered, tt.value.String())
		})
	}
}

func TestValue_Equal(t *testing.T) {
	assert.True(t, Number(0).Equal(Number(0)))
	assert.False(t, Number(0).Equal(Text("0")))
	assert.False(t, Number(0).Equal(Missing()))
	assert.True(t, Missing().Equal(Missing()))
	assert.True(t, Text("no").Equal(Text("no")))
	assert.False(t, Text("no").Equal(Text("No")))
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		want Value
	}{
		{"", Missing()},
		{"   ", Missing()},
		{"nan", Missing()},
		{"NaN", Missing()},
		{"42", Number(42)},
		{" 42 ", Number(42)},
		{"-3.5", Number(-3.5)},
		{"28-32", Text("28-32")},
		{" Madre ", Text(" Madre ")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseCell(tt.raw)), "got %#v", ParseCell(tt.raw))
		})
	}
}

func TestFromStrings_KindInference(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		kind Kind
	}{
		{name: "all numeric", raw: []string{"1", "", "3.5"}, kind: KindNumber},
		{name: "mixed falls back to text", raw: []string{"1", "dos", ""}, kind: KindText},
		{name: "all blank is text", raw: []string{"", ""}, kind: KindText},
		{name: "bracket labels are text", raw: []string{"18-22", "0"}, kind: KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := FromStrings("C", tt.raw)
			assert.Equal(t, tt.kind, col.Kind)
			assert.Len(t, col.Values, len(tt.raw))
		})
	}

	mixed := FromStrings("C", []string{"1", "dos", ""})
	assert.True(t, mixed.Values[0].Equal(Text("1")), "text columns keep numeric-looking cells as text")
	assert.True(t, mixed.Values[2].IsMissing())
}

func TestColumn_Retag(t *testing.T) {
	col := &Column{Name: "EDAD_RANGO_PADRE", Kind: KindNumber, Values: []Value{Number(0), Missing()}}
	col.Retag()
	assert.Equal(t, KindNumber, col.Kind)

	col.Values[1] = Text("28-32")
	col.Retag()
	assert.Equal(t, KindText, col.Kind)

	empty := &Column{Name: "X", Kind: KindText, Values: []Value{Missing()}}
	empty.Retag()
	assert.Equal(t, KindText, empty.Kind, "a column with no present cells keeps its kind")
}

func TestColumn_MixedCellsKeepTheirState(t *testing.T) {
	tbl := New(4)
	require.NoError(t, tbl.AddColumn(FromStrings("EDAD_RANGO_MADRE", []string{"", "", "53-57", "0"})))
	require.NoError(t, tbl.Set("EDAD_RANGO_MADRE", 1, Number(0)))

	col, _ := tbl.Column("EDAD_RANGO_MADRE")
	col.Retag()
	assert.Equal(t, KindText, col.Kind)

	tests := []struct {
		row      int
		missing  bool
		isNumber bool
		rendered string
	}{
		{row: 0, missing: true, rendered: ""},
		{row: 1, isNumber: true, rendered: "0"},
		{row: 2, rendered: "53-57"},
		{row: 3, rendered: "0"},
	}
	cp := tbl.Clone()
	for _, tt := range tests {
		for name, src := range map[string]*Table{"table": tbl, "clone": cp} {
			v := src.Get("EDAD_RANGO_MADRE", tt.row)
			assert.Equal(t, tt.missing, v.IsMissing(), "%s row %d", name, tt.row)
			assert.Equal(t, tt.isNumber, v.IsNumber(), "%s row %d", name, tt.row)
			assert.Equal(t, tt.rendered, v.String(), "%s row %d", name, tt.row)
		}
	}

	assert.False(t, tbl.Get("EDAD_RANGO_MADRE", 0).Equal(Number(0)), "missing is not the zero placeholder")
	assert.False(t, tbl.Get("EDAD_RANGO_MADRE", 0).Equal(Text("")))
	assert.False(t, tbl.Get("EDAD_RANGO_MADRE", 1).Equal(Text("0")), "numeric zero and text zero differ")
}

func TestTable_AddColumn(t *testing.T) {
	tbl := New(2)
	require.NoError(t, tbl.AddColumn(&Column{Name: "A", Values: []Value{Missing(), Missing()}}))

	assert.Error(t, tbl.AddColumn(nil))
	assert.Error(t, tbl.AddColumn(&Column{Name: " ", Values: make([]Value, 2)}))
	assert.Error(t, tbl.AddColumn(&Column{Name: "A", Values: make([]Value, 2)}))
	assert.Error(t, tbl.AddColumn(&Column{Name: "B", Values: make([]Value, 3)}))

	assert.Equal(t, 1, tbl.Width())
	assert.True(t, tbl.Has("A"))
	assert.False(t, tbl.Has("B"))
}

func TestTable_GetSet(t *testing.T) {
	tbl := New(2)
	require.NoError(t, tbl.AddColumn(&Column{Name: "EDAD", Kind: KindNumber, Values: []Value{Number(30), Missing()}}))

	require.NoError(t, tbl.Set("EDAD", 1, Number(45)))
	assert.True(t, tbl.Get("EDAD", 1).Equal(Number(45)))

	assert.Error(t, tbl.Set("NOPE", 0, Number(1)))
	assert.Error(t, tbl.Set("EDAD", 2, Number(1)))
	assert.True(t, tbl.Get("NOPE", 0).IsMissing())
	assert.True(t, tbl.Get("EDAD", -1).IsMissing())
}

func TestTable_CloneIsDeep(t *testing.T) {
	tbl := New(1)
	require.NoError(t, tbl.AddColumn(&Column{Name: "A", Kind: KindText, Values: []Value{Text("x")}}))
	require.NoError(t, tbl.AddColumn(&Column{Name: "B", Kind: KindNumber, Values: []Value{Number(1)}}))

	cp := tbl.Clone()
	require.NoError(t, cp.Set("A", 0, Text("y")))
	col, _ := cp.Column("B")
	col.Kind = KindText

	assert.True(t, tbl.Get("A", 0).Equal(Text("x")))
	orig, _ := tbl.Column("B")
	assert.Equal(t, KindNumber, orig.Kind)
	assert.Equal(t, tbl.Names(), cp.Names())
}

func TestTable_ColumnsOfKindAndRow(t *testing.T) {
	tbl := New(1)
	require.NoError(t, tbl.AddColumn(&Column{Name: "A", Kind: KindText, Values: []Value{Text("x")}}))
	require.NoError(t, tbl.AddColumn(&Column{Name: "B", Kind: KindNumber, Values: []Value{Number(1)}}))
	require.NoError(t, tbl.AddColumn(&Column{Name: "C", Kind: KindNumber, Values: []Value{Missing()}}))

	nums := tbl.ColumnsOfKind(KindNumber)
	require.Len(t, nums, 2)
	assert.Equal(t, "B", nums[0].Name)
	assert.Equal(t, "C", nums[1].Name)

	row := tbl.Row(0)
	require.Len(t, row, 3)
	assert.True(t, row[0].Equal(Text("x")))
	assert.True(t, row[2].IsMissing())

	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "text", KindText.String())
}
