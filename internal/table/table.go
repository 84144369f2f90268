package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the declared type of a column, decided once at load time.
type Kind int

const (
	// KindText marks a column holding free or categorical text
	KindText Kind = iota
	// KindNumber marks a column whose present cells are all numeric
	KindNumber
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return "unknown"
	}
}

type valueState uint8

const (
	stateMissing valueState = iota
	stateText
	stateNumber
)

// Value is a single cell. The zero Value is missing.
type Value struct {
	state valueState
	text  string
	num   float64
}

// Missing returns the missing value
func Missing() Value { return Value{} }

// Text returns a text value
func Text(s string) Value { return Value{state: stateText, text: s} }

// Number returns a numeric value. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{state: stateNumber, num: f}
}

// IsMissing reports whether the cell has no value
func (v Value) IsMissing() bool { return v.state == stateMissing }

// IsText reports whether the cell holds text
func (v Value) IsText() bool { return v.state == stateText }

// IsNumber reports whether the cell holds a number
func (v Value) IsNumber() bool { return v.state == stateNumber }

// Str returns the text of a text cell
func (v Value) Str() (string, bool) {
	if v.state != stateText {
		return "", false
	}
	return v.text, true
}

// Float returns the number of a numeric cell
func (v Value) Float() (float64, bool) {
	if v.state != stateNumber {
		return 0, false
	}
	return v.num, true
}

// Equal compares two cells by state and content
func (v Value) Equal(o Value) bool {
	if v.state != o.state {
		return false
	}
	switch v.state {
	case stateText:
		return v.text == o.text
	case stateNumber:
		return v.num == o.num
	}
	return true
}

// String renders the cell for output. Missing renders as "".
func (v Value) String() string {
	switch v.state {
	case stateText:
		return v.text
	case stateNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return ""
}

// Column is a named, typed sequence of cells
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

// Len returns the number of cells in the column
func (c *Column) Len() int { return len(c.Values) }

// MissingCount counts missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Retag recomputes the declared kind from the present cells.
// A column with no present cells keeps its current kind.
func (c *Column) Retag() {
	present := 0
	for _, v := range c.Values {
		if v.IsText() {
			c.Kind = KindText
			return
		}
		if v.IsNumber() {
			present++
		}
	}
	if present > 0 {
		c.Kind = KindNumber
	}
}

// Table is an ordered collection of equally long columns.
// Column order and row positions are stable for the lifetime of the table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty table with the given number of rows
func New(rows int) *Table {
	return &Table{
		index: make(map[string]int),
		rows:  rows,
	}
}

// AddColumn appends a column. The column length must match the table.
func (t *Table) AddColumn(col *Column) error {
	if col == nil {
		return fmt.Errorf("cannot add nil column")
	}
	if strings.TrimSpace(col.Name) == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("duplicate column %q", col.Name)
	}
	if len(col.Values) != t.rows {
		return fmt.Errorf("column %q has %d rows, table has %d", col.Name, len(col.Values), t.rows)
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	return nil
}

// Rows returns the number of rows
func (t *Table) Rows() int { return t.rows }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Has reports whether a column exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ColumnsOfKind returns the columns carrying the given declared kind
func (t *Table) ColumnsOfKind(k Kind) []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

// Get returns a cell. Unknown columns and out of range rows read as missing.
func (t *Table) Get(name string, row int) Value {
	c, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return Missing()
	}
	return c.Values[row]
}

// Set writes a cell in an existing column
func (t *Table) Set(name string, row int, v Value) error {
	c, ok := t.Column(name)
	if !ok {
		return fmt.Errorf("column %q not found", name)
	}
	if row < 0 || row >= t.rows {
		return fmt.Errorf("row %d out of range [0,%d)", row, t.rows)
	}
	c.Values[row] = v
	return nil
}

// Row returns the cells of one row in column order
func (t *Table) Row(row int) []Value {
	out := make([]Value, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Values[row]
	}
	return out
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	cp := New(t.rows)
	for _, c := range t.columns {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		cp.index[c.Name] = len(cp.columns)
		cp.columns = append(cp.columns, &Column{Name: c.Name, Kind: c.Kind, Values: values})
	}
	return cp
}
