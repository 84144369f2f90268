// Package table holds the in-memory record table the cleaning pipeline mutates.
//
// A Table is a fixed set of rows and an ordered list of named columns. Each
// column carries an explicit Kind decided when the table is loaded, so later
// stages select text or numeric columns by declared type instead of inspecting
// cells at runtime. Cells are Values that are either missing, text or numeric;
// missing is its own state and never a sentinel such as 0 or "".
//
// Row positions and column names never change during a run. Stages mutate the
// table in place or work on a Clone.
package table
