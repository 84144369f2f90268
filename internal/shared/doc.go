// Package shared holds helpers used by more than one package of the cleaning tools.
//
// The testutil subpackage provides a buffered slog handler for asserting on log
// output, literal-based builders for tables and columns, and a workbook writer
// for spreadsheet fixtures. It is imported from tests only.
package shared
