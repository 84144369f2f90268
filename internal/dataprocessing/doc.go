// Package dataprocessing reads survey files into tables and writes cleaned tables back out.
//
// # Input
//
// ParseFile accepts .xlsx workbooks (first sheet unless ParseOptions.Sheet is set)
// and .csv files. The first row is the header; every further row is one person.
// Column kinds are decided here, once: a column is numeric when every non-blank
// cell parses as a number, otherwise text. Blank cells become missing values.
//
// Any problem with the file itself (unreadable, no header, blank or duplicate
// header names, rows wider than the header) is returned as a MALFORMED_INPUT
// error and must abort the run before any cleaning stage executes.
//
// # Output
//
// WriteFile rewrites the whole file. Workbooks are produced with the excelize
// stream writer; CSV output goes through exporter.CSVWriter with a UTF-8 BOM.
// Missing values are written as blank cells.
//
// Example:
//
//	tbl, err := dataprocessing.ParseFile("JEFAB_2024.xlsx", dataprocessing.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	// ... run the pipeline ...
//	err = dataprocessing.WriteFile(tbl, "JEFAB_2024_limpio.xlsx", dataprocessing.WriteOptions{})
package dataprocessing
