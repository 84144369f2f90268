package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/exporter"
	"jefabcli/internal/table"
)

// DefaultSheet is the worksheet name of written workbooks
const DefaultSheet = "Datos"

// WriteOptions configures WriteFile
type WriteOptions struct {
	Sheet  string
	Logger *slog.Logger
}

// WriteFile persists the whole table, replacing any existing file.
// The format follows the extension: .xlsx or .csv.
func WriteFile(tbl *table.Table, filePath string, opts WriteOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err)
	}

	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		sheet := opts.Sheet
		if sheet == "" {
			sheet = DefaultSheet
		}
		err = writeWorkbook(tbl, filePath, sheet)
	case ".csv":
		err = writeCSV(tbl, filePath, logger)
	default:
		return apperrors.NewStorageError(fmt.Sprintf("unsupported output format %q", filepath.Ext(filePath)), nil)
	}
	if err != nil {
		return apperrors.NewStorageError("failed to write output", err).WithContext("file", filePath)
	}

	logger.Info("Output written",
		slog.String("file", filePath),
		slog.Int("rows", tbl.Rows()),
		slog.Int("columns", tbl.Width()))
	return nil
}

func writeWorkbook(tbl *table.Table, filePath, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	names := tbl.Names()
	header := make([]interface{}, len(names))
	for i, n := range names {
		header[i] = n
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for r := 0; r < tbl.Rows(); r++ {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := tbl.Row(r)
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = cellValue(v)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(filePath)
}

// cellValue maps a table value to what excelize stores: nil leaves the cell blank
func cellValue(v table.Value) interface{} {
	if s, ok := v.Str(); ok {
		return s
	}
	if f, ok := v.Float(); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return int64(f)
		}
		return f
	}
	return nil
}

func writeCSV(tbl *table.Table, filePath string, logger *slog.Logger) error {
	records := make([][]string, tbl.Rows())
	for r := range records {
		values := tbl.Row(r)
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = v.String()
		}
		records[r] = record
	}

	writer := exporter.NewCSVWriter("", logger)
	return writer.WriteRecords(filePath, tbl.Names(), records)
}
