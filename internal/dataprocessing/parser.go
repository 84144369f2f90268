package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/table"
)

// ParseOptions selects what to read from the input file
type ParseOptions struct {
	// Sheet names the worksheet to read. Empty reads the first sheet.
	Sheet  string
	Logger *slog.Logger
}

// ParseFile reads a survey workbook (.xlsx) or CSV file into a table.
// The first row is the header. Every failure is a malformed-input error.
func ParseFile(filePath string, opts ParseOptions) (*table.Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(filePath, opts.Sheet)
	case ".csv":
		rows, err = readCSV(filePath)
	default:
		return nil, apperrors.NewMalformedInputError(
			fmt.Sprintf("unsupported input format %q", filepath.Ext(filePath)), nil).
			WithContext("file", filePath)
	}
	if err != nil {
		return nil, err
	}

	tbl, err := buildTable(rows)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			appErr.WithContext("file", filePath)
		}
		return nil, err
	}

	logger.Info("Input parsed",
		slog.String("file", filePath),
		slog.Int("rows", tbl.Rows()),
		slog.Int("columns", tbl.Width()),
		slog.Int("numeric_columns", len(tbl.ColumnsOfKind(table.KindNumber))))

	return tbl, nil
}

func readWorkbook(filePath, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, apperrors.NewMalformedInputError("failed to open workbook", err).
			WithContext("file", filePath)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewMalformedInputError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewMalformedInputError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rows, nil
}

func readCSV(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewMalformedInputError("failed to open csv", err).
			WithContext("file", filePath)
	}
	defer file.Close()

	reader := csv.NewReader(skipBOM(file))
	// Ragged records are reported by buildTable with row numbers
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewMalformedInputError("failed to parse csv", err)
	}
	return rows, nil
}

// skipBOM drops a leading UTF-8 byte order mark, as written by Excel and by CSVWriter
func skipBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, _ := io.ReadFull(r, buf)
	if n == 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf[:n])), r)
}

// buildTable turns raw rows into typed columns. Short rows are padded with blanks;
// a row with non-blank cells beyond the header is malformed.
func buildTable(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewMalformedInputError("input has no header row", nil)
	}

	header := trimTrailingBlanks(rows[0])
	if len(header) == 0 {
		return nil, apperrors.NewMalformedInputError("header row is empty", nil)
	}

	seen := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, apperrors.NewMalformedInputError(fmt.Sprintf("header cell %d is blank", i+1), nil)
		}
		if prev, dup := seen[name]; dup {
			return nil, apperrors.NewMalformedInputError(
				fmt.Sprintf("duplicate column %q at positions %d and %d", name, prev+1, i+1), nil)
		}
		seen[name] = i
		header[i] = name
	}

	// Blank records stay: every input record is a row of the table
	data := rows[1:]

	cells := make([][]string, len(header))
	for c := range cells {
		cells[c] = make([]string, len(data))
	}
	for r, row := range data {
		if len(trimTrailingBlanks(row)) > len(header) {
			return nil, apperrors.NewMalformedInputError(
				fmt.Sprintf("row %d has %d cells, header has %d", r+2, len(row), len(header)), nil)
		}
		for c := 0; c < len(header) && c < len(row); c++ {
			cells[c][r] = row[c]
		}
	}

	tbl := table.New(len(data))
	for c, name := range header {
		if err := tbl.AddColumn(table.FromStrings(name, cells[c])); err != nil {
			return nil, apperrors.NewMalformedInputError("failed to build table", err)
		}
	}
	return tbl, nil
}

func trimTrailingBlanks(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	out := make([]string, end)
	copy(out, row[:end])
	return out
}
