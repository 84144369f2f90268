package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes header-plus-records files. Output is staged in a temporary
// file next to the target and renamed into place, so a failed write never
// leaves a truncated file behind.
type CSVWriter struct {
	baseDir string
	comma   rune
	bom     bool
	logger  *slog.Logger
}

// CSVOption customizes a CSVWriter
type CSVOption func(*CSVWriter)

// WithSeparator sets the field separator. Spanish-locale spreadsheets expect ';'.
func WithSeparator(comma rune) CSVOption {
	return func(w *CSVWriter) { w.comma = comma }
}

// WithoutBOM disables the UTF-8 byte order mark
func WithoutBOM() CSVOption {
	return func(w *CSVWriter) { w.bom = false }
}

// NewCSVWriter creates a writer. Relative paths resolve against baseDir when
// it is not empty.
func NewCSVWriter(baseDir string, logger *slog.Logger, opts ...CSVOption) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	w := &CSVWriter{baseDir: baseDir, comma: ',', bom: true, logger: logger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRecords writes header followed by records to filePath
func (w *CSVWriter) WriteRecords(filePath string, header []string, records [][]string) error {
	target := filePath
	if !filepath.IsAbs(target) && w.baseDir != "" {
		target = filepath.Join(w.baseDir, target)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", filePath, err)
	}
	defer os.Remove(tmp.Name())

	if err := w.encode(tmp, header, records); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}

	w.logger.Debug("CSV written",
		slog.String("path", target),
		slog.Int("records", len(records)))
	return nil
}

func (w *CSVWriter) encode(f *os.File, header []string, records [][]string) error {
	if w.bom {
		if _, err := f.Write(utf8BOM); err != nil {
			return err
		}
	}
	cw := csv.NewWriter(f)
	cw.Comma = w.comma
	if len(header) > 0 {
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// percent renders a share with two decimals, the precision of every report
func percent(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
