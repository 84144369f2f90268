package exporter

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jefabcli/internal/shared/testutil"
)

func readCSV(t *testing.T, path string) ([]byte, [][]string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	r.Comma = ','
	if bytes.Contains(raw, []byte(";")) {
		r.Comma = ';'
	}
	records, err := r.ReadAll()
	require.NoError(t, err)
	return raw, records
}

func TestCSVWriter_WriteRecords(t *testing.T) {
	tests := []struct {
		name    string
		opts    []CSVOption
		header  []string
		records [][]string
		wantBOM bool
		want    [][]string
	}{
		{
			name:    "header and records",
			header:  []string{"PARENTESCO", "EDAD"},
			records: [][]string{{"Madre", "34"}, {"Padre", ""}},
			wantBOM: true,
			want:    [][]string{{"PARENTESCO", "EDAD"}, {"Madre", "34"}, {"Padre", ""}},
		},
		{
			name:    "semicolon without BOM",
			opts:    []CSVOption{WithSeparator(';'), WithoutBOM()},
			header:  []string{"A", "B"},
			records: [][]string{{"sí", "1,5"}},
			want:    [][]string{{"A", "B"}, {"sí", "1,5"}},
		},
		{
			name:    "records only",
			records: [][]string{{"x"}},
			wantBOM: true,
			want:    [][]string{{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			w := NewCSVWriter(dir, nil, tt.opts...)
			require.NoError(t, w.WriteRecords(filepath.Join("nested", "out.csv"), tt.header, tt.records))

			raw, records := readCSV(t, filepath.Join(dir, "nested", "out.csv"))
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(raw, utf8BOM))
			assert.Equal(t, tt.want, records)
		})
	}
}

func TestCSVWriter_ReplacesAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "columnas.csv")
	logger, handler := testutil.NewTestLogger(t)
	w := NewCSVWriter("", logger)

	require.NoError(t, w.WriteRecords(path, []string{"A"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, w.WriteRecords(path, []string{"A"}, [][]string{{"3"}}))

	_, records := readCSV(t, path)
	assert.Equal(t, [][]string{{"A"}, {"3"}}, records)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging files are removed")

	testutil.AssertLogContains(t, handler, slog.LevelDebug, "CSV written")
	testutil.AssertLogAttr(t, handler, "records", int64(1))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "66.67", percent(66.666))
	assert.Equal(t, "0.00", percent(0))
	assert.Equal(t, "100.00", percent(100))
}
