package config

import (
	"os"
	"path/filepath"
	"slices"

	apperrors "jefabcli/internal/errors"
)

// outputDirs returns the distinct parent directories of the configured
// output files, skipping the working directory
func (p PathsConfig) outputDirs() []string {
	var dirs []string
	for _, f := range []string{p.Output, p.Summary, p.ColumnsCSV, p.Report, p.MetricsFile, p.TraceFile} {
		if f == "" {
			continue
		}
		if dir := filepath.Dir(f); dir != "." && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// EnsureDirectories creates the parent directory of every configured output file
func (p PathsConfig) EnsureDirectories() error {
	for _, dir := range p.outputDirs() {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.NewStorageError("failed to create output directory", err).
				WithContext("directory", dir)
		}
	}
	return nil
}

// ValidateInput checks that the input is a regular file and that no output
// would overwrite it
func (p PathsConfig) ValidateInput() error {
	info, err := os.Stat(p.Input)
	if err != nil {
		return apperrors.NewConfigError("input file not readable", err).WithContext("file", p.Input)
	}
	if info.IsDir() {
		return apperrors.NewConfigError("input path is a directory", nil).WithContext("file", p.Input)
	}

	in := filepath.Clean(p.Input)
	for _, f := range []string{p.Output, p.Summary, p.ColumnsCSV, p.Report} {
		if f != "" && filepath.Clean(f) == in {
			return apperrors.NewConfigError("output would overwrite the input file", nil).
				WithContext("file", p.Input)
		}
	}
	return nil
}
