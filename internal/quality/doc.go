// Package quality profiles a raw survey table before any cleaning runs.
//
// Profile is a pure function: it reads the table and returns a Report with
// missing-value shares, duplicate rows, headers that look mis-decoded, groups
// of raw answers that collapse to one canonical label, numeric summaries with
// IQR outlier counts, a pairwise Pearson correlation matrix and simple
// categorical checks (padded whitespace, mixed case). The exporter package
// renders the report as a workbook, a CSV column summary and a markdown note.
package quality
