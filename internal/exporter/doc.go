// Package exporter writes the side artifacts of a cleaning run.
//
// CSVWriter is the low-level CSV writer (UTF-8 BOM by default so spreadsheet
// tools pick the right encoding). It also backs the .csv variant of the cleaned
// table written by the dataprocessing package.
//
// The quality report produced by the quality package is rendered three ways:
//
//   - WriteQualityWorkbook: one workbook with Resumen_Columnas, Faltantes,
//     Variantes, Outliers and Correlaciones sheets.
//   - CSVWriter.WriteColumnSummaryCSV: the Resumen_Columnas sheet as CSV.
//   - WriteQualityMarkdown: a short markdown note with the headline numbers and
//     the standing recommendations.
//
// Example:
//
//	report := quality.Profile(raw, canon)
//	if err := exporter.WriteQualityWorkbook(report, cfg.Paths.Summary); err != nil {
//	    return err
//	}
//	err := exporter.NewCSVWriter("", logger).WriteColumnSummaryCSV(cfg.Paths.ColumnsCSV, report)
package exporter
