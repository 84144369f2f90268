package exporter

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/xuri/excelize/v2"

	"jefabcli/internal/quality"
)

// Sheet names of the quality workbook
const (
	SheetColumns      = "Resumen_Columnas"
	SheetMissing      = "Faltantes"
	SheetVariants     = "Variantes"
	SheetOutliers     = "Outliers"
	SheetCorrelations = "Correlaciones"
)

var columnSummaryHeaders = []string{"Columna", "Tipo", "Faltantes", "Porcentaje", "Unicos"}

// WriteQualityWorkbook writes the quality report as a multi-sheet workbook
func WriteQualityWorkbook(report quality.Report, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetColumns); err != nil {
		return err
	}
	for _, sheet := range []string{SheetMissing, SheetVariants, SheetOutliers, SheetCorrelations} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	if err := writeRows(f, SheetColumns, toAny(columnSummaryHeaders), summaryRows(report.Summary)); err != nil {
		return err
	}
	if err := writeRows(f, SheetMissing, toAny(columnSummaryHeaders), summaryRows(report.HighMissing)); err != nil {
		return err
	}

	variants := make([][]interface{}, 0, len(report.Variants))
	for _, g := range report.Variants {
		variants = append(variants, []interface{}{g.Column, g.Canonical, strings.Join(g.Variants, " | "), len(g.Variants)})
	}
	if err := writeRows(f, SheetVariants, []interface{}{"Columna", "Canonico", "Variantes", "Cantidad"}, variants); err != nil {
		return err
	}

	numeric := make([][]interface{}, 0, len(report.Numeric))
	for _, n := range report.Numeric {
		numeric = append(numeric, []interface{}{
			n.Name, n.Count, numberCell(n.Mean), numberCell(n.Std), n.Min, n.Q1, n.Median, n.Q3, n.Max,
			n.Outliers, n.OutlierPercent,
		})
	}
	numericHeader := []interface{}{"Columna", "Conteo", "Media", "Desv", "Min", "Q1", "Mediana", "Q3", "Max", "Outliers", "Porcentaje"}
	if err := writeRows(f, SheetOutliers, numericHeader, numeric); err != nil {
		return err
	}

	corrHeader := append([]interface{}{""}, toAny(report.Correlation.Columns)...)
	corr := make([][]interface{}, 0, len(report.Correlation.Matrix))
	for i, row := range report.Correlation.Matrix {
		cells := []interface{}{report.Correlation.Columns[i]}
		for _, r := range row {
			cells = append(cells, numberCell(math.Round(r*1000)/1000))
		}
		corr = append(corr, cells)
	}
	if err := writeRows(f, SheetCorrelations, corrHeader, corr); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return f.SaveAs(filePath)
}

// WriteColumnSummaryCSV writes the per-column summary as CSV
func (w *CSVWriter) WriteColumnSummaryCSV(filePath string, report quality.Report) error {
	records := make([][]string, 0, len(report.Summary))
	for _, s := range report.Summary {
		records = append(records, []string{
			s.Name, s.Kind, strconv.Itoa(s.Missing), percent(s.Percent), strconv.Itoa(s.Distinct),
		})
	}
	return w.WriteRecords(filePath, columnSummaryHeaders, records)
}

var markdownReport = template.Must(template.New("informe").Funcs(template.FuncMap{
	"pct":  percent,
	"join": func(v []string) string { return strings.Join(v, ", ") },
}).Parse(`# Informe de Calidad de Datos
- Filas: {{.Rows}} | Columnas: {{.Columns}}
- Registros duplicados: {{.Duplicates}}
{{- if .MojibakeHeaders}}
- Columnas con encoding problemático: {{len .MojibakeHeaders}}
{{- end}}
- Ver tablas auxiliares en el Excel generado.
{{if .HighMissing}}
## Variables con más de 10% de faltantes
{{range .HighMissing}}- {{.Name}}: {{.Missing}} ({{pct .Percent}}%)
{{end}}{{end}}{{if .Variants}}
## Variantes agrupadas
{{range .Variants}}- {{.Column}} → {{.Canonical}}: {{join .Variants}}
{{end}}{{end}}
## Recomendaciones:
- Imputar variables con missing >10%
- Revisar duplicados aunque sean pocos
- Estandarizar categóricas (espacios, mayúsc/minúsc)
- Validar outliers antes de eliminarlos
`))

// WriteQualityMarkdown writes the short markdown note that accompanies the workbook
func WriteQualityMarkdown(report quality.Report, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer file.Close()

	if err := markdownReport.Execute(file, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return file.Close()
}

func writeRows(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// numberCell leaves undefined statistics blank
func numberCell(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return f
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func summaryRows(summary []quality.ColumnSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []interface{}{s.Name, s.Kind, s.Missing, s.Percent, s.Distinct})
	}
	return rows
}
