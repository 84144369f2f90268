// Package demographics computes the descriptive statistics of the cleaned
// survey: demographic indices, the age structure, chi-square associations
// between categorical answers and the age differences between sexes and
// categories.
//
// Every function is pure. Prepare derives the normalized columns the analyses
// read (SEXO_UP, CATEGORIA_UP, GRUPO_ETARIO and so on) on a copy of the table;
// Analyze runs Prepare and then every analysis:
//
//	report := demographics.Analyze(tbl)
//	logger.Info("Masculinity index", slog.Float64("value", report.Indices.Masculinity))
//
// Undefined statistics are NaN. Tests that lack data return false instead of a
// result.
package demographics
