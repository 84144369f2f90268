package main

import (
	"flag"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"

	"jefabcli/internal/config"
	"jefabcli/internal/dataprocessing"
	"jefabcli/internal/demographics"
	"jefabcli/internal/infrastructure"
)

func main() {
	inFile := flag.String("in", "", "cleaned survey workbook (defaults to paths.output)")
	sheet := flag.String("sheet", dataprocessing.DefaultSheet, "worksheet to read")
	configFile := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inFile == "" {
		*inFile = cfg.Paths.Output
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if err := run(*inFile, *sheet, logger); err != nil {
		logger.Error("Demographic analysis failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
	infrastructure.CloseLogFile()
}

// run reads the cleaned survey and logs the demographic report
func run(path, sheet string, logger *slog.Logger) error {
	tbl, err := dataprocessing.ParseFile(path, dataprocessing.ParseOptions{Sheet: sheet, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if tbl.Rows() == 0 {
		return fmt.Errorf("%s has no data rows", path)
	}

	report := demographics.Analyze(tbl)
	logReport(logger.With(slog.String("component", "demographics")), report)
	return nil
}

func logReport(logger *slog.Logger, r demographics.Report) {
	idx := r.Indices
	logger.Info("Demographic indices",
		slog.Int("rows", r.Rows),
		slog.Int("ages", idx.Age.Count),
		number("mean_age", idx.Age.Mean),
		number("median_age", idx.Age.Median),
		number("masculinity_index", idx.Masculinity),
		number("dependency_index", idx.Dependency),
		number("age_cv", idx.AgeCV))

	for _, category := range slices.Sorted(maps.Keys(idx.MedianAge)) {
		logger.Info("Median age by category",
			slog.String("category", category),
			number("median_age", idx.MedianAge[category]))
	}

	for _, g := range r.AgeStructure.Groups {
		logger.Info("Age group",
			slog.String("group", g.Group),
			slog.Int("count", g.Count),
			slog.Float64("percent", g.Percent))
	}
	logger.Info("Modal age group", slog.String("group", r.AgeStructure.Modal))

	for _, a := range r.Associations {
		logger.Info("Association",
			slog.String("rows", a.Rows),
			slog.String("cols", a.Cols),
			slog.Int("n", a.N),
			slog.Int("dof", a.DOF),
			number("chi2", a.Chi2),
			number("p_value", a.PValue),
			number("cramer_v", a.CramerV),
			slog.String("significance", a.Significance),
			slog.String("strength", a.Strength))
	}

	if tt := r.AgeBySex; tt != nil {
		logger.Info("Age by sex (Welch t-test)",
			number("t", tt.T),
			number("dof", tt.DOF),
			number("p_value", tt.PValue),
			number("mean_difference", tt.MeanDifference),
			slog.String("significance", tt.Significance))
	}
	if a := r.AgeByCategory; a != nil {
		logger.Info("Age by category (one-way ANOVA)",
			number("f", a.F),
			slog.Int("df_between", a.DFBetween),
			slog.Int("df_within", a.DFWithin),
			number("p_value", a.PValue),
			slog.Int("groups", a.Groups),
			slog.String("significance", a.Significance))
	}

	ans := r.Answers
	attrs := []any{slog.String("modal_age_range", ans.ModalAgeRange)}
	for _, f := range ans.Sex {
		attrs = append(attrs, slog.Group("sex_"+f.Label, slog.Int("count", f.Count), slog.Float64("percent", f.Percent)))
	}
	if f := ans.MostFrequentRank; f != nil {
		attrs = append(attrs, slog.String("most_frequent_rank", f.Label), slog.Int("rank_count", f.Count))
	}
	if f := ans.PredominantCategory; f != nil {
		attrs = append(attrs, slog.String("predominant_category", f.Label), slog.Float64("category_percent", f.Percent))
	}
	logger.Info("Key answers", attrs...)
}

// number logs undefined statistics as "n/a"; JSON cannot carry NaN
func number(key string, f float64) slog.Attr {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return slog.String(key, "n/a")
	}
	return slog.Float64(key, f)
}
