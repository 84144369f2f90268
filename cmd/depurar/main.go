package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"jefabcli/internal/cleaning"
	"jefabcli/internal/config"
	"jefabcli/internal/dataprocessing"
	"jefabcli/internal/exporter"
	"jefabcli/internal/imputation"
	"jefabcli/internal/infrastructure"
	"jefabcli/internal/operations"
	"jefabcli/internal/quality"
)

const shutdownTimeout = 5 * time.Second

func main() {
	inFile := flag.String("in", "", "survey workbook or CSV to clean (defaults to paths.input)")
	outFile := flag.String("out", "", "cleaned workbook to write (defaults to paths.output)")
	summaryFile := flag.String("summary", "", "data quality workbook to write (defaults to paths.summary)")
	configFile := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inFile != "" {
		cfg.Paths.Input = *inFile
	}
	if *outFile != "" {
		cfg.Paths.Output = *outFile
	}
	if *summaryFile != "" {
		cfg.Paths.Summary = *summaryFile
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("Cleaning run failed", slog.String("error", err.Error()))
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
	infrastructure.CloseLogFile()
}

// run cleans cfg.Paths.Input and writes the configured outputs. The cleaned
// table is written only when every step finished without a fatal error.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	ctx, runID := infrastructure.NewRunContext(ctx)

	if err := cfg.Paths.ValidateInput(); err != nil {
		return err
	}
	if err := cfg.Paths.EnsureDirectories(); err != nil {
		return err
	}

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: config.AppVersion,
		TraceFile:      cfg.Paths.TraceFile,
		MetricsFile:    cfg.Paths.MetricsFile,
		SampleRatio:    1.0,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if shutdownErr := providers.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.Warn("OpenTelemetry shutdown failed", slog.String("error", shutdownErr.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting cleaning run",
		slog.String("run_id", runID),
		slog.String("input", cfg.Paths.Input),
		slog.String("output", cfg.Paths.Output))

	tbl, err := dataprocessing.ParseFile(cfg.Paths.Input, dataprocessing.ParseOptions{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cfg.Paths.Input, err)
	}

	manager, err := buildPipeline(cfg, providers, logger)
	if err != nil {
		return err
	}

	state := operations.NewOperationState(runID, tbl)
	resp, runErr := manager.Run(ctx, state)
	logResponse(ctx, logger, resp)

	// The profile describes the raw input and is useful even for a failed run
	if err := writeReports(state, cfg.Paths, logger); err != nil {
		logger.WarnContext(ctx, "Failed to write quality reports", slog.String("error", err.Error()))
	}

	if runErr != nil {
		return runErr
	}

	if err := dataprocessing.WriteFile(tbl, cfg.Paths.Output, dataprocessing.WriteOptions{
		Sheet:  dataprocessing.DefaultSheet,
		Logger: logger,
	}); err != nil {
		return err
	}

	logger.InfoContext(ctx, "Cleaned table written",
		slog.String("run_id", runID),
		slog.String("output", cfg.Paths.Output),
		slog.Int("rows", tbl.Rows()),
		slog.Int("changed", resp.Changed))
	return nil
}

// buildPipeline wires the cleaning stages into a run manager, in execution order
func buildPipeline(cfg *config.Config, providers *infrastructure.OTelProviders, logger *slog.Logger) (*operations.Manager, error) {
	normalizer := cleaning.NewNormalizer(cfg.Cleaning.Mojibake)
	canon, err := cleaning.NewCanonicalizer(cfg.Cleaning.Synonyms, normalizer)
	if err != nil {
		return nil, err
	}
	logger.Debug("Cleaning tables loaded",
		slog.Int("mojibake_patterns", len(normalizer.Patterns())),
		slog.Any("canonical_labels", canon.Labels()))
	rules := cleaning.NewRuleImputer(cfg.Cleaning.Rules, infrastructure.WithComponent(logger, "rules"))
	imputer := imputation.NewImputer(
		imputation.OptionsFromConfig(cfg.Imputation),
		cfg.Cleaning,
		infrastructure.WithComponent(logger, "imputation"))

	tracer, err := operations.NewOperationTracer(providers)
	if err != nil {
		return nil, err
	}

	manager := operations.NewManager(operations.NewRegistry(), operations.ConfigFromSettings(cfg.Pipeline), tracer, logger)
	for _, step := range []operations.Step{
		operations.NewProfileStep(canon, logger),
		operations.NewNormalizeStep(normalizer, logger),
		operations.NewCanonicalizeStep(canon, logger),
		operations.NewRulesStep(rules, logger),
		operations.NewImputeStep(imputer, tracer, logger),
	} {
		if err := manager.RegisterStep(step); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

func writeReports(state *operations.OperationState, paths config.PathsConfig, logger *slog.Logger) error {
	v, ok := state.GetContext(operations.ContextKeyQualityReport)
	if !ok {
		return nil
	}
	report, ok := v.(quality.Report)
	if !ok {
		return fmt.Errorf("unexpected quality report type %T", v)
	}

	// The three artifacts only read the report
	var g errgroup.Group
	if paths.Summary != "" {
		g.Go(func() error {
			if err := exporter.WriteQualityWorkbook(report, paths.Summary); err != nil {
				return err
			}
			logger.Info("Quality workbook written", slog.String("path", paths.Summary))
			return nil
		})
	}
	if paths.ColumnsCSV != "" {
		g.Go(func() error {
			return exporter.NewCSVWriter("", logger).WriteColumnSummaryCSV(paths.ColumnsCSV, report)
		})
	}
	if paths.Report != "" {
		g.Go(func() error {
			if err := exporter.WriteQualityMarkdown(report, paths.Report); err != nil {
				return err
			}
			logger.Info("Quality note written", slog.String("path", paths.Report))
			return nil
		})
	}
	return g.Wait()
}

func logResponse(ctx context.Context, logger *slog.Logger, resp *operations.OperationResponse) {
	if resp == nil {
		return
	}
	for _, s := range resp.Steps {
		attrs := []any{
			slog.String("step", s.ID),
			slog.String("status", string(s.Status)),
			slog.Int("changed", s.Changed),
			slog.Duration("duration", s.Duration),
		}
		if len(s.Warnings) > 0 {
			attrs = append(attrs, slog.Any("warnings", s.Warnings))
		}
		logger.InfoContext(ctx, "Step summary", attrs...)
	}
	logger.InfoContext(ctx, "Run summary",
		slog.String("run_id", resp.ID),
		slog.String("status", string(resp.Status)),
		slog.Duration("duration", resp.Duration),
		slog.Int("changed", resp.Changed))
}
