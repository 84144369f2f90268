package operations

import (
	"context"
	"log/slog"

	"jefabcli/internal/cleaning"
	"jefabcli/internal/imputation"
	"jefabcli/internal/infrastructure"
	"jefabcli/internal/quality"
	"jefabcli/internal/table"
)

// ProfileStep computes the data quality profile of the raw table. It never
// modifies the table.
type ProfileStep struct {
	BaseStage
	canon  *cleaning.Canonicalizer
	logger *slog.Logger
}

// NewProfileStep creates the profiling step. The canonicalizer groups raw
// answers into variants and may be nil.
func NewProfileStep(canon *cleaning.Canonicalizer, logger *slog.Logger) *ProfileStep {
	return &ProfileStep{
		BaseStage: NewBaseStage(StepIDProfile, StepNameProfile),
		canon:     canon,
		logger:    stepLogger(logger, StepIDProfile),
	}
}

// Execute profiles the table and stores the report under ContextKeyQualityReport
func (s *ProfileStep) Execute(ctx context.Context, state *OperationState) error {
	report := quality.Profile(state.Table(), s.canon)
	state.SetContext(ContextKeyQualityReport, report)

	step := state.GetStep(s.ID())
	step.SetMetadata("duplicates", report.Duplicates)
	step.SetMetadata("high_missing", len(report.HighMissing))
	step.SetMetadata("variant_groups", len(report.Variants))

	s.logger.InfoContext(ctx, "Quality profile computed",
		slog.Int("rows", report.Rows),
		slog.Int("columns", report.Columns),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("high_missing", len(report.HighMissing)),
		slog.Int("mojibake_headers", len(report.MojibakeHeaders)))
	return nil
}

// NormalizeStep repairs encoding damage and normalizes every text cell
type NormalizeStep struct {
	BaseStage
	normalizer *cleaning.Normalizer
	logger     *slog.Logger
}

// NewNormalizeStep creates the normalization step
func NewNormalizeStep(n *cleaning.Normalizer, logger *slog.Logger) *NormalizeStep {
	return &NormalizeStep{
		BaseStage:  NewBaseStage(StepIDNormalize, StepNameNormalize),
		normalizer: n,
		logger:     stepLogger(logger, StepIDNormalize),
	}
}

// Validate requires a table with at least one text column
func (s *NormalizeStep) Validate(state *OperationState) error {
	return requireTextColumns(&s.BaseStage, state)
}

// Execute normalizes the table in place
func (s *NormalizeStep) Execute(ctx context.Context, state *OperationState) error {
	report := cleaning.NormalizeTable(state.Table(), s.normalizer)
	recordTableReport(ctx, s.logger, state.GetStep(s.ID()), report)
	state.SetContext(ContextKeyNormalizeReport, report)
	return nil
}

// CanonicalizeStep maps synonymous answers to their canonical labels
type CanonicalizeStep struct {
	BaseStage
	canon  *cleaning.Canonicalizer
	logger *slog.Logger
}

// NewCanonicalizeStep creates the canonicalization step
func NewCanonicalizeStep(c *cleaning.Canonicalizer, logger *slog.Logger) *CanonicalizeStep {
	return &CanonicalizeStep{
		BaseStage: NewBaseStage(StepIDCanonicalize, StepNameCanonicalize),
		canon:     c,
		logger:    stepLogger(logger, StepIDCanonicalize),
	}
}

// Validate requires a table with at least one text column
func (s *CanonicalizeStep) Validate(state *OperationState) error {
	return requireTextColumns(&s.BaseStage, state)
}

// Execute canonicalizes the table in place
func (s *CanonicalizeStep) Execute(ctx context.Context, state *OperationState) error {
	report := cleaning.CanonicalizeTable(state.Table(), s.canon)
	recordTableReport(ctx, s.logger, state.GetStep(s.ID()), report)
	state.SetContext(ContextKeyCanonicalizeReport, report)
	return nil
}

// RulesStep fills dependent fields implied by trigger answers
type RulesStep struct {
	BaseStage
	rules  *cleaning.RuleImputer
	logger *slog.Logger
}

// NewRulesStep creates the rule-based imputation step
func NewRulesStep(r *cleaning.RuleImputer, logger *slog.Logger) *RulesStep {
	return &RulesStep{
		BaseStage: NewBaseStage(StepIDRules, StepNameRules),
		rules:     r,
		logger:    stepLogger(logger, StepIDRules),
	}
}

// Execute applies the rules. Rules over absent columns are skipped and
// reported as warnings.
func (s *RulesStep) Execute(ctx context.Context, state *OperationState) error {
	report, err := s.rules.Apply(state.Table())

	step := state.GetStep(s.ID())
	step.SetChanged(report.Changed)
	skipped := 0
	for _, r := range report.Results {
		if r.Skipped {
			skipped++
		}
	}
	step.SetMetadata("rules", len(report.Results))
	step.SetMetadata("skipped", skipped)
	state.SetContext(ContextKeyRuleReport, report)

	s.logger.InfoContext(ctx, "Rules applied",
		slog.Int("rules", len(report.Results)),
		slog.Int("skipped", skipped),
		slog.Int("changed", report.Changed))
	return err
}

// ImputeStep runs the multivariate numeric imputer
type ImputeStep struct {
	BaseStage
	imputer *imputation.Imputer
	tracer  *OperationTracer
	logger  *slog.Logger
}

// NewImputeStep creates the numeric imputation step. The tracer records the
// iteration count and may be nil.
func NewImputeStep(im *imputation.Imputer, tracer *OperationTracer, logger *slog.Logger) *ImputeStep {
	return &ImputeStep{
		BaseStage: NewBaseStage(StepIDImpute, StepNameImpute),
		imputer:   im,
		tracer:    tracer,
		logger:    stepLogger(logger, StepIDImpute),
	}
}

// Validate requires at least one numeric column
func (s *ImputeStep) Validate(state *OperationState) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if len(state.Table().ColumnsOfKind(table.KindNumber)) == 0 {
		return NewValidationError(s.ID(), "no numeric columns")
	}
	return nil
}

// Execute imputes the numeric columns in place
func (s *ImputeStep) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.imputer.Impute(ctx, state.Table())
	if result == nil {
		return err
	}

	step := state.GetStep(s.ID())
	step.SetChanged(result.Changed)
	step.SetMetadata("iterations", result.Iterations)
	step.SetMetadata("converged", result.Converged)
	step.SetMetadata("imputed", result.Imputed)
	step.SetMetadata("clipped", result.Clipped)
	if len(result.Untouched) > 0 {
		step.SetMetadata("untouched", result.Untouched)
	}
	state.SetContext(ContextKeyImputeResult, result)

	if s.tracer != nil {
		s.tracer.RecordIterations(ctx, result.Iterations, result.Converged)
	}
	return err
}

// stepLogger tags a step's records with its component; the step id itself
// comes from the context the manager passes to Execute
func stepLogger(logger *slog.Logger, stepID string) *slog.Logger {
	return infrastructure.WithComponent(logger, "step."+stepID)
}

func requireTextColumns(b *BaseStage, state *OperationState) error {
	if err := b.Validate(state); err != nil {
		return err
	}
	if len(state.Table().ColumnsOfKind(table.KindText)) == 0 {
		return NewValidationError(b.ID(), "no text columns")
	}
	return nil
}

func recordTableReport(ctx context.Context, logger *slog.Logger, step *StepState, report cleaning.Report) {
	step.SetChanged(report.Changed)
	step.SetMetadata("columns_changed", len(report.PerColumn))

	logger.InfoContext(ctx, "Text columns rewritten",
		slog.Int("changed", report.Changed),
		slog.Any("columns", report.Columns()))
}
