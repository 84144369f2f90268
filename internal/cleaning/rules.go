package cleaning

import (
	"errors"
	"log/slog"

	"jefabcli/internal/config"
	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/table"
)

// RuleResult is the outcome of one dependent-field rule
type RuleResult struct {
	Rule    config.Rule `json:"rule"`
	Changed int         `json:"changed"`
	Skipped bool        `json:"skipped"`
}

// RuleReport aggregates the outcome of every rule
type RuleReport struct {
	Results []RuleResult `json:"results"`
	Changed int          `json:"changed"`
	Errors  []error      `json:"-"`
}

// RuleImputer fills dependent fields implied by a trigger answer
type RuleImputer struct {
	rules  []config.Rule
	logger *slog.Logger
}

// NewRuleImputer creates a rule imputer. A nil logger uses slog.Default().
func NewRuleImputer(rules []config.Rule, logger *slog.Logger) *RuleImputer {
	if logger == nil {
		logger = slog.Default()
	}
	owned := make([]config.Rule, len(rules))
	copy(owned, rules)
	return &RuleImputer{rules: owned, logger: logger}
}

// Apply evaluates the rules in order against t, in place. For every row whose
// trigger cell equals the rule value exactly and whose dependent cell is
// missing, the dependent cell receives the fill value.
//
// A rule naming an absent column is skipped. The returned error joins the
// MISSING_COLUMN errors of skipped rules and is never fatal.
func (r *RuleImputer) Apply(t *table.Table) (RuleReport, error) {
	report := RuleReport{Results: make([]RuleResult, 0, len(r.rules))}

	for _, rule := range r.rules {
		result := RuleResult{Rule: rule}

		trigger, ok := t.Column(rule.Trigger)
		if !ok {
			result.Skipped = true
			report.Errors = append(report.Errors, apperrors.NewMissingColumnError(rule.Trigger))
			report.Results = append(report.Results, result)
			r.logger.Warn("Rule skipped",
				slog.String("trigger", rule.Trigger),
				slog.String("dependent", rule.Dependent),
				slog.String("missing_column", rule.Trigger))
			continue
		}
		dependent, ok := t.Column(rule.Dependent)
		if !ok {
			result.Skipped = true
			report.Errors = append(report.Errors, apperrors.NewMissingColumnError(rule.Dependent))
			report.Results = append(report.Results, result)
			r.logger.Warn("Rule skipped",
				slog.String("trigger", rule.Trigger),
				slog.String("dependent", rule.Dependent),
				slog.String("missing_column", rule.Dependent))
			continue
		}

		fill := table.Number(rule.Fill)
		for i, v := range trigger.Values {
			s, isText := v.Str()
			if !isText || s != rule.When {
				continue
			}
			if !dependent.Values[i].IsMissing() {
				continue
			}
			dependent.Values[i] = fill
			result.Changed++
		}

		report.Changed += result.Changed
		report.Results = append(report.Results, result)
		r.logger.Debug("Rule applied",
			slog.String("trigger", rule.Trigger),
			slog.String("when", rule.When),
			slog.String("dependent", rule.Dependent),
			slog.Int("changed", result.Changed))
	}

	return report, errors.Join(report.Errors...)
}
