package operations

import (
	"time"
)

// Step identifiers, in execution order
const (
	StepIDProfile      = "profile"
	StepIDNormalize    = "normalize"
	StepIDCanonicalize = "canonicalize"
	StepIDRules        = "rules"
	StepIDImpute       = "impute"
)

// Step names
const (
	StepNameProfile      = "Data Quality Profile"
	StepNameNormalize    = "Text Normalization"
	StepNameCanonicalize = "Category Canonicalization"
	StepNameRules        = "Rule-Based Imputation"
	StepNameImpute       = "Numeric Imputation"
)

// Context keys for step results
const (
	ContextKeyQualityReport      = "quality_report"
	ContextKeyNormalizeReport    = "normalize_report"
	ContextKeyCanonicalizeReport = "canonicalize_report"
	ContextKeyRuleReport         = "rule_report"
	ContextKeyImputeResult       = "impute_result"
)

// Default timeouts
const (
	DefaultStepTimeout   = 10 * time.Minute
	DefaultImputeTimeout = 30 * time.Minute
)

// StepSummary is the outcome of one step in a run summary
type StepSummary struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Changed  int           `json:"changed"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// OperationResponse summarizes a finished run
type OperationResponse struct {
	ID       string               `json:"id"`
	Status   OperationStatusValue `json:"status"`
	Duration time.Duration        `json:"duration"`
	Changed  int                  `json:"changed"`
	Steps    []StepSummary        `json:"steps"`
	Error    string               `json:"error,omitempty"`
}
