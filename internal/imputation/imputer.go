package imputation

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"

	"jefabcli/internal/config"
	apperrors "jefabcli/internal/errors"
	"jefabcli/internal/table"
)

// SideReport describes what happened to one parent's columns
type SideReport struct {
	Name    string `json:"name"`
	Skipped bool   `json:"skipped"`
	Alive   int    `json:"alive"`
	Dead    int    `json:"dead"`
	Unknown int    `json:"unknown"`
	Masked  int    `json:"masked"`
	Zeroed  int    `json:"zeroed"`
	Rebuilt int    `json:"rebuilt"`
}

// Result summarizes an imputation run
type Result struct {
	Columns    []string     `json:"columns"`
	Untouched  []string     `json:"untouched,omitempty"`
	Imputed    int          `json:"imputed"`
	Clipped    int          `json:"clipped"`
	Iterations int          `json:"iterations"`
	Delta      float64      `json:"delta"`
	Converged  bool         `json:"converged"`
	Fallbacks  int          `json:"fallbacks"`
	Sides      []SideReport `json:"sides"`
	Changed    int          `json:"changed"`
	Errors     []error      `json:"-"`
}

// Imputer fills numeric gaps with chained equations and keeps parent ages
// consistent with the liveness answers
type Imputer struct {
	opts     Options
	parents  []config.ParentSide
	liveness *LivenessReader
	brackets *Bracketer
	logger   *slog.Logger
}

// OptionsFromConfig converts the configuration section
func OptionsFromConfig(cfg config.ImputationConfig) Options {
	return Options{
		MaxIter:    cfg.MaxIter,
		Tolerance:  cfg.Tolerance,
		Seed:       cfg.Seed,
		Order:      cfg.Order,
		RidgeAlpha: cfg.RidgeAlpha,
	}
}

// NewImputer creates an imputer for the parent sides and brackets of cfg
func NewImputer(opts Options, cfg config.CleaningConfig, logger *slog.Logger) *Imputer {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxIter < 1 {
		opts.MaxIter = DefaultOptions().MaxIter
	}
	parents := make([]config.ParentSide, len(cfg.Parents))
	copy(parents, cfg.Parents)

	return &Imputer{
		opts:     opts,
		parents:  parents,
		liveness: NewLivenessReader(cfg.Liveness),
		brackets: NewBracketer(cfg.Brackets, cfg.OtherBracket),
		logger:   logger,
	}
}

type parentColumns struct {
	report  *SideReport
	mask    []Liveness
	age     *table.Column
	bracket *table.Column
}

// Impute runs the numeric stage on t in place.
//
// Zero ages and brackets of living parents are treated as missing, every
// numeric column is imputed, clipped at zero and rounded, then deceased
// parents get zero age and bracket and living parents get the bracket of
// their age. The returned error joins the non-fatal MISSING_COLUMN and
// CONVERGENCE errors; a cancelled context is returned as is.
func (im *Imputer) Impute(ctx context.Context, t *table.Table) (*Result, error) {
	before := t.Clone()
	result := &Result{Converged: true}

	sides := im.maskParents(t, result)

	if err := im.imputeNumeric(ctx, t, result); err != nil {
		return nil, err
	}

	for _, side := range sides {
		im.restoreParent(side)
	}
	result.Sides = make([]SideReport, 0, len(im.parents))
	for _, side := range sides {
		result.Sides = append(result.Sides, *side.report)
	}

	result.Changed = countChanges(before, t)

	im.logger.Info("Numeric imputation finished",
		slog.Int("columns", len(result.Columns)),
		slog.Int("imputed", result.Imputed),
		slog.Int("iterations", result.Iterations),
		slog.Float64("delta", result.Delta),
		slog.Bool("converged", result.Converged),
		slog.Int("changed", result.Changed))

	return result, errors.Join(result.Errors...)
}

// maskParents reads liveness for every parent side and blanks the zero
// placeholders of living parents
func (im *Imputer) maskParents(t *table.Table, result *Result) []parentColumns {
	sides := make([]parentColumns, 0, len(im.parents))

	for _, parent := range im.parents {
		report := &SideReport{Name: parent.Name}

		livenessCol, hasLiveness := t.Column(parent.Liveness)
		ageCol, hasAge := t.Column(parent.Age)
		if !hasLiveness || !hasAge {
			report.Skipped = true
			if !hasLiveness {
				result.Errors = append(result.Errors, apperrors.NewMissingColumnError(parent.Liveness))
			}
			if !hasAge {
				result.Errors = append(result.Errors, apperrors.NewMissingColumnError(parent.Age))
			}
			im.logger.Warn("Parent side skipped",
				slog.String("parent", parent.Name),
				slog.Bool("liveness_present", hasLiveness),
				slog.Bool("age_present", hasAge))
			sides = append(sides, parentColumns{report: report})
			continue
		}

		bracketCol, hasBracket := t.Column(parent.Bracket)
		if !hasBracket {
			result.Errors = append(result.Errors, apperrors.NewMissingColumnError(parent.Bracket))
			im.logger.Warn("Bracket column missing",
				slog.String("parent", parent.Name),
				slog.String("column", parent.Bracket))
			bracketCol = nil
		}

		mask := im.liveness.Mask(livenessCol)
		for i, state := range mask {
			switch state {
			case LivenessAlive:
				report.Alive++
				if isZero(ageCol.Values[i]) {
					ageCol.Values[i] = table.Missing()
					report.Masked++
				}
				if bracketCol != nil && isZero(bracketCol.Values[i]) {
					bracketCol.Values[i] = table.Missing()
					report.Masked++
				}
			case LivenessDead:
				report.Dead++
			default:
				report.Unknown++
			}
		}

		sides = append(sides, parentColumns{report: report, mask: mask, age: ageCol, bracket: bracketCol})
	}

	return sides
}

// imputeNumeric runs the chained imputer over every numeric column with at
// least one observed value, then clips at zero and rounds
func (im *Imputer) imputeNumeric(ctx context.Context, t *table.Table, result *Result) error {
	var model []*table.Column
	for _, col := range t.ColumnsOfKind(table.KindNumber) {
		if col.MissingCount() == col.Len() {
			result.Untouched = append(result.Untouched, col.Name)
			continue
		}
		model = append(model, col)
		result.Columns = append(result.Columns, col.Name)
	}
	if len(result.Untouched) > 0 {
		im.logger.Warn("Columns without observed values left untouched",
			slog.Any("columns", result.Untouched))
	}
	if len(model) == 0 || t.Rows() == 0 {
		return nil
	}

	x := mat.NewDense(t.Rows(), len(model), nil)
	for j, col := range model {
		for i, v := range col.Values {
			f, ok := v.Float()
			if !ok {
				f = math.NaN()
			}
			x.Set(i, j, f)
		}
	}

	stats, err := newChainedImputer(im.opts, im.logger).run(ctx, x)
	if err != nil {
		return err
	}
	result.Imputed = stats.Imputed
	result.Iterations = stats.Iterations
	result.Delta = stats.Delta
	result.Converged = stats.Converged
	result.Fallbacks = stats.Fallbacks

	if !stats.Converged {
		result.Errors = append(result.Errors, apperrors.NewConvergenceError(stats.Iterations, stats.Delta))
		im.logger.Warn("Imputation did not converge, keeping last iterate",
			slog.Int("iterations", stats.Iterations),
			slog.Float64("delta", stats.Delta),
			slog.Float64("threshold", stats.Threshold))
	}
	if stats.Fallbacks > 0 {
		im.logger.Debug("Regression fell back to column mean", slog.Int("fallbacks", stats.Fallbacks))
	}

	for j, col := range model {
		for i := range col.Values {
			v := x.At(i, j)
			if v < 0 {
				v = 0
				result.Clipped++
			}
			col.Values[i] = table.Number(math.Round(v))
		}
	}
	return nil
}

// restoreParent zeroes deceased parents and rebuilds the bracket of living ones
func (im *Imputer) restoreParent(side parentColumns) {
	if side.report.Skipped {
		return
	}

	for i, state := range side.mask {
		switch state {
		case LivenessDead:
			if !isZero(side.age.Values[i]) {
				side.report.Zeroed++
			}
			side.age.Values[i] = table.Number(0)
			if side.bracket != nil {
				if !isZero(side.bracket.Values[i]) {
					side.report.Zeroed++
				}
				side.bracket.Values[i] = table.Number(0)
			}
		case LivenessAlive:
			if side.bracket != nil {
				side.bracket.Values[i] = im.brackets.Bracket(side.age.Values[i])
				side.report.Rebuilt++
			}
		}
	}

	if side.bracket != nil {
		side.bracket.Retag()
	}
}

// isZero matches the numeric zero placeholder and its text rendering
func isZero(v table.Value) bool {
	if f, ok := v.Float(); ok {
		return f == 0
	}
	s, ok := v.Str()
	return ok && s == "0"
}

func countChanges(before, after *table.Table) int {
	changed := 0
	for _, col := range after.Columns() {
		for i, v := range col.Values {
			if !before.Get(col.Name, i).Equal(v) {
				changed++
			}
		}
	}
	return changed
}
