package imputation

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"golang.org/x/time/rate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Column visit orders
const (
	OrderAscending = "ascending"
	OrderRandom    = "random"
)

// Options tunes the chained-equations loop
type Options struct {
	MaxIter    int
	Tolerance  float64
	Seed       int64
	Order      string
	RidgeAlpha float64
}

// DefaultOptions mirrors config.Default().Imputation
func DefaultOptions() Options {
	return Options{
		MaxIter:    10,
		Tolerance:  1e-3,
		Seed:       42,
		Order:      OrderAscending,
		RidgeAlpha: 1.0,
	}
}

// miceStats describes one run of the loop
type miceStats struct {
	Iterations int
	Delta      float64
	Threshold  float64
	Converged  bool
	Imputed    int
	Fallbacks  int
}

// chainedImputer fills the NaN cells of a dense matrix by round-robin ridge
// regression of each incomplete column on every other column.
// Every column must have at least one observed value.
type chainedImputer struct {
	opts   Options
	rng    *rand.Rand
	logger *slog.Logger
	// progress throttles the per-iteration log on large tables
	progress rate.Sometimes
}

func newChainedImputer(opts Options, logger *slog.Logger) *chainedImputer {
	if logger == nil {
		logger = slog.Default()
	}
	return &chainedImputer{
		opts:     opts,
		rng:      rand.New(rand.NewSource(opts.Seed)),
		logger:   logger,
		progress: rate.Sometimes{First: 1, Interval: 2 * time.Second},
	}
}

func (c *chainedImputer) run(ctx context.Context, x *mat.Dense) (miceStats, error) {
	rows, cols := x.Dims()

	missing := make([][]int, cols)
	observedMax := 0.0
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			v := x.At(i, j)
			if math.IsNaN(v) {
				missing[j] = append(missing[j], i)
				continue
			}
			observedMax = math.Max(observedMax, math.Abs(v))
		}
	}

	targets := make([]int, 0, cols)
	stats := miceStats{}
	for j := 0; j < cols; j++ {
		if len(missing[j]) == 0 {
			continue
		}
		targets = append(targets, j)
		stats.Imputed += len(missing[j])

		mean := observedMean(x, j)
		for _, i := range missing[j] {
			x.Set(i, j, mean)
		}
	}
	if len(targets) == 0 {
		stats.Converged = true
		return stats, nil
	}

	// Ascending: fewest missing values first, column order on ties
	sort.SliceStable(targets, func(a, b int) bool {
		return len(missing[targets[a]]) < len(missing[targets[b]])
	})

	stats.Threshold = c.opts.Tolerance * observedMax
	prev := mat.DenseCopyOf(x)

	for iter := 1; iter <= c.opts.MaxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		order := targets
		if c.opts.Order == OrderRandom {
			order = make([]int, len(targets))
			for k, p := range c.rng.Perm(len(targets)) {
				order[k] = targets[p]
			}
		}

		for _, j := range order {
			if !c.fitColumn(x, j, missing[j]) {
				stats.Fallbacks++
			}
		}

		delta := 0.0
		for _, j := range targets {
			for _, i := range missing[j] {
				delta = math.Max(delta, math.Abs(x.At(i, j)-prev.At(i, j)))
			}
		}
		stats.Iterations = iter
		stats.Delta = delta
		c.progress.Do(func() {
			c.logger.Debug("Imputation round finished",
				slog.Int("iteration", iter),
				slog.Float64("delta", delta),
				slog.Float64("threshold", stats.Threshold))
		})

		if delta < stats.Threshold || delta == 0 {
			stats.Converged = true
			break
		}
		prev.Copy(x)
	}

	return stats, nil
}

// fitColumn regresses column j on the other columns over its observed rows and
// rewrites its missing rows with the prediction. It reports false when the
// system could not be solved and the observed mean was used instead.
func (c *chainedImputer) fitColumn(x *mat.Dense, j int, missing []int) bool {
	rows, cols := x.Dims()

	isMissing := make([]bool, rows)
	for _, i := range missing {
		isMissing[i] = true
	}

	// Standardized predictors; constant columns carry no signal
	predictors := make([]int, 0, cols-1)
	means := make([]float64, 0, cols-1)
	scales := make([]float64, 0, cols-1)
	for k := 0; k < cols; k++ {
		if k == j {
			continue
		}
		col := mat.Col(nil, k, x)
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		predictors = append(predictors, k)
		means = append(means, mean)
		scales = append(scales, std)
	}

	observed := rows - len(missing)
	y := make([]float64, 0, observed)
	for i := 0; i < rows; i++ {
		if !isMissing[i] {
			y = append(y, x.At(i, j))
		}
	}
	yMean := stat.Mean(y, nil)

	fillMean := func() {
		for _, i := range missing {
			x.Set(i, j, yMean)
		}
	}

	p := len(predictors)
	if p == 0 {
		fillMean()
		return true
	}

	design := mat.NewDense(observed, p, nil)
	centered := mat.NewVecDense(observed, nil)
	r := 0
	for i := 0; i < rows; i++ {
		if isMissing[i] {
			continue
		}
		for k, col := range predictors {
			design.Set(r, k, (x.At(i, col)-means[k])/scales[k])
		}
		centered.SetVec(r, y[r]-yMean)
		r++
	}

	var gram mat.SymDense
	gram.SymOuterK(1, design.T())
	for k := 0; k < p; k++ {
		gram.SetSym(k, k, gram.At(k, k)+c.opts.RidgeAlpha)
	}

	var rhs mat.VecDense
	rhs.MulVec(design.T(), centered)

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		fillMean()
		return false
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &rhs); err != nil {
		fillMean()
		return false
	}

	coef := beta.RawVector().Data
	features := make([]float64, p)
	for _, i := range missing {
		for k, col := range predictors {
			features[k] = (x.At(i, col) - means[k]) / scales[k]
		}
		x.Set(i, j, yMean+floats.Dot(coef, features))
	}
	return true
}

func observedMean(x *mat.Dense, j int) float64 {
	rows, _ := x.Dims()
	var sum float64
	var n int
	for i := 0; i < rows; i++ {
		if v := x.At(i, j); !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
