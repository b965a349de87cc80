package sweep

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"voxelshape/internal/models"
)

// ErrFitNotConverged reports a sigmoid fit that failed to converge.
// This is a per-cluster recoverable condition: callers record the
// cluster as having no fit and keep processing the batch.
var ErrFitNotConverged = errors.New("sweep: sigmoid fit did not converge")

// Sigmoid evaluates the compactness model L / (1 + exp(-k*(x - x0))).
func Sigmoid(x, l, x0, k float64) float64 {
	return l / (1 + math.Exp(-k*(x-x0)))
}

// FitSigmoid least-squares fits the sigmoid model to the sample
// arrays. The initial guess is L = max(y), x0 = median(x), k = 1, and
// the residual sum of squares is minimized with Nelder-Mead simplex
// descent.
func FitSigmoid(xs, ys []float64) (models.SigmoidParams, error) {
	if len(xs) != len(ys) {
		return models.SigmoidParams{}, fmt.Errorf("%w: %d x samples vs %d y samples",
			ErrFitNotConverged, len(xs), len(ys))
	}
	if len(xs) < 3 {
		return models.SigmoidParams{}, fmt.Errorf("%w: need at least 3 samples, have %d",
			ErrFitNotConverged, len(xs))
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	p0 := []float64{
		floats.Max(ys),
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		1,
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			var sse float64
			for i := range xs {
				r := Sigmoid(xs[i], p[0], p[1], p[2]) - ys[i]
				sse += r * r
			}
			return sse
		},
	}

	result, err := optimize.Minimize(problem, p0, nil, &optimize.NelderMead{})
	if err != nil {
		return models.SigmoidParams{}, fmt.Errorf("%w: %v", ErrFitNotConverged, err)
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return models.SigmoidParams{}, fmt.Errorf("%w: non-finite residual", ErrFitNotConverged)
	}

	return models.SigmoidParams{
		L:  result.X[0],
		X0: result.X[1],
		K:  result.X[2],
	}, nil
}
