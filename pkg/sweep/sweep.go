// Package sweep runs the voxelization pipeline across a range of bin
// sizes, producing a compactness curve per cluster and fitting a
// sigmoid model of core voxel fraction against spatial resolution.
package sweep

import (
	"errors"
	"fmt"

	"voxelshape/internal/models"
	"voxelshape/pkg/shape"
	"voxelshape/pkg/voxel"
)

// ErrInvalidRange reports malformed sweep bounds. It is returned
// before any bin is processed.
var ErrInvalidRange = errors.New("sweep: invalid bin range")

// Sweep voxelizes the points at every bin size in the half-open range
// [binMin, binMax) with the given step, using cubic bins
// (binXY = binZ = bin), and records the shape descriptors per bin.
//
// Bins are independent, so each one is computed on its own goroutine;
// every worker owns its grid and exposure map exclusively. Samples
// come back ordered by ascending bin size.
//
// After the sweep a sigmoid is fitted to core ratio against bin size.
// A fit failure is not an error: the curve is returned with a nil Fit
// so batch processing of other clusters continues uninterrupted.
func Sweep(points []models.Point, binMin, binMax, binStep int) (*models.CompactnessCurve, error) {
	if binMax <= binMin || binStep <= 0 {
		return nil, fmt.Errorf("%w: [%d, %d) step %d", ErrInvalidRange, binMin, binMax, binStep)
	}

	var bins []int
	for b := binMin; b < binMax; b += binStep {
		bins = append(bins, b)
	}

	type binResult struct {
		idx    int
		sample models.CurveSample
		err    error
	}
	resultChan := make(chan binResult)

	for i, b := range bins {
		go func(idx, bin int) {
			sample, err := scanBin(points, bin)
			resultChan <- binResult{idx: idx, sample: sample, err: err}
		}(i, b)
	}

	samples := make([]models.CurveSample, len(bins))
	for completed := 0; completed < len(bins); completed++ {
		res := <-resultChan
		if res.err != nil {
			return nil, fmt.Errorf("bin %d failed: %w", bins[res.idx], res.err)
		}
		samples[res.idx] = res.sample
	}

	curve := &models.CompactnessCurve{Samples: samples}

	// The fit needs the core ratio defined at each usable sample.
	var xs, ys []float64
	for _, s := range samples {
		if s.CoreValid {
			xs = append(xs, float64(s.Bin))
			ys = append(ys, s.CoreRatio)
		}
	}
	if params, err := FitSigmoid(xs, ys); err == nil {
		curve.Fit = &params
	}

	return curve, nil
}

// scanBin runs builder, scanner, and aggregator for one bin size.
func scanBin(points []models.Point, bin int) (models.CurveSample, error) {
	grid, err := voxel.Build(points, float64(bin), float64(bin))
	if err != nil {
		return models.CurveSample{}, err
	}

	summary := shape.Aggregate(grid, voxel.Scan(grid))

	sample := models.CurveSample{
		Bin:     bin,
		Volume:  summary.Volume,
		Surface: summary.SurfaceArea,
	}

	// Zero-volume degeneracies are recorded as unavailable, never as
	// silent zeros.
	if stov, err := shape.SToV(summary); err == nil {
		sample.SToV = stov
		sample.SToVValid = true
	}
	if core, err := shape.CoreRatio(summary); err == nil {
		sample.CoreRatio = core
		sample.CoreValid = true
	}

	return sample, nil
}
