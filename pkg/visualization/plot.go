// Package visualization renders analysis results for inspection:
// compactness-curve plots per cluster and presentation relabeling of
// cluster ids.
package visualization

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"voxelshape/internal/models"
	"voxelshape/pkg/sweep"
)

// SaveCurvePlot renders one compactness curve (core ratio against bin
// size) as a PNG. When the curve carries fitted sigmoid parameters,
// the fitted function is drawn over the samples.
func SaveCurvePlot(curve models.CompactnessCurve, title, path string) error {
	if len(curve.Samples) == 0 {
		return fmt.Errorf("curve has no samples to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Bin size (nm)"
	p.Y.Label.Text = "Core ratio"

	pts := make(plotter.XYs, 0, len(curve.Samples))
	for _, s := range curve.Samples {
		if !s.CoreValid {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(s.Bin), Y: s.CoreRatio})
	}
	if len(pts) == 0 {
		return fmt.Errorf("curve has no computable core ratios to plot")
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)
	p.Legend.Add("measured", scatter)

	if curve.Fit != nil {
		fit := curve.Fit
		fitted := plotter.NewFunction(func(x float64) float64 {
			return sweep.Sigmoid(x, fit.L, fit.X0, fit.K)
		})
		fitted.Color = color.RGBA{R: 200, A: 255}
		fitted.Width = vg.Points(1)
		p.Add(fitted)
		p.Legend.Add("sigmoid fit", fitted)
	}

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// SaveCurvePlots renders one PNG per cluster curve into outputDir and
// returns the number of plots written. Curves whose core ratio is
// nowhere computable are skipped, not fatal.
func SaveCurvePlots(curves []models.ClusterCurve, outputDir string) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create plot directory: %w", err)
	}

	count := 0
	for _, c := range curves {
		plottable := false
		for _, s := range c.Curve.Samples {
			if s.CoreValid {
				plottable = true
				break
			}
		}
		if !plottable {
			continue
		}

		title := fmt.Sprintf("%s cluster %d", c.File, c.ID)
		name := fmt.Sprintf("%s_cluster_%03d.png", baseName(c.File), c.ID)
		if err := SaveCurvePlot(c.Curve, title, filepath.Join(outputDir, name)); err != nil {
			return count, fmt.Errorf("cluster %d: %w", c.ID, err)
		}
		count++
	}
	return count, nil
}

// baseName strips the directory and extension from a file name.
func baseName(file string) string {
	base := filepath.Base(file)
	return base[:len(base)-len(filepath.Ext(base))]
}
