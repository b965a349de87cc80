package visualization

import (
	"os"
	"path/filepath"
	"testing"

	"voxelshape/internal/models"
)

// sampleCurve builds a small plottable curve, optionally with a fit.
func sampleCurve(fit *models.SigmoidParams) models.CompactnessCurve {
	return models.CompactnessCurve{
		Samples: []models.CurveSample{
			{Bin: 10, CoreRatio: 0.0, CoreValid: true},
			{Bin: 30, CoreRatio: 0.2, CoreValid: true},
			{Bin: 60, CoreRatio: 0.6, CoreValid: true},
			{Bin: 90, CoreRatio: 0.8, CoreValid: true},
		},
		Fit: fit,
	}
}

// TestSaveCurvePlot verifies a PNG is written with and without a fit
// overlay.
func TestSaveCurvePlot(t *testing.T) {
	dir := t.TempDir()

	withFit := filepath.Join(dir, "with_fit.png")
	fit := &models.SigmoidParams{L: 0.85, X0: 55, K: 0.08}
	if err := SaveCurvePlot(sampleCurve(fit), "cluster 1", withFit); err != nil {
		t.Fatalf("SaveCurvePlot with fit failed: %v", err)
	}

	noFit := filepath.Join(dir, "no_fit.png")
	if err := SaveCurvePlot(sampleCurve(nil), "cluster 2", noFit); err != nil {
		t.Fatalf("SaveCurvePlot without fit failed: %v", err)
	}

	for _, path := range []string{withFit, noFit} {
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("plot file %s was not created: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("plot file %s is empty", path)
		}
	}
}

// TestSaveCurvePlotEmpty verifies unplottable curves are rejected.
func TestSaveCurvePlotEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")

	if err := SaveCurvePlot(models.CompactnessCurve{}, "empty", path); err == nil {
		t.Error("expected error for curve without samples")
	}

	invalid := models.CompactnessCurve{
		Samples: []models.CurveSample{{Bin: 10, CoreValid: false}},
	}
	if err := SaveCurvePlot(invalid, "invalid", path); err == nil {
		t.Error("expected error for curve without computable core ratios")
	}
}

// TestSaveCurvePlots verifies per-cluster output and skipping of
// unplottable curves.
func TestSaveCurvePlots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	curves := []models.ClusterCurve{
		{File: "roi1_xa.csv", ID: 1, Curve: sampleCurve(nil)},
		{File: "roi1_xa.csv", ID: 2, Curve: models.CompactnessCurve{
			Samples: []models.CurveSample{{Bin: 10, CoreValid: false}},
		}},
	}

	count, err := SaveCurvePlots(curves, dir)
	if err != nil {
		t.Fatalf("SaveCurvePlots failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 plot (unplottable curve skipped), got %d", count)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read plot directory: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in plot directory, got %d", len(entries))
	}
}
