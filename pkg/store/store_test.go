package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"voxelshape/internal/models"
)

// openTestStore creates a store backed by a temp-dir database.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestRecordSummary verifies a shape record round trip, including the
// NULL marker for undefined ratios.
func TestRecordSummary(t *testing.T) {
	s := openTestStore(t)

	report := models.ClusterReport{
		File: "roi1_xa.csv", Status: "active", ID: 4, TotalLocs: 1500, Subgroups: 2,
		COM:      models.Point{X: 10, Y: 20, Z: 30},
		Distance: 5.5,
		Shape: models.ShapeSummary{
			TotalVoxels: 12, SurfaceVoxels: 10,
			XYFaces: 40, ZFaces: 18,
			Volume: 1.5e6, SurfaceArea: 2.1e5,
		},
		SToV: 9.1, SToVValid: true,
		Rg: 88.2, Density: 1000,
	}

	id, err := s.RecordSummary(report)
	if err != nil {
		t.Fatalf("RecordSummary failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive row id, got %d", id)
	}

	var file string
	var stov sql.NullFloat64
	row := s.QueryRow(`SELECT file, s_to_v FROM shape_reports WHERE id = ?`, id)
	if err := row.Scan(&file, &stov); err != nil {
		t.Fatalf("Failed to read back report: %v", err)
	}
	if file != "roi1_xa.csv" {
		t.Errorf("expected file roi1_xa.csv, got %s", file)
	}
	if !stov.Valid || stov.Float64 != 9.1 {
		t.Errorf("expected s_to_v 9.1, got %+v", stov)
	}

	// A degenerate ratio is stored as NULL, not zero.
	report.SToVValid = false
	id2, err := s.RecordSummary(report)
	if err != nil {
		t.Fatalf("RecordSummary failed: %v", err)
	}
	if err := s.QueryRow(`SELECT s_to_v FROM shape_reports WHERE id = ?`, id2).Scan(&stov); err != nil {
		t.Fatalf("Failed to read back report: %v", err)
	}
	if stov.Valid {
		t.Errorf("expected NULL s_to_v for undefined ratio, got %v", stov.Float64)
	}

	if n, err := s.CountReports(); err != nil || n != 2 {
		t.Errorf("expected 2 stored reports, got %d (err %v)", n, err)
	}
}

// TestRecordCurve verifies the curve transaction, its samples, and the
// NULL fit marker.
func TestRecordCurve(t *testing.T) {
	s := openTestStore(t)

	curve := models.ClusterCurve{
		File: "roi2_xi.csv", Status: "inactive", ID: 9, TotalLocs: 700, Subgroups: 1,
		Curve: models.CompactnessCurve{
			Samples: []models.CurveSample{
				{Bin: 10, Volume: 1000, Surface: 600, SToV: 6, SToVValid: true, CoreRatio: 0, CoreValid: true},
				{Bin: 15, Volume: 6750, Surface: 2250, SToV: 6.3, SToVValid: true, CoreRatio: 0.25, CoreValid: true},
			},
			Fit: &models.SigmoidParams{L: 0.8, X0: 60, K: 0.1},
		},
	}

	curveID, err := s.RecordCurve(curve)
	if err != nil {
		t.Fatalf("RecordCurve failed: %v", err)
	}

	var samples int
	if err := s.QueryRow(`SELECT COUNT(*) FROM sweep_samples WHERE curve_id = ?`, curveID).Scan(&samples); err != nil {
		t.Fatalf("Failed to count samples: %v", err)
	}
	if samples != 2 {
		t.Errorf("expected 2 stored samples, got %d", samples)
	}

	var fitL sql.NullFloat64
	if err := s.QueryRow(`SELECT fit_l FROM sweep_curves WHERE id = ?`, curveID).Scan(&fitL); err != nil {
		t.Fatalf("Failed to read back curve: %v", err)
	}
	if !fitL.Valid || fitL.Float64 != 0.8 {
		t.Errorf("expected fit_l 0.8, got %+v", fitL)
	}

	// A curve without a converged fit stores NULL parameters.
	curve.Curve.Fit = nil
	noFitID, err := s.RecordCurve(curve)
	if err != nil {
		t.Fatalf("RecordCurve failed: %v", err)
	}
	if err := s.QueryRow(`SELECT fit_l FROM sweep_curves WHERE id = ?`, noFitID).Scan(&fitL); err != nil {
		t.Fatalf("Failed to read back curve: %v", err)
	}
	if fitL.Valid {
		t.Errorf("expected NULL fit parameters, got %v", fitL.Float64)
	}

	if n, err := s.CountCurves(); err != nil || n != 2 {
		t.Errorf("expected 2 stored curves, got %d (err %v)", n, err)
	}
}
