// Package store persists analysis results into a SQLite database, so
// runs over many experiment folders can be queried together.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	"voxelshape/internal/models"

	_ "modernc.org/sqlite"
)

// Store wraps the results database.
type Store struct {
	*sql.DB
}

// schema.sql contains the SQL statements for creating the results
// schema. It defines tables for fixed-resolution shape reports and for
// multi-scale compactness curves with their per-bin samples.
//
//go:embed schema.sql
var schemaSQL string

// Open opens (or creates) the results database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize results schema: %w", err)
	}

	return &Store{db}, nil
}

// RecordSummary persists one fixed-resolution cluster record and
// returns the new row id. An undefined surface-to-volume ratio is
// stored as NULL.
func (s *Store) RecordSummary(r models.ClusterReport) (int64, error) {
	stmt := `INSERT INTO shape_reports (file, status, cluster_id, total_locs, subgroups,
				com_x, com_y, com_z, rel_x, rel_y, rel_z, distance,
				total_voxels, surface_voxels, xy_faces, z_faces,
				volume, surface_area, s_to_v, rg, density)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var stov sql.NullFloat64
	if r.SToVValid {
		stov = sql.NullFloat64{Float64: r.SToV, Valid: true}
	}

	res, err := s.Exec(stmt, r.File, r.Status, r.ID, r.TotalLocs, r.Subgroups,
		r.COM.X, r.COM.Y, r.COM.Z, r.RelCOM.X, r.RelCOM.Y, r.RelCOM.Z, r.Distance,
		r.Shape.TotalVoxels, r.Shape.SurfaceVoxels, r.Shape.XYFaces, r.Shape.ZFaces,
		r.Shape.Volume, r.Shape.SurfaceArea, stov, r.Rg, r.Density)
	if err != nil {
		return 0, fmt.Errorf("failed to insert shape report: %w", err)
	}
	return res.LastInsertId()
}

// RecordCurve persists one multi-scale cluster record with all its
// per-bin samples in a single transaction and returns the curve id.
// A missing sigmoid fit is stored as NULL parameters.
func (s *Store) RecordCurve(c models.ClusterCurve) (int64, error) {
	tx, err := s.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var fitL, fitX0, fitK sql.NullFloat64
	if c.Curve.Fit != nil {
		fitL = sql.NullFloat64{Float64: c.Curve.Fit.L, Valid: true}
		fitX0 = sql.NullFloat64{Float64: c.Curve.Fit.X0, Valid: true}
		fitK = sql.NullFloat64{Float64: c.Curve.Fit.K, Valid: true}
	}

	res, err := tx.Exec(`INSERT INTO sweep_curves (file, status, cluster_id, total_locs, subgroups, fit_l, fit_x0, fit_k)
						 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.File, c.Status, c.ID, c.TotalLocs, c.Subgroups, fitL, fitX0, fitK)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sweep curve: %w", err)
	}
	curveID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	sampleStmt, err := tx.Prepare(`INSERT INTO sweep_samples (curve_id, bin, volume, surface, s_to_v, core_ratio)
								   VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer sampleStmt.Close()

	for _, sample := range c.Curve.Samples {
		var stov, core sql.NullFloat64
		if sample.SToVValid {
			stov = sql.NullFloat64{Float64: sample.SToV, Valid: true}
		}
		if sample.CoreValid {
			core = sql.NullFloat64{Float64: sample.CoreRatio, Valid: true}
		}
		if _, err := sampleStmt.Exec(curveID, sample.Bin, sample.Volume, sample.Surface, stov, core); err != nil {
			return 0, fmt.Errorf("failed to insert sample for bin %d: %w", sample.Bin, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit curve: %w", err)
	}
	return curveID, nil
}

// CountReports returns the number of stored fixed-resolution records.
func (s *Store) CountReports() (int, error) {
	var n int
	if err := s.QueryRow(`SELECT COUNT(*) FROM shape_reports`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// CountCurves returns the number of stored multi-scale records.
func (s *Store) CountCurves() (int, error) {
	var n int
	if err := s.QueryRow(`SELECT COUNT(*) FROM sweep_curves`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
