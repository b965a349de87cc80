// Package shape aggregates per-voxel face exposure into cluster shape
// descriptors: volume, surface area, core/surface counts, center of
// mass, and radius of gyration.
package shape

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"

	"voxelshape/internal/models"
	"voxelshape/pkg/voxel"
)

// ErrEmptyCluster reports a statistic requested for a cluster with no
// points. Center of mass and radius of gyration are undefined there
// and must surface as not computable, never as a silent zero.
var ErrEmptyCluster = errors.New("shape: cluster has no points")

// ErrUndefinedRatio reports a ratio requested for a zero-volume grid.
var ErrUndefinedRatio = errors.New("shape: ratio undefined for zero volume")

// Aggregate combines the face scan of one grid into a ShapeSummary.
//
// A voxel with any exposed face is a surface voxel; the complement is
// the core. Volume is voxel count times the physical bin volume, and
// surface area weights lateral and axial faces by their respective
// physical face areas.
func Aggregate(g *voxel.Grid, exposures map[models.Voxel]models.FaceExposure) models.ShapeSummary {
	var s models.ShapeSummary

	s.TotalVoxels = len(g.Voxels)
	for _, v := range g.Voxels {
		e := exposures[v]
		if e.TotalFaces() != 0 {
			s.SurfaceVoxels++
		}
		s.XYFaces += e.XYFaces()
		s.ZFaces += e.Z
	}

	s.Volume = float64(s.TotalVoxels) * g.BinXY * g.BinXY * g.BinZ
	s.SurfaceArea = float64(s.XYFaces)*g.BinXY*g.BinZ + float64(s.ZFaces)*g.BinXY*g.BinXY

	return s
}

// AggregateGroups voxelizes and scans each subgroup of a cluster
// independently, then sums the per-group summaries.
//
// Subgroups sharing one decode label can sit far apart in space.
// Voxelizing them together would let origin normalization merge them
// into one grid and miscount faces between unrelated runs, so each
// group gets its own grid and the totals are combined afterwards.
func AggregateGroups(groups [][]models.Point, binXY, binZ float64) (models.ShapeSummary, error) {
	var total models.ShapeSummary

	for _, points := range groups {
		grid, err := voxel.Build(points, binXY, binZ)
		if err != nil {
			return models.ShapeSummary{}, err
		}

		s := Aggregate(grid, voxel.Scan(grid))
		total.TotalVoxels += s.TotalVoxels
		total.SurfaceVoxels += s.SurfaceVoxels
		total.XYFaces += s.XYFaces
		total.ZFaces += s.ZFaces
		total.Volume += s.Volume
		total.SurfaceArea += s.SurfaceArea
	}

	return total, nil
}

// SToV returns the dimensionless surface-to-volume ratio
// surface / volume^(2/3). It is undefined for zero volume.
func SToV(s models.ShapeSummary) (float64, error) {
	if s.Volume <= 0 {
		return 0, ErrUndefinedRatio
	}
	return s.SurfaceArea / math.Pow(s.Volume, 2.0/3.0), nil
}

// CoreRatio returns the core voxel fraction of a summary. It is
// undefined for an empty grid.
func CoreRatio(s models.ShapeSummary) (float64, error) {
	if s.TotalVoxels == 0 {
		return 0, ErrUndefinedRatio
	}
	return float64(s.TotalVoxels-s.SurfaceVoxels) / float64(s.TotalVoxels), nil
}

// CenterOfMass returns the arithmetic mean of each coordinate over
// the cluster's raw, non-voxelized points.
func CenterOfMass(points []models.Point) (models.Point, error) {
	if len(points) == 0 {
		return models.Point{}, ErrEmptyCluster
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
		zs[i] = p.Z
	}

	return models.Point{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
		Z: stat.Mean(zs, nil),
	}, nil
}

// RadiusOfGyration returns the root-mean-square distance of the
// points from the given center of mass.
func RadiusOfGyration(points []models.Point, com models.Point) (float64, error) {
	if len(points) == 0 {
		return 0, ErrEmptyCluster
	}

	var sum float64
	for _, p := range points {
		dx := p.X - com.X
		dy := p.Y - com.Y
		dz := p.Z - com.Z
		sum += dx*dx + dy*dy + dz*dz
	}

	return math.Sqrt(sum / float64(len(points))), nil
}
