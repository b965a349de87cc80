package voxel

import (
	"sort"

	"voxelshape/internal/models"
)

// axis selects the scan direction of a column pass.
type axis int

const (
	axisX axis = iota
	axisY
	axisZ
)

// columnKey identifies a 1D column of voxels: the two lattice
// coordinates orthogonal to the scan axis, in axis order.
type columnKey struct {
	a int
	b int
}

// Scan classifies the exposed faces of every occupied voxel in the
// grid. The three axes are scanned independently; the order of the
// passes does not affect the result.
//
// Within one axis, voxels sharing the two orthogonal coordinates form
// a column. The column is sorted along the scan axis and each voxel's
// two faces on that axis are classified from its neighbors in sorted
// order: the first and last voxel of the column always expose their
// outward face, an adjacent pair (coordinate difference of exactly 1)
// hides the two faces between them, and any larger difference exposes
// both facing faces. A column of one voxel exposes both faces.
//
// Gaps are never filled in. The scanner only classifies exposure of
// voxels that exist; a column holding two widely separated runs
// reports the endpoints of each run as exposed, with no assumption of
// a single contiguous solid.
func Scan(g *Grid) map[models.Voxel]models.FaceExposure {
	exposures := make(map[models.Voxel]models.FaceExposure, len(g.Voxels))
	for _, v := range g.Voxels {
		exposures[v] = models.FaceExposure{}
	}

	for _, ax := range []axis{axisX, axisY, axisZ} {
		scanAxis(g.Voxels, ax, exposures)
	}

	return exposures
}

// scanAxis runs one directional pass, writing the per-axis face counts
// into the exposure map.
func scanAxis(voxels []models.Voxel, ax axis, exposures map[models.Voxel]models.FaceExposure) {
	// Group voxels into columns keyed by the orthogonal coordinates.
	columns := make(map[columnKey][]int)
	for _, v := range voxels {
		key, c := splitVoxel(v, ax)
		columns[key] = append(columns[key], c)
	}

	for key, coords := range columns {
		sort.Ints(coords)

		// Face counts derive from the sorted neighbor differences
		// alone. The low face of a voxel is exposed when there is no
		// voxel at coordinate c-1 (run start), and the high face when
		// there is none at c+1 (run end); a singleton column gets both.
		for i, c := range coords {
			exposed := 0
			if i == 0 || coords[i-1] < c-1 {
				exposed++
			}
			if i == len(coords)-1 || coords[i+1] > c+1 {
				exposed++
			}

			v := joinVoxel(key, c, ax)
			e := exposures[v]
			switch ax {
			case axisX:
				e.X = exposed
			case axisY:
				e.Y = exposed
			case axisZ:
				e.Z = exposed
			}
			exposures[v] = e
		}
	}
}

// splitVoxel separates a voxel into its column key and scan-axis
// coordinate for the given axis.
func splitVoxel(v models.Voxel, ax axis) (columnKey, int) {
	switch ax {
	case axisX:
		return columnKey{a: v.Y, b: v.Z}, v.X
	case axisY:
		return columnKey{a: v.X, b: v.Z}, v.Y
	default:
		return columnKey{a: v.X, b: v.Y}, v.Z
	}
}

// joinVoxel reassembles a voxel from a column key and scan-axis
// coordinate. It is the inverse of splitVoxel.
func joinVoxel(key columnKey, c int, ax axis) models.Voxel {
	switch ax {
	case axisX:
		return models.Voxel{X: c, Y: key.a, Z: key.b}
	case axisY:
		return models.Voxel{X: key.a, Y: c, Z: key.b}
	default:
		return models.Voxel{X: key.a, Y: key.b, Z: c}
	}
}
