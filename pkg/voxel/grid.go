// Package voxel converts nanometer-space point sets into sparse voxel
// grids and classifies the exposed faces of every occupied voxel.
// It is the geometric core of the pipeline: the grid builder bins and
// deduplicates localizations, and the scanner walks the grid one axis
// at a time to decide which voxel faces touch empty space.
package voxel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"voxelshape/internal/models"
)

// ErrInvalidBinSize reports a non-positive bin dimension. It is
// returned before any voxelization work happens.
var ErrInvalidBinSize = errors.New("voxel: bin size must be positive")

// Grid is the deduplicated set of occupied voxels for one cluster.
// Coordinates are origin-normalized: the minimum along each axis is 1,
// which keeps column scans free of negative-index edge cases.
type Grid struct {
	// BinXY is the lateral bin size in nanometers
	BinXY float64

	// BinZ is the axial bin size in nanometers
	BinZ float64

	// Voxels holds each occupied voxel exactly once, in sorted order
	Voxels []models.Voxel
}

// Build voxelizes a point set at the given bin resolution.
//
// Each coordinate is floor-divided by its bin size. Floor division,
// not truncation: negative coordinates must round toward negative
// infinity, matching integer lattice semantics. Points mapping to the
// same voxel collapse to a single occupied voxel, and the result is
// translated so every axis minimum becomes 1.
//
// An empty point set yields an empty grid; downstream aggregation
// treats that as zero volume, not as an error.
func Build(points []models.Point, binXY, binZ float64) (*Grid, error) {
	if binXY <= 0 || binZ <= 0 {
		return nil, fmt.Errorf("%w: got binXY=%g, binZ=%g", ErrInvalidBinSize, binXY, binZ)
	}

	// Deduplicate occupied voxels with a set keyed by the lattice
	// coordinate. Multiple localizations per voxel are expected;
	// occupancy is all the scanner needs.
	occupied := mapset.NewThreadUnsafeSet[models.Voxel]()
	for _, p := range points {
		occupied.Add(models.Voxel{
			X: int(math.Floor(p.X / binXY)),
			Y: int(math.Floor(p.Y / binXY)),
			Z: int(math.Floor(p.Z / binZ)),
		})
	}

	voxels := occupied.ToSlice()
	autoOrigin(voxels)

	// Set iteration order is unspecified; sort for deterministic
	// downstream behavior and stable test output.
	sort.Slice(voxels, func(i, j int) bool {
		a, b := voxels[i], voxels[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})

	return &Grid{BinXY: binXY, BinZ: binZ, Voxels: voxels}, nil
}

// autoOrigin translates the voxels in place so the minimum coordinate
// along each axis is 1.
func autoOrigin(voxels []models.Voxel) {
	if len(voxels) == 0 {
		return
	}

	minX, minY, minZ := voxels[0].X, voxels[0].Y, voxels[0].Z
	for _, v := range voxels[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Z < minZ {
			minZ = v.Z
		}
	}

	for i := range voxels {
		voxels[i].X += 1 - minX
		voxels[i].Y += 1 - minY
		voxels[i].Z += 1 - minZ
	}
}
