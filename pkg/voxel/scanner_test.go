package voxel

import (
	"testing"

	"voxelshape/internal/models"
)

// gridFromVoxels builds a Grid directly from lattice coordinates,
// bypassing Build, for scanner-only tests.
func gridFromVoxels(voxels ...models.Voxel) *Grid {
	return &Grid{BinXY: 1, BinZ: 1, Voxels: voxels}
}

// TestScanIsolatedVoxel verifies a grid of one voxel exposes both
// faces on every axis: it is always a surface voxel.
func TestScanIsolatedVoxel(t *testing.T) {
	grid := gridFromVoxels(models.Voxel{X: 1, Y: 1, Z: 1})

	exposures := Scan(grid)
	e, ok := exposures[models.Voxel{X: 1, Y: 1, Z: 1}]
	if !ok {
		t.Fatal("isolated voxel missing from exposure map")
	}

	if e.X != 2 || e.Y != 2 || e.Z != 2 {
		t.Errorf("expected face counts (2,2,2), got (%d,%d,%d)", e.X, e.Y, e.Z)
	}
	if e.TotalFaces() != 6 {
		t.Errorf("expected 6 total faces, got %d", e.TotalFaces())
	}
}

// TestScanContiguousColumn verifies run endpoints expose one face and
// interior voxels none along the scan axis.
func TestScanContiguousColumn(t *testing.T) {
	grid := gridFromVoxels(
		models.Voxel{X: 1, Y: 1, Z: 1},
		models.Voxel{X: 2, Y: 1, Z: 1},
		models.Voxel{X: 3, Y: 1, Z: 1},
	)

	exposures := Scan(grid)

	testCases := []struct {
		voxel models.Voxel
		wantX int
	}{
		{models.Voxel{X: 1, Y: 1, Z: 1}, 1},
		{models.Voxel{X: 2, Y: 1, Z: 1}, 0},
		{models.Voxel{X: 3, Y: 1, Z: 1}, 1},
	}

	for _, tc := range testCases {
		e := exposures[tc.voxel]
		if e.X != tc.wantX {
			t.Errorf("voxel %v: expected x faces %d, got %d", tc.voxel, tc.wantX, e.X)
		}
		// Each voxel is alone in its y and z columns.
		if e.Y != 2 || e.Z != 2 {
			t.Errorf("voxel %v: expected y,z faces (2,2), got (%d,%d)", tc.voxel, e.Y, e.Z)
		}
	}
}

// TestScanGapPolicy verifies gaps are classified, never filled: a gap
// of 2 and a gap of 100 both expose exactly the two facing endpoint
// faces, with no inferred interior voxels.
func TestScanGapPolicy(t *testing.T) {
	testCases := []struct {
		name string
		gap  int
	}{
		{"gap of 2", 2},
		{"gap of 100", 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			near := models.Voxel{X: 1, Y: 1, Z: 1}
			far := models.Voxel{X: 1 + tc.gap, Y: 1, Z: 1}
			grid := gridFromVoxels(near, far)

			exposures := Scan(grid)
			if len(exposures) != 2 {
				t.Fatalf("expected exposure entries only for occupied voxels, got %d", len(exposures))
			}

			// Both voxels are singleton runs along x.
			if e := exposures[near]; e.X != 2 {
				t.Errorf("near voxel: expected 2 x faces, got %d", e.X)
			}
			if e := exposures[far]; e.X != 2 {
				t.Errorf("far voxel: expected 2 x faces, got %d", e.X)
			}
		})
	}
}

// TestScanColumnRunInvariant verifies that per column the face-count
// sum equals twice the number of maximal contiguous runs.
func TestScanColumnRunInvariant(t *testing.T) {
	testCases := []struct {
		name   string
		coords []int
		runs   int
	}{
		{"single voxel", []int{4}, 1},
		{"one run", []int{1, 2, 3, 4}, 1},
		{"two runs", []int{1, 2, 5, 6}, 2},
		{"three runs", []int{1, 3, 7, 8, 9}, 3},
		{"all singletons", []int{1, 5, 9, 20}, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var voxels []models.Voxel
			for _, c := range tc.coords {
				voxels = append(voxels, models.Voxel{X: c, Y: 1, Z: 1})
			}
			grid := gridFromVoxels(voxels...)

			exposures := Scan(grid)

			sum := 0
			for _, v := range voxels {
				sum += exposures[v].X
			}
			if sum != 2*tc.runs {
				t.Errorf("expected x face sum %d for %d runs, got %d", 2*tc.runs, tc.runs, sum)
			}
		})
	}
}

// TestScanAxesIndependent verifies each axis is classified from its
// own columns: a flat 2x2 plate at z=1 is continuous laterally but
// fully exposed axially.
func TestScanAxesIndependent(t *testing.T) {
	grid := gridFromVoxels(
		models.Voxel{X: 1, Y: 1, Z: 1},
		models.Voxel{X: 2, Y: 1, Z: 1},
		models.Voxel{X: 1, Y: 2, Z: 1},
		models.Voxel{X: 2, Y: 2, Z: 1},
	)

	exposures := Scan(grid)
	for v, e := range exposures {
		if e.X != 1 || e.Y != 1 {
			t.Errorf("voxel %v: expected lateral faces (1,1), got (%d,%d)", v, e.X, e.Y)
		}
		if e.Z != 2 {
			t.Errorf("voxel %v: expected 2 z faces, got %d", v, e.Z)
		}
	}
}

// TestScanCuboidCore verifies the dense cuboid property: an a x b x c
// block (a,b,c >= 3) has (a-2)(b-2)(c-2) core voxels.
func TestScanCuboidCore(t *testing.T) {
	testCases := []struct {
		name    string
		a, b, c int
	}{
		{"3x3x3", 3, 3, 3},
		{"4x3x5", 4, 3, 5},
		{"5x5x5", 5, 5, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var voxels []models.Voxel
			for x := 1; x <= tc.a; x++ {
				for y := 1; y <= tc.b; y++ {
					for z := 1; z <= tc.c; z++ {
						voxels = append(voxels, models.Voxel{X: x, Y: y, Z: z})
					}
				}
			}
			grid := gridFromVoxels(voxels...)

			exposures := Scan(grid)

			core := 0
			for _, e := range exposures {
				if e.TotalFaces() == 0 {
					core++
				}
			}

			wantCore := (tc.a - 2) * (tc.b - 2) * (tc.c - 2)
			if core != wantCore {
				t.Errorf("expected %d core voxels, got %d", wantCore, core)
			}
			if surface := len(voxels) - core; surface != len(exposures)-wantCore {
				t.Errorf("surface count mismatch: %d vs %d", surface, len(exposures)-wantCore)
			}
		})
	}
}

// TestScanIdempotent verifies that re-scanning an already
// origin-normalized grid yields identical output.
func TestScanIdempotent(t *testing.T) {
	points := []models.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 20, Y: 0, Z: 0},
		{X: 20, Y: 35, Z: 0},
	}

	grid, err := Build(points, 15, 15)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	first := Scan(grid)
	second := Scan(grid)

	if len(first) != len(second) {
		t.Fatalf("exposure map sizes differ: %d vs %d", len(first), len(second))
	}
	for v, e := range first {
		if second[v] != e {
			t.Errorf("voxel %v: first scan %v, second scan %v", v, e, second[v])
		}
	}
}

// TestScanKnownExample pins the worked end-to-end example: the two
// voxels from the 15 nm binning of three collinear points are both
// boundary voxels with one exposed x face and two on y and z.
func TestScanKnownExample(t *testing.T) {
	points := []models.Point{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 20, Y: 0, Z: 0},
	}

	grid, err := Build(points, 15, 15)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	exposures := Scan(grid)
	if len(exposures) != 2 {
		t.Fatalf("expected 2 voxels, got %d", len(exposures))
	}

	for v, e := range exposures {
		if e.X != 1 || e.Y != 2 || e.Z != 2 {
			t.Errorf("voxel %v: expected faces (1,2,2), got (%d,%d,%d)", v, e.X, e.Y, e.Z)
		}
		if e.TotalFaces() == 0 {
			t.Errorf("voxel %v misclassified as core", v)
		}
	}
}
