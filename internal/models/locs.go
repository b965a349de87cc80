package models

// Localization represents a single super-resolution localization event
// as stored in a Picasso-style localization table. The x and y
// coordinates are in camera pixels until converted to nanometers; z is
// already in nanometers.
type Localization struct {
	// Frame is the acquisition frame the event was detected in
	Frame int

	// X and Y are the lateral coordinates in camera pixels
	X float64
	Y float64

	// Z is the axial coordinate in nanometers
	Z float64

	// LpX and LpY are the lateral localization precisions in camera pixels
	LpX float64
	LpY float64

	// Photons is the photon count of the event
	Photons float64

	// ID is the decode/segmentation label assigned upstream.
	// Unassigned events carry -1 and are dropped before analysis.
	ID int

	// Sub is the density-based subgroup label within the cluster
	// (the hdbscan column of the original table)
	Sub int
}

// Point is a physical-space 3D coordinate in nanometers.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Cluster is a named group of points sharing a decode label.
// It is formed upstream by clustering and consumed read-only here.
type Cluster struct {
	// ID is the decode label shared by all points of the cluster
	ID int

	// Points are the raw nanometer-space coordinates
	Points []Point

	// Subgroups holds the points split by their density subgroup label.
	// Each subgroup is voxelized independently so that spatially
	// distant subgroups never share one origin-normalized grid.
	Subgroups [][]Point
}
