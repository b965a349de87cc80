package models

// Voxel is an integer lattice coordinate. A voxel is occupied if at
// least one localization maps into it after binning.
type Voxel struct {
	// X and Y are the lateral lattice coordinates
	X int
	Y int

	// Z is the axial lattice coordinate
	Z int
}

// FaceExposure counts the exposed faces of an occupied voxel per axis.
// Each count is in {0, 1, 2}: 0 means both faces on that axis touch an
// occupied neighbor, 2 means the voxel is isolated along that axis.
type FaceExposure struct {
	X int
	Y int
	Z int
}

// XYFaces returns the combined lateral face count.
func (f FaceExposure) XYFaces() int {
	return f.X + f.Y
}

// TotalFaces returns the exposed face count over all three axes.
// A voxel with a zero total is a core voxel; anything else is surface.
func (f FaceExposure) TotalFaces() int {
	return f.X + f.Y + f.Z
}

// ShapeSummary aggregates the face scan of one cluster.
type ShapeSummary struct {
	// TotalVoxels is the number of occupied voxels
	TotalVoxels int

	// SurfaceVoxels is the number of voxels with at least one exposed face
	SurfaceVoxels int

	// XYFaces is the total exposed lateral face count
	XYFaces int

	// ZFaces is the total exposed axial face count
	ZFaces int

	// Volume is the occupied volume in cubic nanometers
	Volume float64

	// SurfaceArea is the exposed surface area in square nanometers
	SurfaceArea float64
}

// SigmoidParams holds the fitted parameters of the compactness model
// L / (1 + exp(-k*(x - x0))).
type SigmoidParams struct {
	L  float64
	X0 float64
	K  float64
}

// CurveSample is one point of a compactness curve: the shape
// descriptors of a cluster voxelized at a single bin size.
type CurveSample struct {
	// Bin is the voxel edge length in nanometers (cubic bins)
	Bin int

	// Volume is the occupied volume in cubic nanometers
	Volume float64

	// Surface is the exposed surface area in square nanometers
	Surface float64

	// SToV is the dimensionless surface-to-volume ratio. It is
	// undefined when the volume is zero; Valid reports availability.
	SToV      float64
	SToVValid bool

	// CoreRatio is the core voxel fraction. Undefined when the grid
	// is empty; CoreValid reports availability.
	CoreRatio float64
	CoreValid bool
}

// CompactnessCurve is the ordered bin-size sweep of one cluster,
// optionally with a fitted sigmoid of core ratio against bin size.
type CompactnessCurve struct {
	// Samples are ordered by ascending bin size
	Samples []CurveSample

	// Fit is nil when the sigmoid fit did not converge
	Fit *SigmoidParams
}

// ClusterReport is the fixed-resolution shape record of one cluster,
// one row of the analysis report.
type ClusterReport struct {
	// File is the localization file the cluster came from
	File string

	// Status is the condition extracted from the file name
	Status string

	// ID is the decode label of the cluster
	ID int

	// TotalLocs is the number of localizations in the cluster
	TotalLocs int

	// Subgroups is the number of density subgroups within the cluster
	Subgroups int

	// COM is the center of mass of the raw points
	COM Point

	// GlobalCOM is the mean center of mass over all clusters of the file
	GlobalCOM Point

	// RelCOM is COM relative to GlobalCOM
	RelCOM Point

	// Distance is the Euclidean length of RelCOM
	Distance float64

	// Shape holds the aggregated voxel counts and physical measures
	Shape ShapeSummary

	// SToV is the dimensionless surface-to-volume ratio; SToVValid is
	// false when the volume is zero and the ratio is not computable.
	SToV      float64
	SToVValid bool

	// Rg is the radius of gyration of the raw points
	Rg float64

	// Density is the localization density in events per cubic micrometer
	Density float64
}

// ClusterCurve is the multi-scale sweep record of one cluster.
type ClusterCurve struct {
	// File is the localization file the cluster came from
	File string

	// Status is the condition extracted from the file name
	Status string

	// ID is the decode label of the cluster
	ID int

	// TotalLocs is the number of localizations in the cluster
	TotalLocs int

	// Subgroups is the number of density subgroups within the cluster
	Subgroups int

	// Curve is the compactness curve over the bin-size sweep
	Curve CompactnessCurve
}
