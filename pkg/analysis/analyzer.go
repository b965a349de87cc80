// Package analysis orchestrates the batch pipeline: it reads
// localization files, groups them into clusters, runs the voxel shape
// analysis on parallel workers, and writes the tabular report.
package analysis

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"voxelshape/internal/models"
	"voxelshape/pkg/locsio"
	"voxelshape/pkg/shape"
	"voxelshape/pkg/sweep"
)

// Mode selects the analysis performed per cluster.
type Mode int

const (
	// ModeShape computes a ShapeSummary at one fixed bin resolution
	ModeShape Mode = iota

	// ModeSweep computes a CompactnessCurve over a bin-size sweep
	ModeSweep
)

// Params holds the batch configuration.
type Params struct {
	// InputDir is the directory containing localization CSV files
	InputDir string

	// OutputFile is the path of the report CSV
	OutputFile string

	// NumWorkers is the number of parallel cluster workers
	NumWorkers int

	// PixelSize is the camera pixel size in nanometers
	PixelSize float64

	// BinXY and BinZ are the fixed-resolution bin sizes in nanometers
	// (ModeShape only)
	BinXY float64
	BinZ  float64

	// Cutoff drops clusters with fewer localizations
	Cutoff int

	// BinMin, BinMax, BinStep define the half-open sweep range in
	// nanometers (ModeSweep only)
	BinMin  int
	BinMax  int
	BinStep int

	// Mode selects fixed-resolution or multi-scale analysis
	Mode Mode

	// Clean holds the localization quality filters
	Clean locsio.CleanOptions
}

// Analyzer runs the batch analysis over a directory of localization
// files. The per-cluster computations are independent, so clusters
// are distributed over worker goroutines with no shared mutable
// state; each worker owns its grids and exposure maps exclusively.
type Analyzer struct {
	// params stores the batch configuration
	params *Params

	// reports collects the fixed-resolution records (ModeShape)
	reports []models.ClusterReport

	// curves collects the sweep records (ModeSweep)
	curves []models.ClusterCurve
}

// NewAnalyzer creates an analyzer for the given configuration.
func NewAnalyzer(params *Params) *Analyzer {
	return &Analyzer{params: params}
}

// Process runs the complete batch pipeline.
func (a *Analyzer) Process() error {
	if a.params.NumWorkers < 1 {
		return fmt.Errorf("invalid worker count %d", a.params.NumWorkers)
	}
	if a.params.Mode == ModeSweep {
		// Reject malformed sweep bounds before touching any file.
		if a.params.BinMax <= a.params.BinMin || a.params.BinStep <= 0 {
			return fmt.Errorf("%w: [%d, %d) step %d", sweep.ErrInvalidRange,
				a.params.BinMin, a.params.BinMax, a.params.BinStep)
		}
	}

	// Step 1: Discover localization files
	fmt.Println("Step 1: Discovering localization files...")
	files, err := locsio.ListLocsFiles(a.params.InputDir)
	if err != nil {
		return fmt.Errorf("failed to list localization files: %w", err)
	}
	fmt.Printf("Found %d localization files\n", len(files))

	// Step 2: Analyze each file
	fmt.Println("Step 2: Analyzing clusters...")
	for _, file := range files {
		fmt.Println("Analyzing..." + file)
		if err := a.analyzeFile(file); err != nil {
			return fmt.Errorf("failed to analyze %s: %w", file, err)
		}
	}

	// Step 3: Normalize centers of mass per file (fixed-resolution
	// mode records cluster positions relative to the file's mean COM)
	if a.params.Mode == ModeShape {
		fmt.Println("Step 3: Normalizing centers of mass...")
		a.normalizeCOMs()
	}

	// Step 4: Write the report
	fmt.Println("Step 4: Writing report...")
	if err := a.writeReport(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}

// analyzeFile reads one localization file and analyzes its clusters
// on parallel workers.
func (a *Analyzer) analyzeFile(file string) error {
	locs, err := locsio.ReadLocalizations(filepath.Join(a.params.InputDir, file))
	if err != nil {
		return err
	}

	locs = locsio.Clean(locs, a.params.Clean)
	clusters := locsio.GroupClusters(locs, a.params.PixelSize)

	// Apply the localization-count cutoff before spawning workers.
	kept := clusters[:0]
	for _, c := range clusters {
		if len(c.Points) >= a.params.Cutoff {
			kept = append(kept, c)
		}
	}
	clusters = kept

	if len(clusters) == 0 {
		fmt.Printf("Warning: no clusters above cutoff %d in %s\n", a.params.Cutoff, file)
		return nil
	}

	status := locsio.Status(file)

	switch a.params.Mode {
	case ModeShape:
		reports, err := runWorkers(clusters, a.params.NumWorkers, func(c models.Cluster) (models.ClusterReport, error) {
			return a.analyzeClusterShape(file, status, c)
		})
		if err != nil {
			return err
		}
		a.reports = append(a.reports, reports...)

	case ModeSweep:
		curves, err := runWorkers(clusters, a.params.NumWorkers, func(c models.Cluster) (models.ClusterCurve, error) {
			return a.analyzeClusterSweep(file, status, c)
		})
		if err != nil {
			return err
		}
		a.curves = append(a.curves, curves...)
	}

	fmt.Printf("Analyzed %d clusters in %s\n", len(clusters), file)
	return nil
}

// runWorkers distributes the clusters over numWorkers goroutines,
// each writing its results into a disjoint index range, so no locking
// is needed on the result slice.
func runWorkers[T any](clusters []models.Cluster, numWorkers int, analyze func(models.Cluster) (T, error)) ([]T, error) {
	results := make([]T, len(clusters))
	errs := make([]error, numWorkers)

	perWorker := (len(clusters) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > len(clusters) {
			end = len(clusters)
		}
		if start >= len(clusters) {
			break
		}

		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				res, err := analyze(clusters[i])
				if err != nil {
					errs[workerID] = fmt.Errorf("cluster %d: %w", clusters[i].ID, err)
					return
				}
				results[i] = res
			}
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// analyzeClusterShape computes the fixed-resolution record of one
// cluster: voxel summary per subgroup, center of mass, and radius of
// gyration over the raw points.
func (a *Analyzer) analyzeClusterShape(file, status string, cluster models.Cluster) (models.ClusterReport, error) {
	summary, err := shape.AggregateGroups(cluster.Subgroups, a.params.BinXY, a.params.BinZ)
	if err != nil {
		return models.ClusterReport{}, err
	}

	com, err := shape.CenterOfMass(cluster.Points)
	if err != nil {
		return models.ClusterReport{}, err
	}
	rg, err := shape.RadiusOfGyration(cluster.Points, com)
	if err != nil {
		return models.ClusterReport{}, err
	}

	report := models.ClusterReport{
		File:      file,
		Status:    status,
		ID:        cluster.ID,
		TotalLocs: len(cluster.Points),
		Subgroups: len(cluster.Subgroups),
		COM:       com,
		Shape:     summary,
		Rg:        rg,
	}

	// Degenerate ratios are recorded as unavailable, not as zeros.
	if stov, err := shape.SToV(summary); err == nil {
		report.SToV = stov
		report.SToVValid = true
	} else if !errors.Is(err, shape.ErrUndefinedRatio) {
		return models.ClusterReport{}, err
	}

	if summary.Volume > 0 {
		// Localization density in events per cubic micrometer.
		report.Density = float64(report.TotalLocs) / summary.Volume * 1e9
	}

	return report, nil
}

// analyzeClusterSweep computes the multi-scale record of one cluster.
// A failed sigmoid fit leaves the curve without parameters and is
// reported, not fatal.
func (a *Analyzer) analyzeClusterSweep(file, status string, cluster models.Cluster) (models.ClusterCurve, error) {
	curve, err := sweep.Sweep(cluster.Points, a.params.BinMin, a.params.BinMax, a.params.BinStep)
	if err != nil {
		return models.ClusterCurve{}, err
	}

	if curve.Fit == nil {
		fmt.Printf("Warning: sigmoid fit unavailable for cluster %d in %s\n", cluster.ID, file)
	}

	return models.ClusterCurve{
		File:      file,
		Status:    status,
		ID:        cluster.ID,
		TotalLocs: len(cluster.Points),
		Subgroups: len(cluster.Subgroups),
		Curve:     *curve,
	}, nil
}

// normalizeCOMs computes each file's mean center of mass and records
// every cluster's position relative to it.
func (a *Analyzer) normalizeCOMs() {
	type comSum struct {
		sum   models.Point
		count int
	}
	byFile := make(map[string]*comSum)

	for _, r := range a.reports {
		s, ok := byFile[r.File]
		if !ok {
			s = &comSum{}
			byFile[r.File] = s
		}
		s.sum.X += r.COM.X
		s.sum.Y += r.COM.Y
		s.sum.Z += r.COM.Z
		s.count++
	}

	for i := range a.reports {
		r := &a.reports[i]
		s := byFile[r.File]

		r.GlobalCOM = models.Point{
			X: s.sum.X / float64(s.count),
			Y: s.sum.Y / float64(s.count),
			Z: s.sum.Z / float64(s.count),
		}
		r.RelCOM = models.Point{
			X: r.COM.X - r.GlobalCOM.X,
			Y: r.COM.Y - r.GlobalCOM.Y,
			Z: r.COM.Z - r.GlobalCOM.Z,
		}
		r.Distance = math.Sqrt(r.RelCOM.X*r.RelCOM.X + r.RelCOM.Y*r.RelCOM.Y + r.RelCOM.Z*r.RelCOM.Z)
	}
}

// writeReport serializes the collected records.
func (a *Analyzer) writeReport() error {
	switch a.params.Mode {
	case ModeSweep:
		return locsio.WriteSweepReport(a.params.OutputFile, a.curves)
	default:
		return locsio.WriteShapeReport(a.params.OutputFile, a.reports)
	}
}

// Reports returns the fixed-resolution records collected by Process.
func (a *Analyzer) Reports() []models.ClusterReport {
	return a.reports
}

// Curves returns the sweep records collected by Process.
func (a *Analyzer) Curves() []models.ClusterCurve {
	return a.curves
}
