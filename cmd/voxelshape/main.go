package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"voxelshape/pkg/analysis"
	"voxelshape/pkg/config"
	"voxelshape/pkg/locsio"
	"voxelshape/pkg/store"
	"voxelshape/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputDir := flag.String("input", "", "Directory containing localization CSV files")
	outputFile := flag.String("output", "", "Output report CSV (default: <postfix>.csv in the input directory)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	sweepMode := flag.Bool("sweep", false, "Run the multi-scale bin sweep instead of fixed-resolution analysis")
	pixelSize := flag.Float64("pixel", 0, "Camera pixel size in nm (overrides config)")
	binXY := flag.Float64("binxy", 0, "Lateral voxel bin size in nm (overrides config)")
	binZ := flag.Float64("binz", 0, "Axial voxel bin size in nm (overrides config)")
	cutoff := flag.Int("cutoff", -1, "Minimum localizations per cluster (overrides config)")
	binMin := flag.Int("binmin", 0, "Sweep: smallest bin size in nm, inclusive (overrides config)")
	binMax := flag.Int("binmax", 0, "Sweep: bin size upper bound in nm, exclusive (overrides config)")
	binStep := flag.Int("binstep", 0, "Sweep: bin size step in nm (overrides config)")
	numWorkers := flag.Int("workers", 0, "Number of parallel cluster workers (overrides config)")
	plotsDir := flag.String("plots", "", "Directory for compactness-curve plots (sweep mode, overrides config)")
	dbPath := flag.String("db", "", "SQLite results database path (overrides config)")
	flag.Parse()

	// Validate inputs
	if *inputDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	// Load configuration, then apply command line overrides
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *pixelSize > 0 {
		cfg.Processing.PixelSize = *pixelSize
	}
	if *binXY > 0 {
		cfg.Processing.BinXY = *binXY
	}
	if *binZ > 0 {
		cfg.Processing.BinZ = *binZ
	}
	if *cutoff >= 0 {
		cfg.Processing.Cutoff = *cutoff
	}
	if *binMin > 0 {
		cfg.Sweep.BinMin = *binMin
	}
	if *binMax > 0 {
		cfg.Sweep.BinMax = *binMax
	}
	if *binStep > 0 {
		cfg.Sweep.BinStep = *binStep
	}
	if *numWorkers > 0 {
		cfg.Processing.NumWorkers = *numWorkers
	}
	if *plotsDir != "" {
		cfg.Output.PlotsDir = *plotsDir
	}
	if *dbPath != "" {
		cfg.Output.DatabasePath = *dbPath
	}

	mode := analysis.ModeShape
	if *sweepMode {
		mode = analysis.ModeSweep
	}

	reportPath := *outputFile
	if reportPath == "" {
		reportPath = locsio.ReportPath(*inputDir, cfg.Output.Postfix, mode == analysis.ModeSweep)
	}

	fmt.Println("================================")
	fmt.Println("VOXEL SHAPE ANALYSIS OF 3D SINGLE-MOLECULE LOCALIZATION CLUSTERS")
	if mode == analysis.ModeSweep {
		fmt.Printf("Multi-scale sweep: bins [%d, %d) nm, step %d nm\n",
			cfg.Sweep.BinMin, cfg.Sweep.BinMax, cfg.Sweep.BinStep)
	} else {
		fmt.Printf("Fixed resolution: %.0f x %.0f x %.0f nm voxels\n",
			cfg.Processing.BinXY, cfg.Processing.BinXY, cfg.Processing.BinZ)
	}
	fmt.Println("================================")

	// Initialize analysis parameters
	params := &analysis.Params{
		InputDir:   *inputDir,
		OutputFile: reportPath,
		NumWorkers: cfg.Processing.NumWorkers,
		PixelSize:  cfg.Processing.PixelSize,
		BinXY:      cfg.Processing.BinXY,
		BinZ:       cfg.Processing.BinZ,
		Cutoff:     cfg.Processing.Cutoff,
		BinMin:     cfg.Sweep.BinMin,
		BinMax:     cfg.Sweep.BinMax,
		BinStep:    cfg.Sweep.BinStep,
		Mode:       mode,
		Clean: locsio.CleanOptions{
			MaxLp:      cfg.Cleaning.MaxLp,
			MinZ:       cfg.Cleaning.MinZ,
			MaxZ:       cfg.Cleaning.MaxZ,
			MaxPhotons: cfg.Cleaning.MaxPhotons,
		},
	}

	// Run the analysis pipeline
	fmt.Println("Starting cluster analysis with parallel processing...")
	startTime := time.Now()
	analyzer := analysis.NewAnalyzer(params)
	if err := analyzer.Process(); err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	processingTime := time.Since(startTime)

	fmt.Printf("\nAnalysis completed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Report saved to: %s\n", reportPath)
	fmt.Printf("Used %d workers\n", cfg.Processing.NumWorkers)

	// Persist results into the database if configured
	if cfg.Output.DatabasePath != "" {
		if err := persistResults(analyzer, mode, cfg.Output.DatabasePath); err != nil {
			log.Fatalf("Failed to persist results: %v", err)
		}
		fmt.Printf("Results recorded in: %s\n", cfg.Output.DatabasePath)
	}

	// Render compactness-curve plots if configured
	if mode == analysis.ModeSweep && cfg.Output.PlotsDir != "" {
		count, err := visualization.SaveCurvePlots(analyzer.Curves(), cfg.Output.PlotsDir)
		if err != nil {
			log.Fatalf("Failed to render plots: %v", err)
		}
		fmt.Printf("Rendered %d compactness-curve plots to: %s\n", count, cfg.Output.PlotsDir)
	}
}

// persistResults records the collected reports or curves into the
// SQLite results database.
func persistResults(analyzer *analysis.Analyzer, mode analysis.Mode, path string) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if mode == analysis.ModeSweep {
		for _, c := range analyzer.Curves() {
			if _, err := db.RecordCurve(c); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range analyzer.Reports() {
		if _, err := db.RecordSummary(r); err != nil {
			return err
		}
	}
	return nil
}
