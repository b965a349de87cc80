// Package locsio reads Picasso-style localization tables and writes
// the tabular analysis reports. It is the pipeline's input provider
// and result sink; the geometric core never touches files.
package locsio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"voxelshape/internal/models"
)

// Column defaults applied when the table lacks the optional label
// columns, matching the upstream clustering tools' conventions.
const (
	// MissingID marks tables exported without a decode id column
	MissingID = -999

	// DefaultSub is the subgroup label for tables without one
	DefaultSub = 0
)

// ListLocsFiles returns the localization CSV files in a directory,
// sorted by name so batch reports are stable across runs.
func ListLocsFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, entry.Name())
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no localization CSV files found in %s", dir)
	}

	sort.Strings(files)
	return files, nil
}

// ReadLocalizations parses one localization table. The x and y
// columns are camera pixels, z is nanometers. Columns are located by
// header name; x, y, and z are required, everything else optional.
// Rows without a decode id column get MissingID, rows without a
// subgroup column get DefaultSub.
func ReadLocalizations(path string) ([]models.Localization, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open localization file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, required := range []string{"x", "y", "z"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("localization file %s is missing required column %q", path, required)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %s: %w", path, err)
	}

	locs := make([]models.Localization, 0, len(records))
	for rowIdx, record := range records {
		loc := models.Localization{ID: MissingID, Sub: DefaultSub}

		var parseErr error
		getFloat := func(name string) (float64, bool) {
			idx, ok := cols[name]
			if !ok || idx >= len(record) {
				return 0, false
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				parseErr = fmt.Errorf("row %d: bad %s value %q", rowIdx+2, name, record[idx])
				return 0, false
			}
			return v, true
		}

		loc.X, _ = getFloat("x")
		loc.Y, _ = getFloat("y")
		loc.Z, _ = getFloat("z")
		if v, ok := getFloat("frame"); ok {
			loc.Frame = int(v)
		}
		if v, ok := getFloat("lpx"); ok {
			loc.LpX = v
		}
		if v, ok := getFloat("lpy"); ok {
			loc.LpY = v
		}
		if v, ok := getFloat("photons"); ok {
			loc.Photons = v
		}
		if v, ok := getFloat("id"); ok {
			loc.ID = int(v)
		}
		if v, ok := getFloat("hdbscan"); ok {
			loc.Sub = int(v)
		}

		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}
		locs = append(locs, loc)
	}

	return locs, nil
}

// ToPoints converts localizations to nanometer-space points using the
// camera pixel size for the lateral axes; z is already in nanometers.
func ToPoints(locs []models.Localization, pixelSize float64) []models.Point {
	points := make([]models.Point, len(locs))
	for i, loc := range locs {
		points[i] = models.Point{
			X: loc.X * pixelSize,
			Y: loc.Y * pixelSize,
			Z: loc.Z,
		}
	}
	return points
}

// CleanOptions are the localization quality filters. A zero value for
// a bound disables that filter.
type CleanOptions struct {
	// MaxLp drops events with lateral precision above the bound (px)
	MaxLp float64

	// MinZ and MaxZ bound the axial range (nm)
	MinZ float64
	MaxZ float64

	// MaxPhotons drops abnormally bright events
	MaxPhotons float64
}

// Clean filters out bad localizations before analysis.
func Clean(locs []models.Localization, opts CleanOptions) []models.Localization {
	out := make([]models.Localization, 0, len(locs))
	for _, loc := range locs {
		if opts.MaxLp != 0 && (loc.LpX > opts.MaxLp || loc.LpY > opts.MaxLp) {
			continue
		}
		if opts.MinZ != 0 && loc.Z < opts.MinZ {
			continue
		}
		if opts.MaxZ != 0 && loc.Z > opts.MaxZ {
			continue
		}
		if opts.MaxPhotons != 0 && loc.Photons > opts.MaxPhotons {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// GroupClusters groups localizations by decode id, dropping the
// unassigned id -1, and splits each cluster by its subgroup label.
// Clusters come back ordered by id.
func GroupClusters(locs []models.Localization, pixelSize float64) []models.Cluster {
	byID := make(map[int][]models.Localization)
	for _, loc := range locs {
		if loc.ID == -1 {
			continue
		}
		byID[loc.ID] = append(byID[loc.ID], loc)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	clusters := make([]models.Cluster, 0, len(ids))
	for _, id := range ids {
		group := byID[id]

		bySub := make(map[int][]models.Localization)
		for _, loc := range group {
			bySub[loc.Sub] = append(bySub[loc.Sub], loc)
		}
		subs := make([]int, 0, len(bySub))
		for sub := range bySub {
			subs = append(subs, sub)
		}
		sort.Ints(subs)

		cluster := models.Cluster{
			ID:     id,
			Points: ToPoints(group, pixelSize),
		}
		for _, sub := range subs {
			cluster.Subgroups = append(cluster.Subgroups, ToPoints(bySub[sub], pixelSize))
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}

var dbscanSuffix = regexp.MustCompile(`_dbscan.*`)

// CleanName strips the rendering and processing suffixes that
// accumulate on localization file names.
func CleanName(fileName string) string {
	name := fileName
	for _, suffix := range []string{
		"_render", "_arender", "_linked", "_filtered",
		"_cropped", "_corrected", ".csv", ".hdf5", ".yaml",
	} {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return dbscanSuffix.ReplaceAllString(name, "")
}

// Status extracts the experimental condition from a file name: the
// "xa" token marks the active and "xi" the inactive condition.
func Status(fileName string) string {
	base := CleanName(filepath.Base(fileName))
	for _, token := range strings.Split(base, "_") {
		switch token {
		case "xa":
			return "active"
		case "xi":
			return "inactive"
		}
	}
	return "unknown"
}
