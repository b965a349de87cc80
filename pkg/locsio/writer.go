package locsio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"voxelshape/internal/models"
)

// notComputable marks report cells whose statistic is undefined for
// the cluster (zero volume, failed fit). Degenerate values are never
// written as zeros.
const notComputable = "NA"

// ReportPath builds the default report location inside the input
// directory from the configured postfix and the analysis kind.
func ReportPath(inputDir, postfix string, sweep bool) string {
	kind := "shape"
	if sweep {
		kind = "sweep"
	}
	return filepath.Join(inputDir, fmt.Sprintf("%s_%s.csv", postfix, kind))
}

// WriteShapeReport writes the fixed-resolution analysis report, one
// row per cluster.
func WriteShapeReport(path string, reports []models.ClusterReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"file", "status", "id", "total_locs", "clusters",
		"com_x", "com_y", "com_z",
		"global_com_x", "global_com_y", "global_com_z",
		"rel_com_x", "rel_com_y", "rel_com_z", "distance",
		"total_vox", "total_surf_vox", "vol_vox", "surf_area",
		"s_to_v", "rg", "density",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range reports {
		stov := notComputable
		if r.SToVValid {
			stov = formatFloat(r.SToV)
		}

		row := []string{
			r.File,
			r.Status,
			strconv.Itoa(r.ID),
			strconv.Itoa(r.TotalLocs),
			strconv.Itoa(r.Subgroups),
			formatFloat(r.COM.X), formatFloat(r.COM.Y), formatFloat(r.COM.Z),
			formatFloat(r.GlobalCOM.X), formatFloat(r.GlobalCOM.Y), formatFloat(r.GlobalCOM.Z),
			formatFloat(r.RelCOM.X), formatFloat(r.RelCOM.Y), formatFloat(r.RelCOM.Z),
			formatFloat(r.Distance),
			strconv.Itoa(r.Shape.TotalVoxels),
			strconv.Itoa(r.Shape.SurfaceVoxels),
			formatFloat(r.Shape.Volume),
			formatFloat(r.Shape.SurfaceArea),
			stov,
			formatFloat(r.Rg),
			formatFloat(r.Density),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteSweepReport writes the multi-scale sweep report, one row per
// cluster with the per-bin lists packed into comma-joined cells.
func WriteSweepReport(path string, curves []models.ClusterCurve) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"file", "status", "id", "total_locs", "clusters", "vox_bins",
		"total_vol", "total_surf", "s_to_v", "core_ratios", "sigmoid_params",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, c := range curves {
		var bins, vols, surfs, stovs, cores []string
		for _, s := range c.Curve.Samples {
			bins = append(bins, strconv.Itoa(s.Bin))
			vols = append(vols, formatFloat(s.Volume))
			surfs = append(surfs, formatFloat(s.Surface))

			if s.SToVValid {
				stovs = append(stovs, formatFloat(s.SToV))
			} else {
				stovs = append(stovs, notComputable)
			}
			if s.CoreValid {
				cores = append(cores, formatFloat(s.CoreRatio))
			} else {
				cores = append(cores, notComputable)
			}
		}

		params := notComputable
		if fit := c.Curve.Fit; fit != nil {
			params = strings.Join([]string{
				formatFloat(fit.L), formatFloat(fit.X0), formatFloat(fit.K),
			}, ",")
		}

		row := []string{
			c.File,
			c.Status,
			strconv.Itoa(c.ID),
			strconv.Itoa(c.TotalLocs),
			strconv.Itoa(c.Subgroups),
			strings.Join(bins, ","),
			strings.Join(vols, ","),
			strings.Join(surfs, ","),
			strings.Join(stovs, ","),
			strings.Join(cores, ","),
			params,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// formatFloat renders report floats compactly without trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
