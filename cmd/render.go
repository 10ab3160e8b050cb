package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/charts"
	"github.com/KaramelBytes/vgdash/internal/dashboard"
	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
	"github.com/KaramelBytes/vgdash/internal/utils"
)

var (
	rndOutDir string
	rndJobs   int
	rndPolicy string
)

// chartJob draws one PNG file.
type chartJob struct {
	file string
	draw func(io.Writer) error
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Write every dashboard chart as a PNG file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.DataPath
		if len(args) == 1 {
			path = args[0]
		}
		pol := cfg.DistributionPolicy
		if cmd.Flags().Changed("policy") {
			pol = rndPolicy
		}
		policy, err := analysis.ParsePolicy(pol)
		if err != nil {
			return err
		}

		ds, prof, err := dataset.Load(cmd.Context(), path)
		if err != nil {
			return err
		}
		jobs, err := chartJobs(ds, prof, policy, cfg.TopN, charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight})
		if err != nil {
			return err
		}

		limit := rndJobs
		if limit <= 0 {
			limit = runtime.NumCPU()
		}
		written, skipped, err := renderAll(cmd, jobs, rndOutDir, limit)
		if err != nil {
			return err
		}
		for _, f := range skipped {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Skipped %s: no data\n", f)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d charts to %s\n", len(written), rndOutDir)
		return nil
	},
}

// chartJobs lists every chart the dashboard shows.
func chartJobs(ds *dataset.Dataset, prof *dataset.Profile, policy analysis.Policy, topN int, size charts.Size) ([]chartJob, error) {
	var jobs []chartJob
	for _, col := range dataset.SalesColumns {
		d, err := analysis.Distribute(ds, col, policy)
		if err != nil {
			return nil, err
		}
		title := dashboard.DistributionTitle(col, policy)
		jobs = append(jobs, chartJob{
			file: "distribution_" + strings.ToLower(string(col)) + ".png",
			draw: func(w io.Writer) error { return charts.Distribution(w, d, title, size) },
		})
	}

	corr := analysis.Correlate(ds)
	jobs = append(jobs, chartJob{
		file: "heatmap.png",
		draw: func(w io.Writer) error { return charts.Heatmap(w, corr, "Correlation Heatmap for Sales Data", size) },
	})

	for _, r := range analysis.Regions {
		top, err := analysis.TopByRegion(ds, r, topN)
		if err != nil {
			return nil, err
		}
		title := dashboard.PieTitle(r, topN)
		suffix := strings.ToLower(string(r.Column())) + ".png"
		jobs = append(jobs,
			chartJob{
				file: "pie_" + suffix,
				draw: func(w io.Writer) error { return charts.Pie(w, top, title, size) },
			},
			chartJob{
				file: "top_" + suffix,
				draw: func(w io.Writer) error { return charts.TopBar(w, top, title, size) },
			},
		)
	}

	jobs = append(jobs, chartJob{
		file: "missing.png",
		draw: func(w io.Writer) error { return charts.MissingMatrix(w, prof, "Missing Data Matrix", size) },
	})
	return jobs, nil
}

// renderAll runs jobs with at most limit in flight. Charts without data are
// reported as skipped; any other failure cancels the rest.
func renderAll(cmd *cobra.Command, jobs []chartJob, outDir string, limit int) (written, skipped []string, err error) {
	if err := utils.EnsureDir(outDir); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(limit)

	var mu sync.Mutex
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := job.draw(&buf); err != nil {
				if errors.Is(err, charts.ErrNoData) {
					mu.Lock()
					skipped = append(skipped, job.file)
					mu.Unlock()
					return nil
				}
				return apperr.Wrapf(err, "render %s", job.file)
			}
			dst := filepath.Join(outDir, job.file)
			if err := utils.SafeWriteFile(dst, buf.Bytes()); err != nil {
				return fmt.Errorf("%s: %w", job.file, err)
			}
			slog.Debug("chart written", slog.String("file", dst), slog.Int("bytes", buf.Len()))
			mu.Lock()
			written = append(written, job.file)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	sort.Strings(written)
	sort.Strings(skipped)
	return written, skipped, nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&rndOutDir, "out", "o", "charts", "output directory")
	renderCmd.Flags().IntVarP(&rndJobs, "jobs", "j", 0, "charts rendered concurrently (default: number of CPUs)")
	renderCmd.Flags().StringVar(&rndPolicy, "policy", "", "distribution policy: frequency | top10 (overrides config)")
}
