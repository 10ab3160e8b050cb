package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/dataset"
	"github.com/KaramelBytes/vgdash/internal/utils"
)

var (
	anaOutputPath string
	anaXLSXPath   string
	anaFormat     string
	anaPolicy     string
	anaTopN       int
	anaSampleRows int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run every analysis stage and print a report",
	Long:  `Load the dataset, run the summarizer, distribution builder, correlation engine and top-N selector, and print the result as Markdown (default) or JSON. Optionally export the tables to an XLSX workbook.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.DataPath
		if len(args) == 1 {
			path = args[0]
		}
		opt, err := analyzeOptions(cmd)
		if err != nil {
			return err
		}

		ds, prof, err := dataset.Load(cmd.Context(), path)
		if err != nil {
			return err
		}
		slog.Debug("dataset loaded", slog.String("path", path), slog.Int("rows", prof.TotalRows), slog.Int("kept", ds.Len()))

		rep, err := analysis.BuildReport(ds, prof, opt)
		if err != nil {
			return err
		}

		var out []byte
		switch strings.ToLower(anaFormat) {
		case "", "md", "markdown":
			out = []byte(rep.Markdown())
		case "json":
			if out, err = utils.PrettyJSON(rep); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported --format: %s (use md or json)", anaFormat)
		}

		if anaXLSXPath != "" {
			if err := rep.WriteXLSX(anaXLSXPath); err != nil {
				return fmt.Errorf("export xlsx: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported workbook to %s\n", anaXLSXPath)
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// analyzeOptions merges flags over the loaded configuration.
func analyzeOptions(cmd *cobra.Command) (analysis.Options, error) {
	opt := analysis.DefaultOptions()
	opt.TopN = cfg.TopN
	opt.SampleRows = cfg.SampleRows
	pol := cfg.DistributionPolicy
	if cmd.Flags().Changed("policy") {
		pol = anaPolicy
	}
	p, err := analysis.ParsePolicy(pol)
	if err != nil {
		return opt, err
	}
	opt.Policy = p
	if cmd.Flags().Changed("top") {
		if anaTopN <= 0 {
			return opt, fmt.Errorf("--top must be positive, got %d", anaTopN)
		}
		opt.TopN = anaTopN
	}
	if cmd.Flags().Changed("sample-rows") {
		opt.SampleRows = anaSampleRows
	}
	return opt, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "optional path to export the tables as an XLSX workbook")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "md", "report format: md | json")
	analyzeCmd.Flags().StringVar(&anaPolicy, "policy", "", "distribution policy: frequency | top10 (overrides config)")
	analyzeCmd.Flags().IntVar(&anaTopN, "top", 0, "entries per regional ranking (overrides config)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 0, "number of head/sample rows to include (overrides config)")
}
