package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/charts"
	"github.com/KaramelBytes/vgdash/internal/server"
)

var (
	srvAddr  string
	srvCache bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newServer()
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = srvAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Dashboard on http://%s\n", addr)
		return srv.Run(ctx, addr,
			time.Duration(cfg.ReadTimeoutSec)*time.Second,
			time.Duration(cfg.WriteTimeoutSec)*time.Second,
		)
	},
}

// newServer builds the dashboard server from the loaded configuration.
func newServer() (*server.Server, error) {
	pol, err := analysis.ParsePolicy(cfg.DistributionPolicy)
	if err != nil {
		return nil, err
	}
	var src server.Source = server.FileSource{Path: cfg.DataPath}
	cache := cfg.CacheDataset || srvCache
	if cache {
		src = server.NewCachedSource(src)
	}
	slog.Info("dashboard configured",
		slog.String("data_path", cfg.DataPath),
		slog.String("policy", string(pol)),
		slog.Bool("cache", cache),
	)
	return server.New(src, server.Options{
		Policy:       pol,
		TopN:         cfg.TopN,
		SampleRows:   cfg.SampleRows,
		ChartSize:    charts.Size{Width: cfg.ChartWidth, Height: cfg.ChartHeight},
		IntroImage:   cfg.IntroImage,
		MissingImage: cfg.MissingImage,
	}, slog.Default())
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&srvCache, "cache", false, "reuse the first successful dataset load")
}
