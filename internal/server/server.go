// Package server serves the dashboard page, its JSON API and chart images.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/charts"
	"github.com/KaramelBytes/vgdash/internal/dashboard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configure rendering.
type Options struct {
	Policy       analysis.Policy
	TopN         int
	SampleRows   int
	ChartSize    charts.Size
	IntroImage   string
	MissingImage string
}

// Server renders the dashboard from a dataset Source.
type Server struct {
	src     Source
	opt     Options
	logger  *slog.Logger
	metrics *Metrics
	page    *template.Template
	router  chi.Router
}

// New builds a server with its routes mounted.
func New(src Source, opt Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opt.Policy == "" {
		opt.Policy = analysis.PolicyFrequency
	}
	if opt.TopN <= 0 {
		opt.TopN = analysis.DefaultTopN
	}
	page, err := template.New("page.html").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s := &Server{
		src:     src,
		opt:     opt,
		logger:  logger.With(slog.String("component", "server")),
		metrics: NewMetrics(),
		page:    page,
	}
	s.router = s.routes()
	return s, nil
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/", s.handlePage)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", s.handleDataset)
		r.Get("/stats/{column}", s.handleStats)
		r.Get("/distribution/{column}", s.handleDistribution)
		r.Get("/correlation", s.handleCorrelation)
		r.Get("/top/{region}", s.handleTop)
		r.Get("/report", s.handleReport)
	})

	r.Route("/charts", func(r chi.Router) {
		r.Get("/distribution.png", s.handleDistributionChart)
		r.Get("/heatmap.png", s.handleHeatmapChart)
		r.Get("/pie.png", s.handlePieChart)
		r.Get("/top.png", s.handleTopChart)
		r.Get("/missing.png", s.handleMissingChart)
	})

	r.Get(dashboard.IntroAssetPath, s.handleIntroAsset)
	r.Get(dashboard.MissingAssetPath, s.handleMissingAsset)
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs each completed request with chi's request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.InfoContext(r.Context(), "request completed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
