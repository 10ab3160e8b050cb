package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/vgdash/internal/analysis"
	"github.com/KaramelBytes/vgdash/internal/charts"
	"github.com/KaramelBytes/vgdash/internal/dashboard"
	"github.com/KaramelBytes/vgdash/internal/dataset"
	apperr "github.com/KaramelBytes/vgdash/internal/errors"
)

const heatmapTitle = "Correlation Heatmap for Sales Data"

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type datasetResponse struct {
	Source   string                       `json:"source"`
	Rows     int                          `json:"rows"`
	Kept     int                          `json:"kept"`
	Dropped  int                          `json:"dropped"`
	Missing  map[dataset.Column]int       `json:"missing"`
	Columns  []dataset.Column             `json:"columns"`
	Head     []dataset.Record             `json:"head"`
	Describe []analysis.ColumnDescription `json:"describe"`
}

// statusFor maps an error code to its HTTP status.
func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.CodeDataUnavailable:
		return http.StatusServiceUnavailable
	case apperr.CodeInvalidInput:
		return http.StatusBadRequest
	case apperr.CodeEmptyDataset:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Code: apperr.GetCode(err), Message: err.Error()})
}

func (s *Server) load(ctx context.Context) (*dataset.Dataset, *dataset.Profile, error) {
	ds, prof, err := s.src.Load(ctx)
	s.metrics.observeLoad(err)
	if err != nil {
		return nil, nil, err
	}
	return ds, prof, nil
}

func (s *Server) dashboardOptions() dashboard.Options {
	return dashboard.Options{TopN: s.opt.TopN, SampleRows: s.opt.SampleRows}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	p, err := dashboard.ParseParams(r.URL.Query(), s.opt.Policy)
	if err != nil {
		pg := dashboard.NewPage(dashboard.Params{
			Section: dashboard.Introduction, Region: analysis.Global,
			Category: dataset.NASales, Policy: s.opt.Policy,
		})
		pg.Notice = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, pg)
		return
	}

	pg := dashboard.NewPage(p)
	status := http.StatusOK
	if p.Section.NeedsData() {
		ds, prof, err := s.load(r.Context())
		if err != nil {
			s.logger.WarnContext(r.Context(), "dataset unavailable",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("error", err.Error()),
			)
			pg.Notice = "The dataset could not be loaded: " + err.Error()
			status = statusFor(err)
		} else if pg, err = dashboard.Build(ds, prof, p, s.dashboardOptions()); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	s.renderPage(w, r, status, pg)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, pg *dashboard.Page) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, pg); err != nil {
		s.writeError(w, r, apperr.Wrap(err, "render page"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", s.opt.SampleRows)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, prof, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := datasetResponse{
		Source:   ds.Source(),
		Rows:     ds.Len(),
		Kept:     ds.Len(),
		Missing:  map[dataset.Column]int{},
		Columns:  dataset.Columns,
		Head:     ds.Head(n),
		Describe: analysis.Describe(ds),
	}
	if resp.Head == nil {
		resp.Head = []dataset.Record{}
	}
	if prof != nil {
		resp.Rows = prof.TotalRows
		resp.Dropped = prof.DroppedRows
		resp.Missing = prof.Missing
	}
	render.JSON(w, r, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	col, err := columnParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := analysis.Summarize(ds, col)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, sum)
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	col, err := columnParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pol, err := s.policyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := analysis.Distribute(ds, col, pol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, d)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, analysis.Correlate(ds))
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	region, err := analysis.ParseRegion(chi.URLParam(r, "region"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := intParam(r, "n", s.opt.TopN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	top, err := analysis.TopByRegion(ds, region, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, top)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	pol, err := s.policyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, prof, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rep, err := analysis.BuildReport(ds, prof, analysis.Options{Policy: pol, TopN: s.opt.TopN, SampleRows: s.opt.SampleRows})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "md" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(rep.Markdown()))
		return
	}
	render.JSON(w, r, rep)
}

// writePNG buffers the image; a failed draw is answered with a JSON error.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDistributionChart(w http.ResponseWriter, r *http.Request) {
	col, err := dashboard.ParseCategory(r.URL.Query().Get("category"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pol, err := s.policyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	d, err := analysis.Distribute(ds, col, pol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, func(buf *bytes.Buffer) error {
		return charts.Distribution(buf, d, dashboard.DistributionTitle(col, pol), s.opt.ChartSize)
	})
}

func (s *Server) handleHeatmapChart(w http.ResponseWriter, r *http.Request) {
	ds, _, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m := analysis.Correlate(ds)
	s.writePNG(w, r, func(buf *bytes.Buffer) error {
		return charts.Heatmap(buf, m, heatmapTitle, s.opt.ChartSize)
	})
}

func (s *Server) regionTop(r *http.Request) (analysis.Region, analysis.TopNSelection, error) {
	region, err := dashboard.ParseRegionOrDefault(r.URL.Query().Get("region"))
	if err != nil {
		return "", analysis.TopNSelection{}, err
	}
	ds, _, err := s.load(r.Context())
	if err != nil {
		return "", analysis.TopNSelection{}, err
	}
	top, err := analysis.TopByRegion(ds, region, s.opt.TopN)
	return region, top, err
}

func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	region, top, err := s.regionTop(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, func(buf *bytes.Buffer) error {
		return charts.Pie(buf, top, dashboard.PieTitle(region, s.opt.TopN), s.opt.ChartSize)
	})
}

func (s *Server) handleTopChart(w http.ResponseWriter, r *http.Request) {
	region, top, err := s.regionTop(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, func(buf *bytes.Buffer) error {
		return charts.TopBar(buf, top, dashboard.PieTitle(region, s.opt.TopN), s.opt.ChartSize)
	})
}

func (s *Server) handleMissingChart(w http.ResponseWriter, r *http.Request) {
	_, prof, err := s.load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, func(buf *bytes.Buffer) error {
		return charts.MissingMatrix(buf, prof, "Missing Data Matrix", s.opt.ChartSize)
	})
}

func (s *Server) handleIntroAsset(w http.ResponseWriter, r *http.Request) {
	if s.opt.IntroImage == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.opt.IntroImage)
}

// handleMissingAsset serves the configured image, or draws the matrix
// from the loader's profile when none is configured.
func (s *Server) handleMissingAsset(w http.ResponseWriter, r *http.Request) {
	if s.opt.MissingImage != "" {
		http.ServeFile(w, r, s.opt.MissingImage)
		return
	}
	s.handleMissingChart(w, r)
}

func columnParam(r *http.Request) (dataset.Column, error) {
	raw := chi.URLParam(r, "column")
	col, ok := dataset.ParseColumn(raw)
	if !ok {
		return "", apperr.InvalidInput("unknown column %q", raw)
	}
	return col, nil
}

func (s *Server) policyParam(r *http.Request) (analysis.Policy, error) {
	v := r.URL.Query().Get("policy")
	if v == "" {
		return s.opt.Policy, nil
	}
	return analysis.ParsePolicy(v)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.InvalidInput("%s must be an integer, got %q", name, v)
	}
	return n, nil
}
