// Package server exposes report generation over HTTP.
//
//	GET    /reports                  catalog of registered reports
//	GET    /reports/{title}?mode=... generate; other query values are filters
//	GET    /previews/{id}            stored preview, inline
//	DELETE /previews/{id}            release a preview
//	GET    /metrics                  Prometheus metrics
//	GET    /healthz                  liveness
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	hrdocs "github.com/lvillar/hrdocs"
	"github.com/lvillar/hrdocs/report"
)

// Server serves the reports of an engine.
type Server struct {
	engine   *report.Engine
	previews *PreviewStore
	log      *zap.Logger
	gatherer prometheus.Gatherer
	metrics  *Metrics
	router   *mux.Router
}

// Option configures a Server.
type Option func(*config)

type config struct {
	log        *zap.Logger
	previewTTL time.Duration
	registry   *prometheus.Registry
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithPreviewTTL sets how long unreleased previews are kept.
func WithPreviewTTL(d time.Duration) Option {
	return func(c *config) { c.previewTTL = d }
}

// WithRegistry registers metrics on r instead of a private registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// New returns a server for engine.
func New(engine *report.Engine, opts ...Option) *Server {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	s := &Server{
		engine:   engine,
		previews: NewPreviewStore(cfg.previewTTL),
		log:      cfg.log,
		gatherer: cfg.registry,
	}
	s.metrics = newMetrics(cfg.registry, s.previews)
	s.router = s.routes()
	return s
}

// Previews returns the preview store.
func (s *Server) Previews() *PreviewStore {
	return s.previews
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/reports", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/reports/{title}", s.handleGenerate).Methods(http.MethodGet)
	r.HandleFunc("/previews/{id}", s.handlePreviewGet).Methods(http.MethodGet)
	r.HandleFunc("/previews/{id}", s.handlePreviewDelete).Methods(http.MethodDelete)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// CatalogEntry describes one registered report.
type CatalogEntry struct {
	Title   string `json:"title"`
	Heading string `json:"heading"`
}

// Catalog lists the reports of reg in registration order.
func Catalog(reg *report.Registry) []CatalogEntry {
	mods := reg.Modules()
	out := make([]CatalogEntry, 0, len(mods))
	for _, m := range mods {
		out = append(out, CatalogEntry{Title: m.Title, Heading: m.DisplayHeading()})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Catalog(s.engine.Registry()))
}

// FiltersFromQuery turns query values other than mode into filters. Only
// the first value of a repeated key is kept; empty values are dropped.
func FiltersFromQuery(q map[string][]string) hrdocs.Filters {
	f := hrdocs.Filters{}
	for k, vs := range q {
		if k == "mode" || len(vs) == 0 || vs[0] == "" {
			continue
		}
		f[k] = vs[0]
	}
	return f
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	title := mux.Vars(r)["title"]
	label := s.reportLabel(title)
	query := r.URL.Query()

	mode, err := report.ParseMode(query.Get("mode"))
	if err != nil {
		s.metrics.Generated.WithLabelValues(label, invalidLabel, outcome(err)).Inc()
		writeError(w, err)
		return
	}

	start := time.Now()
	out, err := s.engine.Generate(r.Context(), title, mode, FiltersFromQuery(query))
	s.metrics.Generated.WithLabelValues(label, string(mode), outcome(err)).Inc()
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.Duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	s.metrics.Pages.WithLabelValues(label).Add(float64(out.Pages))

	if mode == report.ModePreview {
		id := s.previews.Put(out)
		http.Redirect(w, r, "/previews/"+id, http.StatusSeeOther)
		return
	}
	writePDF(w, out)
}

// Label values recorded in place of titles and modes outside the catalog.
const (
	unknownLabel = "unknown"
	invalidLabel = "invalid"
)

func (s *Server) reportLabel(title string) string {
	if _, ok := s.engine.Registry().Lookup(title); ok {
		return title
	}
	return unknownLabel
}

func (s *Server) handlePreviewGet(w http.ResponseWriter, r *http.Request) {
	out, ok := s.previews.Get(mux.Vars(r)["id"])
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "preview not found"})
		return
	}
	writePDF(w, out)
}

func (s *Server) handlePreviewDelete(w http.ResponseWriter, r *http.Request) {
	if !s.previews.Delete(mux.Vars(r)["id"]) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "preview not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writePDF(w http.ResponseWriter, out *report.Output) {
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", out.Disposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Data)
}

type errorBody struct {
	Error string `json:"error"`
}

// statusOf maps generation errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, hrdocs.ErrUnknownReport):
		return http.StatusNotFound
	case errors.Is(err, hrdocs.ErrInvalidMode), errors.Is(err, hrdocs.ErrInvalidParam):
		return http.StatusBadRequest
	case errors.Is(err, hrdocs.ErrFetch):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, hrdocs.ErrUnknownReport):
		return "unknown"
	case errors.Is(err, hrdocs.ErrInvalidMode), errors.Is(err, hrdocs.ErrInvalidParam):
		return "invalid"
	case errors.Is(err, hrdocs.ErrFetch):
		return "fetch_error"
	case errors.Is(err, hrdocs.ErrRender):
		return "render_error"
	}
	return "error"
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		}
		switch {
		case rec.status >= 500:
			s.log.Error("request", fields...)
		case rec.status >= 400:
			s.log.Warn("request", fields...)
		default:
			s.log.Info("request", fields...)
		}
	})
}
