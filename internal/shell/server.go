// Package shell is the server-rendered front-end: it routes between the
// ingesta, cruce and heatmap pages and forwards uploads to the API.
package shell

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/config"
	"github.com/dharsanguruparan/prospectscan/internal/ingest"
	"github.com/dharsanguruparan/prospectscan/internal/logger"
	"github.com/dharsanguruparan/prospectscan/internal/model"
	"github.com/dharsanguruparan/prospectscan/internal/storage"
	"github.com/dharsanguruparan/prospectscan/internal/view"
)

// Analyzer fetches the enriched analysis of a domain. *ingest.Client
// satisfies it.
type Analyzer interface {
	AnalyzeEnriched(ctx context.Context, domain string) (*model.AnalysisRecord, error)
}

// Server hosts the shell routes. Each browser gets its own upload widget and
// snapshot id, keyed by a session cookie; the analysis cache is shared and
// only saves round trips.
type Server struct {
	cfg      *config.Config
	uploader ingest.Uploader
	metrics  *ingest.Metrics
	analyzer Analyzer
	cache    *storage.AnalysisCache
	pages    *view.Pages
	heatmap  []model.HeatmapDomain
	logger   *zap.Logger
	registry *prometheus.Registry
	fetches  *prometheus.CounterVec

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
}

// New wires a Server. reg receives the upload and analysis metrics and is
// exposed on /metrics.
func New(cfg *config.Config, up ingest.Uploader, analyzer Analyzer, log *zap.Logger, reg *prometheus.Registry) (*Server, error) {
	pages, err := view.NewPages()
	if err != nil {
		return nil, err
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	log = logger.OrNop(log)
	s := &Server{
		cfg:      cfg,
		uploader: up,
		metrics:  ingest.NewMetrics(reg),
		analyzer: analyzer,
		cache:    storage.NewAnalysisCache(),
		pages:    pages,
		heatmap:  PlaceholderDomains(),
		logger:   log,
		registry: reg,
		fetches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "prospectscan",
			Name:      "analysis_lookups_total",
			Help:      "Detail view lookups by source.",
		}, []string{"source"}),
		sessions: make(map[string]*session),
	}
	return s, nil
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader},
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ingesta", http.StatusFound)
	})
	r.Get("/ingesta", s.handleIngesta)
	r.Post("/ingesta", s.handleUpload)
	r.Get("/cruce", s.handleCruce)
	r.Get("/heatmap", s.handleHeatmap)
	r.Get("/heatmap.png", s.handleHeatmapPNG)
	r.Get("/heatmap/{domain}", s.handleDetail)
	r.Get("/heatmap/{domain}/click", s.handleDetailClick)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(view.Static()))))
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully and aborts
// any upload still in flight.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		s.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()
	s.logger.Info("shell listening", zap.String("address", s.cfg.Address))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) render(w http.ResponseWriter, status int, name, title string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.Render(w, name, view.Page{Title: title, Active: name, Data: data}); err != nil {
		s.logger.Error("render page", zap.String("page", name), zap.Error(err))
	}
}

func (s *Server) ingestaPage(ss *session) view.IngestaPage {
	st := ss.widget.State()
	page := view.IngestaPage{
		Uploading: st.Phase == ingest.PhaseUploading,
		Error:     st.Message(),
		MaxSize:   humanize.IBytes(uint64(s.cfg.MaxFileSize)),
	}
	switch st.Kind {
	case ingest.KindValidation:
		page.ErrorKind = "validation"
	case ingest.KindTransport:
		page.ErrorKind = "transport"
	}
	if st.Result != nil {
		rv := view.NewResultView(*st.Result, s.cfg.Location)
		page.Result = &rv
	}
	return page
}

func (s *Server) handleIngesta(w http.ResponseWriter, r *http.Request) {
	ss := s.session(w, r)
	s.render(w, http.StatusOK, view.PageIngesta, "Ingesta ZoomInfo", s.ingestaPage(ss))
}

// leaveIngesta clears the caller's finished upload outcome, as leaving the
// ingesta page does. It returns the caller's snapshot id.
func (s *Server) leaveIngesta(r *http.Request) string {
	ss := s.lookup(r)
	if ss == nil {
		return ""
	}
	ss.widget.Reset()
	return ss.Snapshot()
}

func (s *Server) handleCruce(w http.ResponseWriter, r *http.Request) {
	snapshot := s.leaveIngesta(r)
	s.render(w, http.StatusOK, view.PageCruce, "Pipeline Cruce", view.CrucePage{SnapshotID: snapshot})
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	s.leaveIngesta(r)
	s.render(w, http.StatusOK, view.PageHeatmap, "Heatmap", view.HeatmapPage{Rows: view.NewHeatmapRows(s.heatmap)})
}

func (s *Server) handleHeatmapPNG(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := view.WriteHeatmapPNG(&buf, s.heatmap); err != nil {
		s.logger.Error("render heatmap chart", zap.Error(err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
