package shell

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/dharsanguruparan/prospectscan/internal/model"
	"github.com/dharsanguruparan/prospectscan/internal/storage"
	"github.com/dharsanguruparan/prospectscan/internal/view"
)

// handleDetail opens the analysis modal over the heatmap. The record is
// fetched once per domain; later tab switches are served from the cache.
func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	tab, err := view.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rec, err := s.analysis(r.Context(), domain)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		s.logger.Warn("analysis unavailable", zap.String("domain", domain), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	dv := view.NewDetailView(*rec, s.cfg.Location, nil)
	if err := dv.Select(tab); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data := dv.Data()
	s.render(w, http.StatusOK, view.PageHeatmap, "Heatmap", view.HeatmapPage{
		Rows:   view.NewHeatmapRows(s.heatmap),
		Detail: &data,
	})
}

// handleDetailClick dispatches a click on the open modal through the view.
// A click that dismisses it goes back to the bare heatmap; any other click
// returns to the modal on the same tab. No record is needed, so nothing is
// fetched.
func (s *Server) handleDetailClick(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	q := r.URL.Query()
	target, err := view.ParseTarget(q.Get("target"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tab, err := view.ParseTab(q.Get("tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dv := view.NewDetailView(model.AnalysisRecord{Domain: domain}, s.cfg.Location, func() {
		s.logger.Debug("detail closed", zap.String("domain", domain), zap.String("target", string(target)))
	})
	if err := dv.Select(tab); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dv.Click(target)

	dest := "/heatmap"
	if dv.IsOpen() {
		dest = view.DetailPath(domain, dv.Active())
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// analysis serves domain from the cache, asking the API on a miss. The
// record is cached under the domain that was asked for.
func (s *Server) analysis(ctx context.Context, domain string) (*model.AnalysisRecord, error) {
	rec, storedAt, err := s.cache.Get(domain)
	if err == nil {
		s.fetches.WithLabelValues("cache").Inc()
		s.logger.Debug("analysis served from cache",
			zap.String("domain", domain),
			zap.Duration("age", time.Since(storedAt)),
		)
		return rec, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	rec, err = s.analyzer.AnalyzeEnriched(ctx, domain)
	if err != nil {
		s.fetches.WithLabelValues("error").Inc()
		return nil, err
	}
	s.fetches.WithLabelValues("api").Inc()
	s.cache.Save(domain, rec)
	return rec, nil
}
