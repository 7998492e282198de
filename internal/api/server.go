// Package api exposes a completed analysis, and optionally the archive
// of earlier runs, over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/r0bertgabriel/inmet-belem/adapters/postgres"
	"github.com/r0bertgabriel/inmet-belem/adapters/report"
	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/internal"
	apperrors "github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// defaultRunListLimit caps the run listing when no limit is requested.
const defaultRunListLimit = 20

// RunHistory is the slice of the run repository the API reads from.
type RunHistory interface {
	ListRuns(ctx context.Context, limit int) ([]postgres.RunSummary, error)
	GetReport(ctx context.Context, id core.RunID) (*app.AnalysisReport, error)
}

// Server serves one analysis report, plus archived runs when history is
// configured.
type Server struct {
	router  *chi.Mux
	report  *app.AnalysisReport
	history RunHistory
	builder *report.Builder
	logger  *internal.Logger
}

// NewServer builds the router around a completed report. history may be
// nil, which disables the archive endpoints.
func NewServer(analysisReport *app.AnalysisReport, history RunHistory, logger *internal.Logger) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		report:  analysisReport,
		history: history,
		builder: report.NewBuilder(),
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/report", s.handleReportHTML)
	s.router.Get("/api/report", s.handleReport)
	s.router.Get("/api/summary/{variable}", s.handleSummary)
	s.router.Get("/api/episodes", s.handleEpisodes)
	s.router.Get("/api/correlations", s.handleCorrelations)
	s.router.Get("/api/runs", s.handleRuns)
	s.router.Get("/api/runs/{id}", s.handleRunByID)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok", "run_id": string(s.report.RunID)})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.report)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(s.builder.HTML(s.report))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	v := observation.Variable(chi.URLParam(r, "variable"))
	analysis, ok := s.report.Variables[v]
	if !ok {
		http.Error(w, fmt.Sprintf("%s: %s", core.ErrVariableNotFound, v), http.StatusNotFound)
		return
	}
	s.writeJSON(w, analysis)
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"heat_waves":  s.report.HeatWaves,
		"cold_spells": s.report.ColdSpells,
	})
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.report.Correlations)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}
	limit := defaultRunListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, runs)
}

func (s *Server) handleRunByID(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		http.Error(w, "run history not configured", http.StatusServiceUnavailable)
		return
	}
	id := core.RunID(chi.URLParam(r, "id"))
	archived, err := s.history.GetReport(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, archived)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed [%s]: %v", apperrors.GetCode(err), err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
