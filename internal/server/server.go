// Package server exposes the analysis job queue and the auto-zoom engine to
// the editor UI over HTTP. The wire surface mirrors the job control
// contract: start, status, result.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/blueberrycongee/cursorlens/internal/analysis"
	"github.com/blueberrycongee/cursorlens/internal/autozoom"
	"github.com/blueberrycongee/cursorlens/internal/logging"
)

type Config struct {
	Addr string
}

type Server struct {
	config   Config
	pipeline *analysis.Pipeline
	logger   *logging.Logger
	server   *http.Server
}

func New(cfg Config, pipeline *analysis.Pipeline, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		config:   cfg,
		pipeline: pipeline,
		logger:   logger,
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/analyses", s.handleStart).Methods("POST")
	router.HandleFunc("/api/analyses/{id}", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/analyses/{id}/result", s.handleResult).Methods("GET")
	router.HandleFunc("/api/zoom", s.handleZoom).Methods("POST")
	return router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Infow("HTTP server listening", "addr", s.config.Addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

type startRequest struct {
	VideoPath  string `json:"videoPath"`
	Locale     string `json:"locale"`
	DurationMs int64  `json:"durationMs"`
	VideoWidth int    `json:"videoWidth"`
}

type startResponse struct {
	JobID string `json:"jobId"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.pipeline.Start(r.Context(), analysis.Input{
		VideoPath:  req.VideoPath,
		Locale:     req.Locale,
		DurationMs: req.DurationMs,
		VideoWidth: req.VideoWidth,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, startResponse{JobID: id})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job := s.pipeline.Status(id)
	if job == nil {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	job := s.pipeline.Status(id)
	if job == nil {
		writeError(w, http.StatusNotFound, "unknown job id")
		return
	}
	result := s.pipeline.Result(id)
	if result == nil {
		// known job, no result yet (or failed)
		writeError(w, http.StatusConflict, "job has no result")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type zoomRequest struct {
	Track      *autozoom.Track `json:"track"`
	DurationMs int64           `json:"durationMs"`
	MaxRegions int             `json:"maxRegions"`
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	drafts := autozoom.GenerateDrafts(req.Track, autozoom.Options{
		DurationMs: req.DurationMs,
		MaxRegions: req.MaxRegions,
	})
	writeJSON(w, http.StatusOK, drafts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
