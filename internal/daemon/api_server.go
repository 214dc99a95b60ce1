package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"log/slog"

	"curator/internal/api"
	"curator/internal/config"
	"curator/internal/enrich"
	"curator/internal/library"
	"curator/internal/logging"
	"curator/internal/preflight"
	"curator/internal/services"
)

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Paths.APIBind),
		token:  strings.TrimSpace(cfg.Paths.APIToken),
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", requireToken(srv.token, srv.handleStatus))
	mux.HandleFunc("/api/enrich/start", requireToken(srv.token, srv.handleStart))
	mux.HandleFunc("/api/enrich/jobs", requireToken(srv.token, srv.handleJobs))
	mux.HandleFunc("/api/enrich/jobs/", requireToken(srv.token, srv.handleJob))
	mux.HandleFunc("/api/enrich/stats", requireToken(srv.token, srv.handleStats))
	mux.HandleFunc("/api/library/items", requireToken(srv.token, srv.handleItems))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil || s.bind == "" {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	s.mu.Unlock()
}

func (s *apiServer) addr() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		DatabasePath: status.DatabasePath,
		LockFilePath: status.LockFilePath,
	}
	if status.ActiveJob != nil {
		job := api.FromJob(status.ActiveJob,
			enrich.EstimateProgress(status.ActiveJob, time.Now().UTC()),
			s.daemon.cfg.Enrichment.MaxErrorsDisplayed)
		payload.ActiveJob = &job
	}
	for _, dep := range preflight.CheckSystemDeps(r.Context(), s.daemon.cfg) {
		payload.Dependencies = append(payload.Dependencies, api.FromDependency(dep))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	// An empty body starts a default run.
	var req api.StartEnrichmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Unlike the IPC path, incoherent option combinations are rejected
	// here rather than auto-corrected; API clients get no note channel.
	opts := req.Options()
	if notes := opts.Normalize(); len(notes) != 0 {
		s.writeError(w, http.StatusBadRequest, strings.Join(notes, "; "))
		return
	}
	job, err := s.daemon.controller.Start(r.Context(), opts)
	if err != nil {
		s.writeControlError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.StartEnrichmentResponse{
		Job: s.jobPayload(job),
	})
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jobs, err := s.daemon.controller.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := api.JobListResponse{Jobs: make([]api.Job, 0, len(jobs))}
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, s.jobPayload(job))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleJob(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/enrich/jobs/")
	if rest == "" {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	id, action, _ := strings.Cut(rest, "/")

	switch {
	case action == "" && r.Method == http.MethodGet:
		view, err := s.daemon.controller.Status(r.Context(), id)
		if err != nil {
			s.writeControlError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.JobResponse{
			Job: api.FromJob(view.Job, view.Estimate, s.daemon.cfg.Enrichment.MaxErrorsDisplayed),
		})
	case action == "" && r.Method == http.MethodDelete:
		if err := s.daemon.controller.Delete(r.Context(), id); err != nil {
			s.writeControlError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	case r.Method == http.MethodPost:
		var (
			job *enrich.Job
			err error
		)
		switch action {
		case "pause":
			job, err = s.daemon.controller.Pause(r.Context(), id)
		case "resume":
			job, err = s.daemon.controller.Resume(r.Context(), id)
		case "cancel":
			job, err = s.daemon.controller.Cancel(r.Context(), id)
		default:
			s.writeError(w, http.StatusNotFound, "unknown job action")
			return
		}
		if err != nil {
			s.writeControlError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.JobResponse{Job: s.jobPayload(job)})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stats, err := s.daemon.store.EnrichmentStats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromStats(stats))
}

func (s *apiServer) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := r.URL.Query()
	sel := library.Selection{
		Sources: library.SourcesForScope(query.Get("source")),
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		sel.Limit = limit
	}
	if query.Get("archived") != "1" && !strings.EqualFold(query.Get("archived"), "true") {
		sel.ExcludeArchived = true
	}

	items, err := s.daemon.store.List(r.Context(), sel)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := api.ItemListResponse{Items: make([]api.Item, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, api.FromItem(item))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) jobPayload(job *enrich.Job) api.Job {
	return api.FromJob(job,
		enrich.EstimateProgress(job, time.Now().UTC()),
		s.daemon.cfg.Enrichment.MaxErrorsDisplayed)
}

// writeControlError maps controller errors onto HTTP statuses.
func (s *apiServer) writeControlError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, enrich.ErrJobNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, enrich.ErrJobActive), errors.Is(err, enrich.ErrInvalidTransition):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String("component", "api-server"))
	}
	return logging.NewNop()
}
