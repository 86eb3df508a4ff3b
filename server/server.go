// Package server exposes the aggregate tables over HTTP for the
// presentation layer. It serves reports, filter domains and an explicit
// cache-refresh hook; it renders nothing itself.
package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"sla-pipeline/config"
	"sla-pipeline/errors"
	"sla-pipeline/filter"
	"sla-pipeline/models"
	"sla-pipeline/pipeline"
)

// Server serves the dashboard reports as JSON.
type Server struct {
	registry *pipeline.Registry
	cfg      *config.Config
	logger   zerolog.Logger
}

// New creates a Server over the dashboard registry.
func New(registry *pipeline.Registry, cfg *config.Config, logger zerolog.Logger) *Server {
	return &Server{
		registry: registry,
		cfg:      cfg,
		logger:   logger.With().Str("component", "server").Logger(),
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	r.Use(c.Handler)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/dashboards", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}/report", s.handleReport)
		r.Post("/{name}/refresh", s.handleRefresh)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"dashboards": s.registry.Names()})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.registry.Get(name)
	if err != nil {
		http.Error(w, "unknown dashboard", http.StatusNotFound)
		return
	}

	spec, err := specFromQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := p.Report(spec)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, report)
	case stderrors.Is(err, errors.ErrNoData):
		// No staged files is not a server failure; the dashboard shows
		// "no data for this period".
		s.writeJSON(w, http.StatusOK, models.Report{Dashboard: name})
	default:
		s.logger.Error().Err(err).Str("dashboard", name).Msg("report failed")
		var schemaErr *errors.SchemaError
		var rowErr *errors.RowError
		if stderrors.As(err, &schemaErr) || stderrors.As(err, &rowErr) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.registry.Get(name)
	if err != nil {
		http.Error(w, "unknown dashboard", http.StatusNotFound)
		return
	}
	p.Refresh()
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// specFromQuery maps repeated query params to inclusion sets. An absent
// parameter leaves its dimension unconstrained; a present parameter
// constrains it to exactly the supplied values.
func specFromQuery(q url.Values) (filter.Spec, error) {
	spec := filter.Spec{
		Periods:   listParam(q, "period"),
		Skills:    listParam(q, "skill"),
		Campaigns: listParam(q, "campaign"),
		Hours:     listParam(q, "hour"),
		Weekdays:  listParam(q, "weekday"),
		Peaks:     listParam(q, "peak"),
	}

	for _, bound := range []struct {
		name string
		dst  **time.Time
	}{
		{"from", &spec.From},
		{"to", &spec.To},
	} {
		raw := q.Get(bound.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter.Spec{}, fmt.Errorf("invalid %s date %q, want YYYY-MM-DD", bound.name, raw)
		}
		*bound.dst = &t
	}
	return spec, nil
}

func listParam(q url.Values, name string) []string {
	if _, ok := q[name]; !ok {
		return nil
	}
	return q[name]
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encoding response")
	}
}
