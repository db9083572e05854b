// Package server serves the dashboard page and its JSON API.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"StockWise/internal/catalog"
	"StockWise/internal/collector"
	"StockWise/internal/dashboard"
	"StockWise/internal/forecast"
)

// PageTitle is the dashboard heading.
const PageTitle = "StockWise: Intelligent Stock Forecasting System"

//go:embed web/index.html
var webFS embed.FS

var indexTmpl = template.Must(template.ParseFS(webFS, "web/index.html"))

// Server handles HTTP requests for one pipeline.
type Server struct {
	pipeline   *dashboard.Pipeline
	corsOrigin string
	log        zerolog.Logger
}

// New creates a Server.
func New(p *dashboard.Pipeline, corsOrigin string, log zerolog.Logger) *Server {
	return &Server{
		pipeline:   p,
		corsOrigin: corsOrigin,
		log:        log.With().Str("component", "http").Logger(),
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/symbols", s.handleSymbols)
	mux.HandleFunc("GET /api/forecast", s.handleForecast)
	mux.HandleFunc("GET /api/runs", s.handleRuns)
	mux.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the routes wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return s.logRequests(corsMiddleware(mux, s.corsOrigin))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Title              string
		Symbols            []catalog.Symbol
		MinYears, MaxYears int
	}{PageTitle, s.pipeline.Catalog().Symbols(), catalog.Years[0], catalog.Years[len(catalog.Years)-1]}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("render index")
	}
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, map[string]any{
		"symbols": s.pipeline.Catalog().Symbols(),
		"years":   catalog.Years,
	})
}

// handleForecast runs the pipeline. symbol defaults to the first catalog
// entry and years to 1, the initial UI selection.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := dashboard.Selection{Symbol: q.Get("symbol"), Years: 1}
	if sel.Symbol == "" {
		if syms := s.pipeline.Catalog().Symbols(); len(syms) > 0 {
			sel.Symbol = syms[0].Ticker
		}
	}
	if v := q.Get("years"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "years must be an integer")
			return
		}
		sel.Years = n
	}

	p, err := s.pipeline.Run(r.Context(), sel)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.log.Error().Err(err).Str("symbol", sel.Symbol).Int("years", sel.Years).Msg("forecast failed")
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, s.log, p)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := s.pipeline.Runs(r.Context(), r.URL.Query().Get("symbol"), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}
	writeJSON(w, s.log, map[string]any{"runs": runs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log, map[string]string{"status": "ok"})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnsupportedSymbol),
		errors.Is(err, catalog.ErrUnsupportedHorizon),
		errors.Is(err, collector.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, forecast.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	case collector.IsTransient(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func corsMiddleware(next http.Handler, allowOrigin string) http.Handler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
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
		began := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("took", time.Since(began)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
