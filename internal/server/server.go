// Package server exposes the recommendation engine over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"

	"github.com/marden/carscout/internal/config"
	"github.com/marden/carscout/internal/engine"
	"github.com/marden/carscout/internal/models"
)

// Server wraps the engine with an HTTP API.
type Server struct {
	engine *engine.Engine
	log    engine.Logger
}

// New creates a server over a ready engine.
func New(eng *engine.Engine, log engine.Logger) *Server {
	return &Server{engine: eng, log: log}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", s.handleRecommend)
		r.Get("/stats", s.handleStats)
	})
	return r
}

// HTTPServer builds a configured http.Server ready for ListenAndServe.
func (s *Server) HTTPServer(cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"pool_size": s.engine.PoolSize(),
	})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		s.respondError(w, http.StatusBadRequest, "malformed_request", "request body is not valid JSON")
		return
	}

	rec, err := s.engine.Recommend(r.Context(), prefs)
	if err != nil {
		var invalid *models.InvalidPreferenceError
		switch {
		case errors.As(err, &invalid):
			s.respondError(w, http.StatusBadRequest, "invalid_preference", invalid.Error())
		case errors.Is(err, models.ErrDataUnavailable):
			s.respondError(w, http.StatusServiceUnavailable, "data_unavailable", "vehicle dataset is unavailable")
		default:
			s.respondError(w, http.StatusInternalServerError, "internal_error", "recommendation failed")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, rec)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	pool := s.engine.Pool()
	if len(pool) == 0 {
		s.respondError(w, http.StatusServiceUnavailable, "data_unavailable", "vehicle dataset is unavailable")
		return
	}

	makes := map[string]int{}
	minYear, maxYear := pool[0].Year, pool[0].Year
	var priceSum float64
	priced := 0
	for _, v := range pool {
		makes[v.Make]++
		if v.Year < minYear {
			minYear = v.Year
		}
		if v.Year > maxYear {
			maxYear = v.Year
		}
		if v.Price > 0 {
			priceSum += v.Price
			priced++
		}
	}
	avgPrice := 0.0
	if priced > 0 {
		avgPrice = priceSum / float64(priced)
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"pool_size":          len(pool),
		"manufacturer_count": len(makes),
		"min_year":           minYear,
		"max_year":           maxYear,
		"average_price":      avgPrice,
	})
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && s.log != nil {
		s.log.Warnf("failed to write response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Error: code, Message: message})
}
