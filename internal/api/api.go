// Package api exposes the location core over HTTP: location ingestion,
// recommendation generation, geofence reloads, alert history, and the
// health probe.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/parkpilot/location-core/internal/engine"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/recommend"
	"github.com/parkpilot/location-core/internal/store"
)

// AlertReader serves the alert history endpoint
type AlertReader interface {
	RecentAlerts(ctx context.Context, vacationID string, limit int) ([]store.Alert, error)
}

// Pinger reports backend connectivity for the health probe
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Server wires the engines to their HTTP endpoints. The alert reader and
// pinger are optional; absent backends degrade the matching endpoints.
type Server struct {
	geofencing  *engine.Engine
	recommender *recommend.Engine
	alerts      AlertReader
	health      Pinger

	// now is swappable in tests
	now func() time.Time
}

// NewServer creates the HTTP server facade
func NewServer(geofencing *engine.Engine, recommender *recommend.Engine, alerts AlertReader, health Pinger) *Server {
	return &Server{
		geofencing:  geofencing,
		recommender: recommender,
		alerts:      alerts,
		health:      health,
		now:         time.Now,
	}
}

// Router builds the chi route tree
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/vacations/{vacationID}/locations", s.handleLocationUpdate)
		r.Post("/vacations/{vacationID}/geofences/reload", s.handleGeofenceReload)
		r.Get("/vacations/{vacationID}/alerts", s.handleRecentAlerts)
		r.Post("/recommendations", s.handleRecommendations)
	})

	return r
}

// locationRequest is one traveler position post
type locationRequest struct {
	UserID    string                `json:"userId"`
	UserName  string                `json:"userName"`
	Latitude  float64               `json:"latitude"`
	Longitude float64               `json:"longitude"`
	Accuracy  *float64              `json:"accuracy,omitempty"`
	Altitude  *float64              `json:"altitude,omitempty"`
	Heading   *float64              `json:"heading,omitempty"`
	Speed     *float64              `json:"speed,omitempty"`
	Timestamp *time.Time            `json:"timestamp,omitempty"`
	Metadata  *model.SampleMetadata `json:"metadata,omitempty"`
}

func (s *Server) handleLocationUpdate(w http.ResponseWriter, r *http.Request) {
	vacationID := chi.URLParam(r, "vacationID")

	var req locationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		writeError(w, http.StatusBadRequest, "latitude out of range")
		return
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		writeError(w, http.StatusBadRequest, "longitude out of range")
		return
	}
	if req.Heading != nil && (*req.Heading < 0 || *req.Heading >= 360) {
		writeError(w, http.StatusBadRequest, "heading out of range")
		return
	}

	timestamp := s.now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	sample := model.LocationSample{
		UserID:    req.UserID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Altitude:  req.Altitude,
		Heading:   req.Heading,
		Speed:     req.Speed,
		Timestamp: timestamp,
		Metadata:  req.Metadata,
	}

	events := s.geofencing.ProcessLocationUpdate(r.Context(), sample, req.UserName)

	log.Debug().
		Str("vacation_id", vacationID).
		Str("user_id", req.UserID).
		Int("events", len(events)).
		Msg("Location update processed")

	writeJSON(w, http.StatusOK, map[string]any{
		"events":      emptyIfNil(events),
		"processedAt": timestamp,
	})
}

func (s *Server) handleGeofenceReload(w http.ResponseWriter, r *http.Request) {
	vacationID := chi.URLParam(r, "vacationID")

	s.geofencing.LoadGeofences(r.Context(), vacationID)

	writeJSON(w, http.StatusOK, map[string]any{
		"vacationId": vacationID,
		"reloadedAt": s.now(),
	})
}

func (s *Server) handleRecentAlerts(w http.ResponseWriter, r *http.Request) {
	if s.alerts == nil {
		writeError(w, http.StatusNotImplemented, "alert history is not configured")
		return
	}

	vacationID := chi.URLParam(r, "vacationID")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	alerts, err := s.alerts.RecentAlerts(r.Context(), vacationID, limit)
	if err != nil {
		log.Error().Err(err).Str("vacation_id", vacationID).Msg("Alert history query failed")
		writeError(w, http.StatusInternalServerError, "alert history unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"alerts": emptyIfNil(alerts)})
}

// recommendationRequest carries the party and an optional evaluation time
type recommendationRequest struct {
	Party []model.PartyMember `json:"party"`
	At    *time.Time          `json:"at,omitempty"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Party) == 0 {
		writeError(w, http.StatusBadRequest, "party must not be empty")
		return
	}

	at := s.now()
	if req.At != nil {
		at = *req.At
	}

	recs := s.recommender.Generate(r.Context(), req.Party, at)

	writeJSON(w, http.StatusOK, map[string]any{
		"recommendations": emptyIfNil(recs),
		"generatedAt":     at,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.health.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// emptyIfNil keeps empty collections rendering as [] instead of null
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
