// Package store defines the contracts this core exchanges with the
// external vacation store: fetching geofence definitions and persisting
// geofence alerts. Both sides are external collaborators; the engine
// treats alert persistence as fire-and-forget.
package store

import (
	"context"
	"time"

	"github.com/parkpilot/location-core/internal/model"
)

// Alert is the persisted record for one emitted geofence event
type Alert struct {
	ID             string         `json:"id"`
	GeofenceID     string         `json:"geofenceId"`
	UserID         string         `json:"userId"`
	VacationID     string         `json:"vacationId"`
	AlertType      string         `json:"alertType"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	DistanceMeters float64        `json:"distanceMeters"`
	Message        string         `json:"message"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	TriggeredAt    time.Time      `json:"triggeredAt"`
}

// GeofenceStore reads geofence definitions for a vacation
type GeofenceStore interface {
	// FetchActive returns all geofences for the vacation; callers filter
	// on IsActive.
	FetchActive(ctx context.Context, vacationID string) ([]model.Geofence, error)
}

// AlertStore persists one record per emitted geofence event
type AlertStore interface {
	CreateAlert(ctx context.Context, alert Alert) error
}
