// Package registry holds the active geofence definitions for the
// currently loaded vacation. The set is replaced wholesale on each load;
// a failed load clears it so the engine degrades to "no active
// geofencing" instead of evaluating stale fences.
package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/store"
)

// Registry caches the active geofences for one vacation at a time
type Registry struct {
	geofences store.GeofenceStore

	mu         sync.RWMutex
	active     []model.Geofence
	vacationID string
}

// New creates a registry backed by the given geofence store
func New(geofences store.GeofenceStore) *Registry {
	return &Registry{geofences: geofences}
}

// Load replaces the active set with the store's isActive geofences for
// the vacation. Load errors are logged and swallowed: geofencing is an
// enhancement, not a blocking dependency for location updates.
func (r *Registry) Load(ctx context.Context, vacationID string) {
	fences, err := r.geofences.FetchActive(ctx, vacationID)
	if err != nil {
		log.Error().
			Err(err).
			Str("vacation_id", vacationID).
			Msg("Geofence load failed, clearing active set")
		r.replace(vacationID, nil)
		return
	}

	active := make([]model.Geofence, 0, len(fences))
	for _, f := range fences {
		if f.IsActive {
			active = append(active, f)
		}
	}

	r.replace(vacationID, active)

	log.Info().
		Str("vacation_id", vacationID).
		Int("active_geofences", len(active)).
		Int("total_geofences", len(fences)).
		Msg("Geofences loaded")
}

// All returns a snapshot copy of the active set
func (r *Registry) All() []model.Geofence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]model.Geofence, len(r.active))
	copy(snapshot, r.active)
	return snapshot
}

// VacationID returns the id of the currently loaded vacation
func (r *Registry) VacationID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vacationID
}

func (r *Registry) replace(vacationID string, active []model.Geofence) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vacationID = vacationID
	r.active = active
}
