// Package track keeps the geofencing core's only mutable state: the
// per-(user, geofence) membership booleans that drive edge-triggered
// event emission, the per-pair last-event stamps used for cooldowns, and
// the most recent location sample per user.
package track

import (
	"sync"
	"time"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

// Key identifies one (user, geofence) membership record
type Key struct {
	UserID     string
	GeofenceID string
}

// Tracker is safe for concurrent use. Absence from the membership map
// means OUTSIDE.
type Tracker struct {
	mu         sync.RWMutex
	inside     map[Key]bool
	lastEvent  map[Key]time.Time
	lastSample map[string]model.LocationSample
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		inside:     make(map[Key]bool),
		lastEvent:  make(map[Key]time.Time),
		lastSample: make(map[string]model.LocationSample),
	}
}

// Inside returns the stored membership state, false when absent
func (t *Tracker) Inside(key Key) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.inside[key]
}

// SetInside records a membership transition
func (t *Tracker) SetInside(key Key, inside bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if inside {
		t.inside[key] = true
	} else {
		delete(t.inside, key)
	}
}

// LastEvent returns the time of the last emitted event for the pair
func (t *Tracker) LastEvent(key Key) (time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ts, ok := t.lastEvent[key]
	return ts, ok
}

// SetLastEvent stamps the pair's last emitted event
func (t *Tracker) SetLastEvent(key Key, ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastEvent[key] = ts
}

// Observe stores the most recent sample for a user
func (t *Tracker) Observe(sample model.LocationSample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastSample[sample.UserID] = sample
}

// LastKnown returns a user's most recent sample
func (t *Tracker) LastKnown(userID string) (model.LocationSample, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.lastSample[userID]
	return s, ok
}

// Positions returns the last-known coordinate of every tracked user,
// used for the party centroid
func (t *Tracker) Positions() []geo.Point {
	t.mu.RLock()
	defer t.mu.RUnlock()

	points := make([]geo.Point, 0, len(t.lastSample))
	for _, s := range t.lastSample {
		points = append(points, s.Point())
	}
	return points
}

// Reset drops all state, used when switching vacations
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.inside = make(map[Key]bool)
	t.lastEvent = make(map[Key]time.Time)
	t.lastSample = make(map[string]model.LocationSample)
}
