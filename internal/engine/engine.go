// Package engine implements the geofencing state machine. It consumes
// one location sample at a time, evaluates it against every active
// geofence, diffs the result against the tracked membership state, and
// emits edge-triggered entry/exit events subject to per-pair cooldowns.
package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/registry"
	"github.com/parkpilot/location-core/internal/track"
)

// EventSink receives emitted events for side-effect fan-out. Sink
// failures are logged by the engine and never affect membership state.
type EventSink interface {
	Dispatch(ctx context.Context, event model.GeofenceEvent, sample model.LocationSample) error
}

// Listener observes emitted events. Typed replacement for listener
// registration by string event name: an implementation filters on
// event.Type itself if it only cares about one kind.
type Listener interface {
	OnGeofenceEvent(event model.GeofenceEvent)
}

// ListenerFunc adapts a function to the Listener interface
type ListenerFunc func(event model.GeofenceEvent)

// OnGeofenceEvent calls the function
func (f ListenerFunc) OnGeofenceEvent(event model.GeofenceEvent) {
	f(event)
}

// Engine evaluates location updates against the active geofence set.
// Updates for the same user are serialized; different users may be
// processed concurrently.
type Engine struct {
	registry *registry.Registry
	tracker  *track.Tracker
	sink     EventSink
	seq      *sequencer
	tracer   trace.Tracer

	listenerMu sync.RWMutex
	listeners  []Listener

	// now is swappable in tests
	now func() time.Time
}

// New creates an engine over the given registry, tracker, and sink
func New(reg *registry.Registry, tracker *track.Tracker, sink EventSink) *Engine {
	return &Engine{
		registry: reg,
		tracker:  tracker,
		sink:     sink,
		seq:      newSequencer(),
		tracer:   otel.Tracer("location-core/engine"),
		now:      time.Now,
	}
}

// RegisterListener adds an observer for every emitted event
func (e *Engine) RegisterListener(l Listener) {
	e.listenerMu.Lock()
	defer e.listenerMu.Unlock()
	e.listeners = append(e.listeners, l)
}

// LoadGeofences refreshes the active geofence set for a vacation. Safe
// to call repeatedly; switching to a different vacation drops all
// tracked membership state.
func (e *Engine) LoadGeofences(ctx context.Context, vacationID string) {
	if prev := e.registry.VacationID(); prev != "" && prev != vacationID {
		e.tracker.Reset()
	}
	e.registry.Load(ctx, vacationID)
}

// ProcessLocationUpdate evaluates one sample against every active
// geofence and returns the events it emitted. One sample may emit
// multiple events, one per geofence whose state changed.
func (e *Engine) ProcessLocationUpdate(ctx context.Context, sample model.LocationSample, userName string) []model.GeofenceEvent {
	ctx, span := e.tracer.Start(ctx, "ProcessLocationUpdate",
		trace.WithAttributes(attribute.String("user.id", sample.UserID)))
	defer span.End()

	// Membership read-compare-write is not atomic across the dispatch
	// boundary, so updates for the same user must not overlap.
	unlock := e.seq.lock(sample.UserID)
	defer unlock()

	e.tracker.Observe(sample)

	now := e.now()
	var events []model.GeofenceEvent

	for _, fence := range e.registry.All() {
		event, err := e.evaluate(ctx, fence, sample, userName, now)
		if err != nil {
			// a bad fence must never abort evaluation of the rest
			log.Warn().
				Err(err).
				Str("geofence_id", fence.ID).
				Str("user_id", sample.UserID).
				Msg("Skipping geofence evaluation")
			continue
		}
		if event != nil {
			events = append(events, *event)
		}
	}

	span.SetAttributes(attribute.Int("events.emitted", len(events)))
	return events
}

// evaluate runs the transition check for one (sample, geofence) pair and
// returns the emitted event, if any
func (e *Engine) evaluate(ctx context.Context, fence model.Geofence, sample model.LocationSample, userName string, now time.Time) (*model.GeofenceEvent, error) {
	if err := validateGeofence(fence); err != nil {
		return nil, err
	}

	distance := geo.DistanceMeters(sample.Point(), fence.Center)
	inside := distance <= fence.RadiusMeters

	// a fence outside its daily window never contains anyone
	if fence.ActiveStartTime != "" && fence.ActiveEndTime != "" {
		within, err := withinDailyWindow(now, fence.ActiveStartTime, fence.ActiveEndTime)
		if err != nil {
			return nil, err
		}
		if !within {
			inside = false
		}
	}

	// Direction and altitude only refine a radius hit. A sample without
	// a heading skips the directional check: most phones only report a
	// heading while moving, and disqualifying the fence would silently
	// disable directional alerts for them.
	if inside && fence.Direction != nil && fence.DirectionRangeDegrees != nil && sample.Heading != nil {
		inside = geo.IsWithinDirection(*sample.Heading, *fence.Direction, *fence.DirectionRangeDegrees)
	}

	if inside && (fence.MinAltitudeMeters != nil || fence.MaxAltitudeMeters != nil) && sample.Altitude != nil {
		inside = geo.IsWithinAltitude(*sample.Altitude, fence.MinAltitudeMeters, fence.MaxAltitudeMeters)
	}

	key := track.Key{UserID: sample.UserID, GeofenceID: fence.ID}
	if inside == e.tracker.Inside(key) {
		return nil, nil
	}

	// record the transition first so future diffs compare correctly
	// even when the event itself is suppressed by cooldown
	e.tracker.SetInside(key, inside)

	if last, ok := e.tracker.LastEvent(key); ok && now.Sub(last) < fence.Cooldown() {
		log.Debug().
			Str("geofence_id", fence.ID).
			Str("user_id", sample.UserID).
			Dur("since_last_event", now.Sub(last)).
			Msg("Geofence event suppressed by cooldown")
		return nil, nil
	}

	eventType := model.EventEntry
	if !inside {
		eventType = model.EventExit
	}

	event := model.GeofenceEvent{
		Geofence: fence,
		User: model.EventUser{
			ID:       sample.UserID,
			Name:     userName,
			Location: sample.Point(),
		},
		Type:           eventType,
		DistanceMeters: distance,
		Timestamp:      now,
	}

	e.tracker.SetLastEvent(key, now)
	e.emit(ctx, event, sample)

	return &event, nil
}

// emit hands the event to the sink and the registered listeners
func (e *Engine) emit(ctx context.Context, event model.GeofenceEvent, sample model.LocationSample) {
	if e.sink != nil {
		if err := e.sink.Dispatch(ctx, event, sample); err != nil {
			log.Error().
				Err(err).
				Str("geofence_id", event.Geofence.ID).
				Str("user_id", event.User.ID).
				Str("event_type", string(event.Type)).
				Msg("Alert dispatch reported channel failures")
		}
	}

	e.listenerMu.RLock()
	listeners := make([]Listener, len(e.listeners))
	copy(listeners, e.listeners)
	e.listenerMu.RUnlock()

	for _, l := range listeners {
		l.OnGeofenceEvent(event)
	}
}

func validateGeofence(fence model.Geofence) error {
	if fence.RadiusMeters <= 0 {
		return fmt.Errorf("geofence %s has non-positive radius %.2f", fence.ID, fence.RadiusMeters)
	}
	if fence.Center.Latitude < -90 || fence.Center.Latitude > 90 ||
		fence.Center.Longitude < -180 || fence.Center.Longitude > 180 {
		return fmt.Errorf("geofence %s has out-of-range center (%.4f, %.4f)",
			fence.ID, fence.Center.Latitude, fence.Center.Longitude)
	}
	// direction and range travel together
	if (fence.Direction == nil) != (fence.DirectionRangeDegrees == nil) {
		return fmt.Errorf("geofence %s defines direction without range (or vice versa)", fence.ID)
	}
	return nil
}

// withinDailyWindow reports whether the clock time of now falls inside
// [start, end]; windows may wrap past midnight
func withinDailyWindow(now time.Time, start, end string) (bool, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return false, fmt.Errorf("invalid activeStartTime %q: %w", start, err)
	}
	endMin, err := parseClock(end)
	if err != nil {
		return false, fmt.Errorf("invalid activeEndTime %q: %w", end, err)
	}

	current := now.Hour()*60 + now.Minute()

	if startMin <= endMin {
		return current >= startMin && current <= endMin, nil
	}
	// window wraps midnight, e.g. 21:00-01:00
	return current >= startMin || current <= endMin, nil
}

// parseClock converts "HH:MM" to minutes past midnight
func parseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM")
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour %q", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute %q", parts[1])
	}
	return hour*60 + minute, nil
}
