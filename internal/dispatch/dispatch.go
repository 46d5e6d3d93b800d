// Package dispatch turns geofence events into external side effects:
// a persisted alert record, a user-facing notification, haptic feedback,
// and the downstream event stream. Channels are isolated from each other;
// a failure in one never suppresses the others and never touches engine
// state. Errors are aggregated and returned for the caller's policy.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/store"
)

// Severity drives notification styling
type Severity string

// Notification severities
const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification durations in milliseconds
const (
	defaultDurationMS = 5000
	urgentDurationMS  = 12000
)

// Notification is a user-facing message plus presentation hints
type Notification struct {
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	DurationMS int      `json:"durationMs"`
}

// Notifier delivers a notification to one user
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

// Haptics triggers device sound/vibration feedback
type Haptics interface {
	Alert(ctx context.Context, userID string, sound, vibration bool) error
}

// EventPublisher fans an event out to downstream consumers
type EventPublisher interface {
	Publish(ctx context.Context, event model.GeofenceEvent) error
}

// Dispatcher formats and fans out geofence events. Any channel may be
// nil, in which case it is skipped.
type Dispatcher struct {
	alerts    store.AlertStore
	notifier  Notifier
	haptics   Haptics
	publisher EventPublisher
}

// New creates a dispatcher over the given channels
func New(alerts store.AlertStore, notifier Notifier, haptics Haptics, publisher EventPublisher) *Dispatcher {
	return &Dispatcher{
		alerts:    alerts,
		notifier:  notifier,
		haptics:   haptics,
		publisher: publisher,
	}
}

// Dispatch runs every configured channel for the event and returns the
// aggregated channel errors. The sample supplies the metadata blob the
// persisted alert carries.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.GeofenceEvent, sample model.LocationSample) error {
	message := Message(event)

	var errs []error

	if d.alerts != nil {
		if err := d.alerts.CreateAlert(ctx, buildAlert(event, sample, message)); err != nil {
			errs = append(errs, fmt.Errorf("alert store: %w", err))
		}
	}

	if d.notifier != nil {
		if err := d.notifier.Notify(ctx, event.User.ID, BuildNotification(event, message)); err != nil {
			errs = append(errs, fmt.Errorf("notifier: %w", err))
		}
	}

	if d.haptics != nil {
		if s := event.Geofence.Settings; s != nil && (s.SoundAlert || s.VibrationAlert) {
			if err := d.haptics.Alert(ctx, event.User.ID, s.SoundAlert, s.VibrationAlert); err != nil {
				errs = append(errs, fmt.Errorf("haptics: %w", err))
			}
		}
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("event publisher: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Message renders the human-readable alert text for an event. A fence's
// custom message always wins; otherwise the text varies by category.
func Message(event model.GeofenceEvent) string {
	fence := event.Geofence

	if fence.Settings != nil && fence.Settings.CustomMessage != "" {
		return fence.Settings.CustomMessage
	}

	action := "entered"
	if event.Type == model.EventExit {
		action = "left"
	}

	switch fence.Category {
	case model.CategoryAttraction:
		if event.Type == model.EventEntry {
			return fmt.Sprintf("%s arrived at %s", event.User.Name, fence.Name)
		}
		return fmt.Sprintf("%s left %s", event.User.Name, fence.Name)
	case model.CategoryMeeting:
		if event.Type == model.EventEntry {
			return fmt.Sprintf("%s reached the meeting point %s", event.User.Name, fence.Name)
		}
		return fmt.Sprintf("%s left the meeting point %s", event.User.Name, fence.Name)
	case model.CategorySafety:
		if event.Type == model.EventEntry {
			return fmt.Sprintf("Safety alert: %s entered %s", event.User.Name, fence.Name)
		}
		return fmt.Sprintf("Safety alert: %s left %s", event.User.Name, fence.Name)
	case model.CategoryDirectional:
		octant := ""
		if fence.Direction != nil {
			octant = geo.CompassOctant(*fence.Direction)
		}
		if octant != "" {
			return fmt.Sprintf("%s %s %s heading %s", event.User.Name, action, fence.Name, octant)
		}
		return fmt.Sprintf("%s %s %s", event.User.Name, action, fence.Name)
	case model.CategoryAltitude:
		return fmt.Sprintf("%s %s the elevation zone %s", event.User.Name, action, fence.Name)
	default:
		return fmt.Sprintf("%s %s %s", event.User.Name, action, fence.Name)
	}
}

// BuildNotification maps the event to presentation hints: safety fences
// use error styling, meeting fences success, everything else info.
// Urgent-priority fences get a longer duration.
func BuildNotification(event model.GeofenceEvent, message string) Notification {
	severity := SeverityInfo
	switch event.Geofence.Category {
	case model.CategorySafety:
		severity = SeverityError
	case model.CategoryMeeting:
		severity = SeveritySuccess
	}

	duration := defaultDurationMS
	if event.Geofence.IsUrgent() {
		duration = urgentDurationMS
	}

	return Notification{
		Message:    message,
		Severity:   severity,
		DurationMS: duration,
	}
}

func buildAlert(event model.GeofenceEvent, sample model.LocationSample, message string) store.Alert {
	metadata := map[string]any{}
	if sample.Accuracy != nil {
		metadata["accuracy"] = *sample.Accuracy
	}
	if sample.Speed != nil {
		metadata["speed"] = *sample.Speed
	}
	if sample.Heading != nil {
		metadata["heading"] = *sample.Heading
	}
	if sample.Metadata != nil && sample.Metadata.DeviceInfo != "" {
		metadata["deviceInfo"] = sample.Metadata.DeviceInfo
	}

	return store.Alert{
		ID:             uuid.New().String(),
		GeofenceID:     event.Geofence.ID,
		UserID:         event.User.ID,
		VacationID:     event.Geofence.VacationID,
		AlertType:      string(event.Type),
		Latitude:       event.User.Location.Latitude,
		Longitude:      event.User.Location.Longitude,
		DistanceMeters: event.DistanceMeters,
		Message:        message,
		Metadata:       metadata,
		TriggeredAt:    event.Timestamp,
	}
}
