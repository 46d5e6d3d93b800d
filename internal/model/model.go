// Package model defines the domain types exchanged between the geofencing
// engine, the recommendation engine, and the external vacation store.
package model

import (
	"time"

	"github.com/parkpilot/location-core/internal/geo"
)

// GeofenceCategory classifies a geofence for alert formatting and styling
type GeofenceCategory string

// Geofence categories
const (
	CategoryAttraction  GeofenceCategory = "attraction"
	CategoryMeeting     GeofenceCategory = "meeting"
	CategorySafety      GeofenceCategory = "safety"
	CategoryDirectional GeofenceCategory = "directional"
	CategoryAltitude    GeofenceCategory = "altitude"
	CategoryCustom      GeofenceCategory = "custom"
)

// DefaultCooldownMinutes is applied when a geofence has no cooldown setting
const DefaultCooldownMinutes = 5

// GeofenceSettings holds optional per-fence alert behavior
type GeofenceSettings struct {
	CooldownMinutes int    `json:"cooldownMinutes,omitempty"`
	Priority        string `json:"priority,omitempty"`
	SoundAlert      bool   `json:"soundAlert,omitempty"`
	VibrationAlert  bool   `json:"vibrationAlert,omitempty"`
	CustomMessage   string `json:"customMessage,omitempty"`
}

// Geofence is a named circular region, optionally directional,
// altitude-bounded, or restricted to a daily time window
type Geofence struct {
	ID           string           `json:"id"`
	VacationID   string           `json:"vacationId"`
	Name         string           `json:"name"`
	Category     GeofenceCategory `json:"category"`
	Center       geo.Point        `json:"center"`
	RadiusMeters float64          `json:"radiusMeters"`
	IsActive     bool             `json:"isActive"`

	// Directional containment: both fields must be set together
	Direction             *float64 `json:"direction,omitempty"`
	DirectionRangeDegrees *float64 `json:"directionRangeDegrees,omitempty"`

	// Altitude bounds, either may be set independently
	MinAltitudeMeters *float64 `json:"minAltitudeMeters,omitempty"`
	MaxAltitudeMeters *float64 `json:"maxAltitudeMeters,omitempty"`

	// Daily active window in "HH:MM"; may wrap past midnight
	ActiveStartTime string `json:"activeStartTime,omitempty"`
	ActiveEndTime   string `json:"activeEndTime,omitempty"`

	Settings *GeofenceSettings `json:"settings,omitempty"`
}

// Cooldown returns the event cooldown for this geofence
func (g *Geofence) Cooldown() time.Duration {
	minutes := DefaultCooldownMinutes
	if g.Settings != nil && g.Settings.CooldownMinutes > 0 {
		minutes = g.Settings.CooldownMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsUrgent reports whether the fence requests urgent alert presentation
func (g *Geofence) IsUrgent() bool {
	return g.Settings != nil && g.Settings.Priority == "urgent"
}

// SampleMetadata carries free-form context attached to a location post
type SampleMetadata struct {
	ParkArea          string `json:"parkArea,omitempty"`
	CurrentAttraction string `json:"currentAttraction,omitempty"`
	Activity          string `json:"activity,omitempty"`
	DeviceInfo        string `json:"deviceInfo,omitempty"`
}

// LocationSample is a single validated GPS reading for one traveler.
// Immutable once received; the tracker keeps only the latest per user.
type LocationSample struct {
	UserID    string          `json:"userId"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	Accuracy  *float64        `json:"accuracy,omitempty"`
	Altitude  *float64        `json:"altitude,omitempty"`
	Heading   *float64        `json:"heading,omitempty"`
	Speed     *float64        `json:"speed,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Metadata  *SampleMetadata `json:"metadata,omitempty"`
}

// Point returns the sample's coordinate
func (s *LocationSample) Point() geo.Point {
	return geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// GeofenceEventType distinguishes entry from exit transitions
type GeofenceEventType string

// Geofence event types
const (
	EventEntry GeofenceEventType = "entry"
	EventExit  GeofenceEventType = "exit"
)

// EventUser identifies the traveler a geofence event belongs to
type EventUser struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Location geo.Point `json:"location"`
}

// GeofenceEvent is an edge-triggered containment transition. Events are
// produced by the engine and handed to the dispatcher; they are never
// stored by the core itself.
type GeofenceEvent struct {
	Geofence       Geofence          `json:"geofence"`
	User           EventUser         `json:"user"`
	Type           GeofenceEventType `json:"type"`
	DistanceMeters float64           `json:"distanceMeters"`
	Timestamp      time.Time         `json:"timestamp"`
}

// EnergyLevel describes how much walking a party member is up for
type EnergyLevel string

// Energy levels
const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// Preferences captures a party member's tastes and needs
type Preferences struct {
	AttractionTags    []string    `json:"attractionTags,omitempty"`
	DiningTags        []string    `json:"diningTags,omitempty"`
	AccessibilityTags []string    `json:"accessibilityTags,omitempty"`
	EnergyLevel       EnergyLevel `json:"energyLevel,omitempty"`
}

// PartyMember is one traveler in a recommendation request
type PartyMember struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Age             *int        `json:"age,omitempty"`
	Preferences     Preferences `json:"preferences"`
	CurrentLocation *geo.Point  `json:"currentLocation,omitempty"`
}

// RecommendationType names the six suggestion categories
type RecommendationType string

// Recommendation categories
const (
	RecommendAttraction RecommendationType = "attraction"
	RecommendDining     RecommendationType = "dining"
	RecommendPhoto      RecommendationType = "photo"
	RecommendRest       RecommendationType = "rest"
	RecommendShow       RecommendationType = "show"
	RecommendMeeting    RecommendationType = "meeting"
)

// Recommendation is one actionable, ephemeral suggestion. Recomputed on
// every invocation and never persisted by this core.
type Recommendation struct {
	ID                     string             `json:"id"`
	Type                   RecommendationType `json:"type"`
	Title                  string             `json:"title"`
	Description            string             `json:"description"`
	Priority               int                `json:"priority"`
	Confidence             float64            `json:"confidence"`
	EstimatedTimeMinutes   int                `json:"estimatedTimeMinutes"`
	WalkingTimeMinutes     int                `json:"walkingTimeMinutes"`
	DistanceFromUserMeters float64            `json:"distanceFromUserMeters"`
	Reasons                []string           `json:"reasons"`
	Data                   map[string]any     `json:"data,omitempty"`
	ExpiresAt              *time.Time         `json:"expiresAt,omitempty"`
	WeatherDependent       bool               `json:"weatherDependent,omitempty"`
}
