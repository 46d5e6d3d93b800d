package recommend

import (
	"github.com/parkpilot/location-core/internal/geo"
)

// Attraction is a ride or experience candidate. Wait time, FastPass
// availability, and crowd context come from the live park-data feed and
// are refreshed onto the catalog by its owner.
type Attraction struct {
	ID                string    `yaml:"id" json:"id"`
	Name              string    `yaml:"name" json:"name"`
	Location          geo.Point `yaml:"location" json:"location"`
	Indoor            bool      `yaml:"indoor" json:"indoor"`
	Covered           bool      `yaml:"covered" json:"covered"`
	WaterRide         bool      `yaml:"waterRide" json:"waterRide"`
	ThrillRide        bool      `yaml:"thrillRide" json:"thrillRide"`
	KiddieRide        bool      `yaml:"kiddieRide" json:"kiddieRide"`
	FamilyFriendly    bool      `yaml:"familyFriendly" json:"familyFriendly"`
	MinHeightCM       *int      `yaml:"minHeightCm,omitempty" json:"minHeightCm,omitempty"`
	Tags              []string  `yaml:"tags" json:"tags"`
	WaitTimeMinutes   int       `yaml:"waitTimeMinutes" json:"waitTimeMinutes"`
	FastPassAvailable bool      `yaml:"fastPassAvailable" json:"fastPassAvailable"`
	DurationMinutes   int       `yaml:"durationMinutes" json:"durationMinutes"`
}

// ServiceType distinguishes dining formats
type ServiceType string

// Dining service types
const (
	ServiceTable ServiceType = "table-service"
	ServiceQuick ServiceType = "quick-service"
	ServiceCart  ServiceType = "snack-cart"
)

// DiningLocation is a restaurant or food stand candidate
type DiningLocation struct {
	ID              string      `yaml:"id" json:"id"`
	Name            string      `yaml:"name" json:"name"`
	Location        geo.Point   `yaml:"location" json:"location"`
	ServiceType     ServiceType `yaml:"serviceType" json:"serviceType"`
	MealTypes       []string    `yaml:"mealTypes" json:"mealTypes"`
	CuisineTags     []string    `yaml:"cuisineTags" json:"cuisineTags"`
	Accessible      bool        `yaml:"accessible" json:"accessible"`
	DurationMinutes int         `yaml:"durationMinutes" json:"durationMinutes"`
}

// PhotoSpot is a scenic photo location candidate
type PhotoSpot struct {
	ID           string    `yaml:"id" json:"id"`
	Name         string    `yaml:"name" json:"name"`
	Location     geo.Point `yaml:"location" json:"location"`
	SubLocations int       `yaml:"subLocations" json:"subLocations"`
}

// RestArea is a quiet place the party can recover in
type RestArea struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Location geo.Point `yaml:"location" json:"location"`
	Indoor   bool      `yaml:"indoor" json:"indoor"`
}

// MeetingPoint is a landmark the party can regroup at
type MeetingPoint struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Location geo.Point `yaml:"location" json:"location"`
}

// ShowCategory distinguishes arrival-buffer rules
type ShowCategory string

// Show categories
const (
	ShowFireworks ShowCategory = "fireworks"
	ShowParade    ShowCategory = "parade"
	ShowStage     ShowCategory = "stage"
)

// Show is a scheduled performance with daily showtimes in "HH:MM"
type Show struct {
	ID              string       `yaml:"id" json:"id"`
	Name            string       `yaml:"name" json:"name"`
	Location        geo.Point    `yaml:"location" json:"location"`
	Category        ShowCategory `yaml:"category" json:"category"`
	ShowTimes       []string     `yaml:"showTimes" json:"showTimes"`
	DurationMinutes int          `yaml:"durationMinutes" json:"durationMinutes"`
}

// Catalog supplies the candidate sets the six generators filter and
// score. Implementations must be safe for concurrent reads.
type Catalog interface {
	Attractions() []Attraction
	Dining() []DiningLocation
	PhotoSpots() []PhotoSpot
	RestAreas() []RestArea
	MeetingPoints() []MeetingPoint
	Shows() []Show
}
