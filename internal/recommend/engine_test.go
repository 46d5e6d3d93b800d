package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/track"
	"github.com/parkpilot/location-core/internal/weather"
)

// hub is the reference point all test candidates sit around
var hub = geo.Point{Latitude: 28.4177, Longitude: -81.5812}

// metersNorth offsets a point north by roughly the given meters
func metersNorth(p geo.Point, meters float64) geo.Point {
	return geo.Point{
		Latitude:  p.Latitude + meters/111320.0,
		Longitude: p.Longitude,
	}
}

type fakeCatalog struct {
	attractions   []Attraction
	dining        []DiningLocation
	photoSpots    []PhotoSpot
	restAreas     []RestArea
	meetingPoints []MeetingPoint
	shows         []Show
}

func (f *fakeCatalog) Attractions() []Attraction     { return f.attractions }
func (f *fakeCatalog) Dining() []DiningLocation      { return f.dining }
func (f *fakeCatalog) PhotoSpots() []PhotoSpot       { return f.photoSpots }
func (f *fakeCatalog) RestAreas() []RestArea         { return f.restAreas }
func (f *fakeCatalog) MeetingPoints() []MeetingPoint { return f.meetingPoints }
func (f *fakeCatalog) Shows() []Show                 { return f.shows }

func mildWeather() weather.Provider {
	return weather.Static{Snapshot: weather.Snapshot{
		Condition:    weather.ConditionSunny,
		TemperatureC: 24,
		CrowdLevel:   weather.CrowdModerate,
	}}
}

func memberAt(id string, p geo.Point) model.PartyMember {
	loc := p
	return model.PartyMember{ID: id, Name: id, CurrentLocation: &loc}
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestGenerate_NoLocationsNoRecommendations(t *testing.T) {
	catalog := &fakeCatalog{
		attractions: []Attraction{{ID: "a1", Name: "Coaster", Location: hub, FamilyFriendly: true}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	recs := e.Generate(context.Background(), []model.PartyMember{
		{ID: "u1", Name: "Maya"},
	}, at(12, 0))

	assert.Empty(t, recs)
}

func TestGenerate_TrackerBackfillsLocations(t *testing.T) {
	catalog := &fakeCatalog{
		attractions: []Attraction{{
			ID: "a1", Name: "Carousel", Location: metersNorth(hub, 100),
			FamilyFriendly: true, WaitTimeMinutes: 10,
		}},
	}
	tracker := track.NewTracker()
	tracker.Observe(model.LocationSample{UserID: "u1", Latitude: hub.Latitude, Longitude: hub.Longitude})

	e := NewEngine(catalog, mildWeather(), tracker)

	recs := e.Generate(context.Background(), []model.PartyMember{
		{ID: "u1", Name: "Maya"},
	}, at(12, 0))

	require.Len(t, recs, 1)
	assert.Equal(t, model.RecommendAttraction, recs[0].Type)
}

func TestGenerate_BoundsAndOrdering(t *testing.T) {
	catalog := &fakeCatalog{}
	for i := 0; i < 12; i++ {
		wait := 10 + i*5
		catalog.attractions = append(catalog.attractions, Attraction{
			ID:              string(rune('a' + i)),
			Name:            "Ride",
			Location:        metersNorth(hub, float64(50+i*50)),
			FamilyFriendly:  true,
			WaitTimeMinutes: wait,
			DurationMinutes: 20,
		})
	}
	e := NewEngine(catalog, mildWeather(), nil)

	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(12, 0))

	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), 10)

	for i, r := range recs {
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
		assert.GreaterOrEqual(t, r.Priority, 1)
		assert.LessOrEqual(t, r.Priority, 10)
		assert.NotEmpty(t, r.Reasons)

		if i > 0 {
			prev := float64(recs[i-1].Priority) * recs[i-1].Confidence
			cur := float64(r.Priority) * r.Confidence
			assert.GreaterOrEqual(t, prev, cur, "output must be sorted by priority x confidence")
			if prev == cur {
				assert.LessOrEqual(t, recs[i-1].DistanceFromUserMeters, r.DistanceFromUserMeters,
					"ties break by ascending distance")
			}
		}
	}
}

func TestAttractions_WeatherPrefilter(t *testing.T) {
	catalog := &fakeCatalog{
		attractions: []Attraction{
			{ID: "out", Name: "Outdoor Coaster", Location: hub, FamilyFriendly: true, WaitTimeMinutes: 10},
			{ID: "in", Name: "Dark Ride", Location: hub, Indoor: true, FamilyFriendly: true, WaitTimeMinutes: 10},
		},
	}
	rainy := weather.Static{Snapshot: weather.Snapshot{
		Condition: weather.ConditionRainy, TemperatureC: 20, CrowdLevel: weather.CrowdModerate,
	}}
	e := NewEngine(catalog, rainy, nil)

	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(12, 0))

	require.Len(t, recs, 1)
	assert.Equal(t, "in", recs[0].Data["attractionId"])
}

func TestAttractions_HeatKeepsIndoorAndWater(t *testing.T) {
	catalog := &fakeCatalog{
		attractions: []Attraction{
			{ID: "out", Name: "Outdoor Coaster", Location: hub, FamilyFriendly: true, WaitTimeMinutes: 10},
			{ID: "splash", Name: "Splash Rapids", Location: hub, WaterRide: true, FamilyFriendly: true, WaitTimeMinutes: 10},
		},
	}
	hot := weather.Static{Snapshot: weather.Snapshot{
		Condition: weather.ConditionSunny, TemperatureC: 35, CrowdLevel: weather.CrowdModerate,
	}}
	e := NewEngine(catalog, hot, nil)

	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(12, 0))

	var ids []any
	for _, r := range recs {
		if r.Type == model.RecommendAttraction {
			ids = append(ids, r.Data["attractionId"])
		}
	}
	assert.Equal(t, []any{"splash"}, ids)
}

func TestAttractions_ThrillRideWithYoungChildrenDropped(t *testing.T) {
	height := 120
	catalog := &fakeCatalog{
		attractions: []Attraction{{
			ID: "thrill", Name: "Mega Coaster", Location: hub,
			ThrillRide: true, MinHeightCM: &height, WaitTimeMinutes: 20,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	age := 5
	party := []model.PartyMember{
		memberAt("u1", hub),
		{ID: "u2", Name: "Kid", Age: &age},
	}

	recs := e.Generate(context.Background(), party, at(12, 0))
	assert.Empty(t, recs)
}

func TestAttractions_FastPassBonus(t *testing.T) {
	catalog := &fakeCatalog{
		attractions: []Attraction{{
			ID: "fp", Name: "Headliner", Location: hub,
			FamilyFriendly: true, WaitTimeMinutes: 50, FastPassAvailable: true,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(12, 0))

	require.Len(t, recs, 1)
	assert.Equal(t, 7, recs[0].Priority) // base 5 + FastPass 2
}

func TestDining_MealBucketScenario(t *testing.T) {
	catalog := &fakeCatalog{
		dining: []DiningLocation{{
			ID: "d1", Name: "Trattoria", Location: metersNorth(hub, 100),
			ServiceType: ServiceTable,
			MealTypes:   []string{"lunch", "dinner"},
			CuisineTags: []string{"italian"},
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	party := []model.PartyMember{{
		ID: "u1", Name: "Maya",
		Preferences:     model.Preferences{DiningTags: []string{"italian"}},
		CurrentLocation: &hub,
	}}

	// 12:30 is lunch: the table-service match scores well above the gate
	recs := e.Generate(context.Background(), party, at(12, 30))
	require.Len(t, recs, 1)
	assert.Equal(t, model.RecommendDining, recs[0].Type)
	assert.Equal(t, "lunch", recs[0].Data["meal"])

	// 03:00 has no meal bucket: no dining at all
	recs = e.Generate(context.Background(), party, at(3, 0))
	assert.Empty(t, recs)
}

func TestDining_AccessibilityBonus(t *testing.T) {
	catalog := &fakeCatalog{
		dining: []DiningLocation{{
			ID: "d1", Name: "Canteen", Location: hub,
			ServiceType: ServiceQuick,
			MealTypes:   []string{"snack"},
			Accessible:  true,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	party := []model.PartyMember{{
		ID: "u1", Name: "Maya",
		Preferences:     model.Preferences{AccessibilityTags: []string{"wheelchair"}},
		CurrentLocation: &hub,
	}}

	// snack hour: 0.5 + 0.2 meal fit + 0.2 accessibility = 0.9
	recs := e.Generate(context.Background(), party, at(15, 0))
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.9, recs[0].Confidence, 0.001)
}

func TestMealBucket(t *testing.T) {
	tests := []struct {
		hour     int
		expected string
	}{
		{6, ""},
		{7, "breakfast"},
		{10, "breakfast"},
		{11, "lunch"},
		{13, "lunch"},
		{14, "snack"},
		{16, "snack"},
		{17, "dinner"},
		{21, "dinner"},
		{22, ""},
		{3, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, mealBucket(tt.hour), "hour %d", tt.hour)
	}
}

func TestPhoto_LightingAndExpiry(t *testing.T) {
	catalog := &fakeCatalog{
		photoSpots: []PhotoSpot{{
			ID: "p1", Name: "Castle Forecourt", Location: metersNorth(hub, 200), SubLocations: 2,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)
	party := []model.PartyMember{memberAt("u1", hub)}

	// 09:00 is excellent light: present, expires in 90 minutes
	now := at(9, 0)
	recs := e.Generate(context.Background(), party, now)
	require.Len(t, recs, 1)
	assert.Equal(t, model.RecommendPhoto, recs[0].Type)
	require.NotNil(t, recs[0].ExpiresAt)
	assert.Equal(t, now.Add(90*time.Minute), *recs[0].ExpiresAt)
	assert.Equal(t, 5, recs[0].Priority)

	// 16:00 is good light: shorter expiry
	now = at(16, 0)
	recs = e.Generate(context.Background(), party, now)
	require.Len(t, recs, 1)
	assert.Equal(t, now.Add(60*time.Minute), *recs[0].ExpiresAt)
}

func TestPhoto_FairLightFarSpotDropped(t *testing.T) {
	catalog := &fakeCatalog{
		photoSpots: []PhotoSpot{{
			ID: "p1", Name: "Plain Wall", Location: metersNorth(hub, 500),
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	// 13:00 is fair light, the spot is far and featureless: 0.5 base only
	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(13, 0))
	assert.Empty(t, recs)
}

func TestRest_TriggeredByLowEnergyAndHeat(t *testing.T) {
	catalog := &fakeCatalog{
		restAreas: []RestArea{{ID: "r1", Name: "Shaded Garden", Location: metersNorth(hub, 300), Indoor: false}},
	}
	hot := weather.Static{Snapshot: weather.Snapshot{
		Condition: weather.ConditionSunny, TemperatureC: 34, CrowdLevel: weather.CrowdModerate,
	}}
	e := NewEngine(catalog, hot, nil)

	party := []model.PartyMember{
		{ID: "u1", Name: "Maya", Preferences: model.Preferences{EnergyLevel: model.EnergyLow}, CurrentLocation: &hub},
	}

	// low-energy member (3) + heat (2) = 5, at the trigger threshold
	recs := e.Generate(context.Background(), party, at(10, 0))
	require.Len(t, recs, 1)
	assert.Equal(t, model.RecommendRest, recs[0].Type)
	assert.Equal(t, 0.8, recs[0].Confidence)
	assert.Equal(t, 5, recs[0].Priority)
}

func TestRest_NotTriggeredForFreshParty(t *testing.T) {
	catalog := &fakeCatalog{
		restAreas: []RestArea{{ID: "r1", Name: "Shaded Garden", Location: hub}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	party := []model.PartyMember{
		{ID: "u1", Name: "Maya", Preferences: model.Preferences{EnergyLevel: model.EnergyHigh}, CurrentLocation: &hub},
	}

	recs := e.Generate(context.Background(), party, at(10, 0))
	assert.Empty(t, recs)
}

func TestShows_EligibilityBuffer(t *testing.T) {
	// ~650 m away is a 10 minute walk
	catalog := &fakeCatalog{
		shows: []Show{{
			ID: "s1", Name: "Evening Spectacular", Location: metersNorth(hub, 650),
			Category: ShowFireworks, ShowTimes: []string{"19:40"}, DurationMinutes: 20,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)
	party := []model.PartyMember{memberAt("u1", hub)}

	// 40 minutes out covers the 10 minute walk plus the 30 minute buffer
	recs := e.Generate(context.Background(), party, at(19, 0))
	require.Len(t, recs, 1)
	assert.Equal(t, model.RecommendShow, recs[0].Type)
	require.NotNil(t, recs[0].ExpiresAt)
	assert.Equal(t, at(19, 10), *recs[0].ExpiresAt) // showtime minus buffer

	// 35 minutes out does not
	recs = e.Generate(context.Background(), party, at(19, 5))
	assert.Empty(t, recs)
}

func TestShows_NonFireworksBuffer(t *testing.T) {
	catalog := &fakeCatalog{
		shows: []Show{{
			ID: "s2", Name: "Street Parade", Location: metersNorth(hub, 650),
			Category: ShowParade, ShowTimes: []string{"19:35"}, DurationMinutes: 25,
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)
	party := []model.PartyMember{memberAt("u1", hub)}

	// 35 minutes out, 10 walk + 15 buffer = 25: eligible
	recs := e.Generate(context.Background(), party, at(19, 0))
	require.Len(t, recs, 1)
}

func TestShows_BeyondHorizonSkipped(t *testing.T) {
	catalog := &fakeCatalog{
		shows: []Show{{
			ID: "s1", Name: "Evening Spectacular", Location: hub,
			Category: ShowFireworks, ShowTimes: []string{"22:30"},
		}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	// 3.5 hours out is beyond the 2 hour planning horizon
	recs := e.Generate(context.Background(), []model.PartyMember{memberAt("u1", hub)}, at(19, 0))
	assert.Empty(t, recs)
}

func TestMeeting_TriggerScenario(t *testing.T) {
	meet := metersNorth(hub, 300)
	catalog := &fakeCatalog{
		meetingPoints: []MeetingPoint{{ID: "m1", Name: "Clock Tower", Location: meet}},
	}
	e := NewEngine(catalog, mildWeather(), nil)

	// 600 m apart: scattered, trigger
	party := []model.PartyMember{
		memberAt("u1", hub),
		memberAt("u2", metersNorth(hub, 600)),
	}
	recs := e.Generate(context.Background(), party, at(12, 0))
	require.NotEmpty(t, recs)
	assert.Equal(t, model.RecommendMeeting, recs[0].Type)

	// 200 m apart: together, no meeting suggestions
	party = []model.PartyMember{
		memberAt("u1", hub),
		memberAt("u2", metersNorth(hub, 200)),
	}
	recs = e.Generate(context.Background(), party, at(12, 0))
	assert.Empty(t, recs)
}

func TestLightingQuality(t *testing.T) {
	tests := []struct {
		hour     int
		expected string
	}{
		{8, "excellent"},
		{10, "excellent"},
		{11, "good"},
		{12, "good"},
		{13, "fair"},
		{14, "fair"},
		{15, "good"},
		{16, "good"},
		{17, "excellent"},
		{20, "excellent"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, lightingQuality(tt.hour), "hour %d", tt.hour)
	}
}
