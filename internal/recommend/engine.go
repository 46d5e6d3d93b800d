// Package recommend scores and ranks location-aware suggestions for a
// vacation party across six categories: attractions, dining, photo
// spots, rest stops, shows, and meeting points. The engine is a
// stateless computation over its inputs plus a best-effort weather
// snapshot; it may be invoked concurrently for different parties.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/track"
	"github.com/parkpilot/location-core/internal/weather"
)

// Relevance distances per category, meters from the party centroid
const (
	maxAttractionDistance = 2000.0
	maxDiningDistance     = 1500.0
	maxPhotoDistance      = 800.0
	maxRestDistance       = 1000.0
	maxMeetingDistance    = 800.0
)

// meetingTriggerSeparation is the pairwise spread that makes the party
// count as scattered
const meetingTriggerSeparation = 500.0

// maxRecommendations caps the merged output
const maxRecommendations = 10

// Engine generates ranked recommendations for a party
type Engine struct {
	catalog Catalog
	weather weather.Provider
	tracker *track.Tracker
	tracer  trace.Tracer
}

// NewEngine creates a recommendation engine. The tracker is optional;
// when present it back-fills member locations from the last known
// samples.
func NewEngine(catalog Catalog, weatherProvider weather.Provider, tracker *track.Tracker) *Engine {
	return &Engine{
		catalog: catalog,
		weather: weatherProvider,
		tracker: tracker,
		tracer:  otel.Tracer("location-core/recommend"),
	}
}

// partyContext is the per-invocation derived view of the party the
// generators share
type partyContext struct {
	members   []model.PartyMember
	positions []geo.Point
	centroid  geo.Point
	located   bool
	now       time.Time
	snapshot  weather.Snapshot

	hasChildren      bool
	hasYoungChildren bool
	lowEnergyCount   int
	attractionTags   map[string]bool
	diningTags       map[string]bool
	accessibility    map[string]bool
}

// Generate produces the ranked, capped recommendation list for the
// party at the given time
func (e *Engine) Generate(ctx context.Context, party []model.PartyMember, now time.Time) []model.Recommendation {
	ctx, span := e.tracer.Start(ctx, "GenerateRecommendations",
		trace.WithAttributes(attribute.Int("party.size", len(party))))
	defer span.End()

	pc := e.buildPartyContext(ctx, party, now)
	if !pc.located {
		// no member has a location; nothing location-dependent to offer
		span.SetAttributes(attribute.Int("recommendations", 0))
		return nil
	}

	var recs []model.Recommendation
	recs = append(recs, e.attractionRecommendations(pc)...)
	recs = append(recs, e.diningRecommendations(pc)...)
	recs = append(recs, e.photoRecommendations(pc)...)
	recs = append(recs, e.restRecommendations(pc)...)
	recs = append(recs, e.showRecommendations(pc)...)
	recs = append(recs, e.meetingRecommendations(pc)...)

	rank(recs)

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	span.SetAttributes(attribute.Int("recommendations", len(recs)))
	return recs
}

func (e *Engine) buildPartyContext(ctx context.Context, party []model.PartyMember, now time.Time) *partyContext {
	pc := &partyContext{
		members:        party,
		now:            now,
		snapshot:       e.weather.Current(ctx),
		attractionTags: make(map[string]bool),
		diningTags:     make(map[string]bool),
		accessibility:  make(map[string]bool),
	}

	for _, m := range party {
		loc := m.CurrentLocation
		if loc == nil && e.tracker != nil {
			if sample, ok := e.tracker.LastKnown(m.ID); ok {
				p := sample.Point()
				loc = &p
			}
		}
		if loc != nil {
			pc.positions = append(pc.positions, *loc)
		}

		if m.Age != nil {
			if *m.Age < 13 {
				pc.hasChildren = true
			}
			if *m.Age < 8 {
				pc.hasYoungChildren = true
			}
		}
		if m.Preferences.EnergyLevel == model.EnergyLow {
			pc.lowEnergyCount++
		}
		for _, tag := range m.Preferences.AttractionTags {
			pc.attractionTags[strings.ToLower(tag)] = true
		}
		for _, tag := range m.Preferences.DiningTags {
			pc.diningTags[strings.ToLower(tag)] = true
		}
		for _, tag := range m.Preferences.AccessibilityTags {
			pc.accessibility[strings.ToLower(tag)] = true
		}
	}

	pc.centroid, pc.located = geo.Centroid(pc.positions)
	return pc
}

// rank orders by priority × confidence descending, ties broken by
// ascending distance from the user
func rank(recs []model.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		si := float64(recs[i].Priority) * recs[i].Confidence
		sj := float64(recs[j].Priority) * recs[j].Confidence
		if si != sj {
			return si > sj
		}
		return recs[i].DistanceFromUserMeters < recs[j].DistanceFromUserMeters
	})
}

func clampPriority(p int) int {
	if p < 1 {
		return 1
	}
	if p > 10 {
		return 10
	}
	return p
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// tagOverlapBonus awards 0.1 per matching tag up to the limit
func tagOverlapBonus(candidate []string, party map[string]bool, limit float64) float64 {
	var bonus float64
	for _, tag := range candidate {
		if party[strings.ToLower(tag)] {
			bonus += 0.1
		}
	}
	if bonus > limit {
		bonus = limit
	}
	return bonus
}

func newID() string {
	return uuid.New().String()
}

// minutesUntilClock returns the minutes from now until the next
// occurrence of an "HH:MM" clock time today, or ok=false when the time
// has already passed or the value is malformed
func minutesUntilClock(now time.Time, clock string) (int, time.Time, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, time.Time{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, time.Time{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, time.Time{}, false
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		return 0, time.Time{}, false
	}
	return int(at.Sub(now).Minutes()), at, true
}

func walkingReason(minutes int) string {
	return fmt.Sprintf("%d min walk from your party", minutes)
}
