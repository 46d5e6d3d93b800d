package recommend

import (
	"fmt"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
	"github.com/parkpilot/location-core/internal/weather"
)

// attraction keep-gate: candidates scoring at or below this are dropped
const attractionKeepThreshold = 0.3

func (e *Engine) attractionRecommendations(pc *partyContext) []model.Recommendation {
	var recs []model.Recommendation

	for _, a := range e.catalog.Attractions() {
		distance := geo.DistanceMeters(pc.centroid, a.Location)
		if distance > maxAttractionDistance {
			continue
		}

		if !suitsWeather(a, pc.snapshot) {
			continue
		}

		score, reasons := scoreAttraction(a, pc)
		if score <= attractionKeepThreshold {
			continue
		}

		priority := 5
		if a.FastPassAvailable && a.WaitTimeMinutes > 45 {
			priority += 2
			reasons = append(reasons, "FastPass available, skip the long line")
		}
		switch pc.snapshot.CrowdLevel {
		case weather.CrowdLow:
			priority++
		case weather.CrowdHigh:
			priority--
		}

		walk := geo.EstimateWalkingMinutes(distance)
		reasons = append(reasons, walkingReason(walk))

		duration := a.DurationMinutes
		if duration == 0 {
			duration = 30
		}

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendAttraction,
			Title:                  a.Name,
			Description:            fmt.Sprintf("%s, currently a %d minute wait", a.Name, a.WaitTimeMinutes),
			Priority:               clampPriority(priority),
			Confidence:             clampConfidence(score),
			EstimatedTimeMinutes:   duration + a.WaitTimeMinutes,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons:                reasons,
			Data: map[string]any{
				"attractionId":      a.ID,
				"waitTimeMinutes":   a.WaitTimeMinutes,
				"fastPassAvailable": a.FastPassAvailable,
			},
			WeatherDependent: !a.Indoor,
		})
	}

	return recs
}

// suitsWeather applies the weather pre-filter: rain keeps only
// indoor/covered candidates, heat keeps only indoor/water candidates
func suitsWeather(a Attraction, snapshot weather.Snapshot) bool {
	if snapshot.IsRainy() && !a.Indoor && !a.Covered {
		return false
	}
	if snapshot.IsHot() && !a.Indoor && !a.WaterRide {
		return false
	}
	return true
}

func scoreAttraction(a Attraction, pc *partyContext) (float64, []string) {
	score := 0.5
	var reasons []string

	// party-type fit
	if a.FamilyFriendly {
		score += 0.2
		reasons = append(reasons, "great for the whole party")
	}
	if a.ThrillRide && pc.hasYoungChildren {
		score -= 0.3
	}
	if a.KiddieRide && !pc.hasChildren {
		score -= 0.2
	}

	// height-requirement fit: a posted minimum with young children in
	// the party is a likely turn-away at the gate
	if a.MinHeightCM != nil && pc.hasYoungChildren {
		score -= 0.3
	} else {
		score += 0.1
	}

	// wait time
	switch {
	case a.WaitTimeMinutes < 30:
		score += 0.2
		reasons = append(reasons, fmt.Sprintf("short %d minute wait", a.WaitTimeMinutes))
	case a.WaitTimeMinutes > 60:
		score -= 0.2
	}

	// preference-tag overlap
	if bonus := tagOverlapBonus(a.Tags, pc.attractionTags, 0.3); bonus > 0 {
		score += bonus
		reasons = append(reasons, "matches your party's interests")
	}

	return score, reasons
}
