package recommend

import (
	"fmt"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

// restTriggerThreshold is the aggregate rest priority that makes rest
// suggestions worth surfacing at all
const restTriggerThreshold = 5

// restPriority aggregates how badly the party needs a break
func restPriority(pc *partyContext) int {
	priority := pc.lowEnergyCount * 3

	hour := pc.now.Hour()
	if hour >= 14 && hour < 16 {
		// the classic mid-afternoon slump
		priority += 2
	}
	if hour >= 20 {
		priority += 3
	}
	if pc.snapshot.IsHot() {
		priority += 2
	}

	return priority
}

func (e *Engine) restRecommendations(pc *partyContext) []model.Recommendation {
	need := restPriority(pc)
	if need < restTriggerThreshold {
		return nil
	}

	var reasons []string
	if pc.lowEnergyCount > 0 {
		reasons = append(reasons, fmt.Sprintf("%d party member(s) running low on energy", pc.lowEnergyCount))
	}
	if pc.snapshot.IsHot() {
		reasons = append(reasons, "it's hot out, time to cool down")
	}
	if pc.now.Hour() >= 20 {
		reasons = append(reasons, "it's been a long day")
	}

	var recs []model.Recommendation

	for _, r := range e.catalog.RestAreas() {
		distance := geo.DistanceMeters(pc.centroid, r.Location)
		if distance > maxRestDistance {
			continue
		}

		walk := geo.EstimateWalkingMinutes(distance)

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendRest,
			Title:                  r.Name,
			Description:            fmt.Sprintf("Take a break at %s", r.Name),
			Priority:               clampPriority(need),
			Confidence:             0.8,
			EstimatedTimeMinutes:   20,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons:                append(append([]string{}, reasons...), walkingReason(walk)),
			Data: map[string]any{
				"restAreaId": r.ID,
				"indoor":     r.Indoor,
			},
		})
	}

	return recs
}
