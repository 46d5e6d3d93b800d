package recommend

import (
	"fmt"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

// dining keep-gate
const diningKeepThreshold = 0.4

// mealBucket maps an hour of day to the meal being served, empty when
// no dining recommendations apply
func mealBucket(hour int) string {
	switch {
	case hour >= 7 && hour < 11:
		return "breakfast"
	case hour >= 11 && hour < 14:
		return "lunch"
	case hour >= 14 && hour < 17:
		return "snack"
	case hour >= 17 && hour < 22:
		return "dinner"
	default:
		return ""
	}
}

func (e *Engine) diningRecommendations(pc *partyContext) []model.Recommendation {
	meal := mealBucket(pc.now.Hour())
	if meal == "" {
		return nil
	}

	var recs []model.Recommendation

	for _, d := range e.catalog.Dining() {
		distance := geo.DistanceMeters(pc.centroid, d.Location)
		if distance > maxDiningDistance {
			continue
		}

		score, reasons := scoreDining(d, meal, pc)
		if score <= diningKeepThreshold {
			continue
		}

		walk := geo.EstimateWalkingMinutes(distance)
		reasons = append(reasons, walkingReason(walk))

		duration := d.DurationMinutes
		if duration == 0 {
			if d.ServiceType == ServiceTable {
				duration = 60
			} else {
				duration = 25
			}
		}

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendDining,
			Title:                  d.Name,
			Description:            fmt.Sprintf("%s for %s nearby", d.Name, meal),
			Priority:               5,
			Confidence:             clampConfidence(score),
			EstimatedTimeMinutes:   duration,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons:                reasons,
			Data: map[string]any{
				"diningId":    d.ID,
				"meal":        meal,
				"serviceType": string(d.ServiceType),
			},
		})
	}

	return recs
}

func scoreDining(d DiningLocation, meal string, pc *partyContext) (float64, []string) {
	score := 0.5
	var reasons []string

	if servesMeal(d, meal) {
		if d.ServiceType == ServiceTable {
			score += 0.3
		} else {
			score += 0.2
		}
		reasons = append(reasons, fmt.Sprintf("serving %s now", meal))
	}

	if bonus := tagOverlapBonus(d.CuisineTags, pc.diningTags, 0.3); bonus > 0 {
		score += bonus
		reasons = append(reasons, "matches your party's food preferences")
	}

	if len(pc.accessibility) > 0 && d.Accessible {
		score += 0.2
		reasons = append(reasons, "meets your accessibility needs")
	}

	return score, reasons
}

func servesMeal(d DiningLocation, meal string) bool {
	for _, m := range d.MealTypes {
		if m == meal {
			return true
		}
	}
	return false
}
