package recommend

import (
	"fmt"
	"time"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

// photo keep-gate
const photoKeepThreshold = 0.5

// lightingQuality buckets the hour of day for photography: low sun
// before 10:00 and after 17:00 is excellent, within two hours of those
// bounds is good, midday is fair
func lightingQuality(hour int) string {
	switch {
	case hour <= 10 || hour >= 17:
		return "excellent"
	case hour <= 12 || hour >= 15:
		return "good"
	default:
		return "fair"
	}
}

func (e *Engine) photoRecommendations(pc *partyContext) []model.Recommendation {
	lighting := lightingQuality(pc.now.Hour())

	var recs []model.Recommendation

	for _, p := range e.catalog.PhotoSpots() {
		distance := geo.DistanceMeters(pc.centroid, p.Location)
		if distance > maxPhotoDistance {
			continue
		}

		score := 0.5
		var reasons []string

		switch lighting {
		case "excellent":
			score += 0.3
			reasons = append(reasons, "excellent light right now")
		case "good":
			score += 0.2
			reasons = append(reasons, "good light right now")
		}

		if distance <= 300 {
			score += 0.2
			reasons = append(reasons, "just steps away")
		}

		if bonus := 0.05 * float64(p.SubLocations); bonus > 0 {
			if bonus > 0.2 {
				bonus = 0.2
			}
			score += bonus
		}

		if score <= photoKeepThreshold {
			continue
		}

		expiry := 60
		priority := 4
		switch lighting {
		case "excellent":
			expiry = 90
			priority = 5
		case "fair":
			priority = 3
		}
		expiresAt := pc.now.Add(time.Duration(expiry) * time.Minute)

		walk := geo.EstimateWalkingMinutes(distance)
		reasons = append(reasons, walkingReason(walk))

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendPhoto,
			Title:                  p.Name,
			Description:            fmt.Sprintf("Catch the %s light at %s", lighting, p.Name),
			Priority:               clampPriority(priority),
			Confidence:             clampConfidence(score),
			EstimatedTimeMinutes:   15,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons:                reasons,
			Data: map[string]any{
				"photoSpotId": p.ID,
				"lighting":    lighting,
			},
			ExpiresAt:        &expiresAt,
			WeatherDependent: true,
		})
	}

	return recs
}
