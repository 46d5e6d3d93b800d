package recommend

import (
	"fmt"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

func (e *Engine) meetingRecommendations(pc *partyContext) []model.Recommendation {
	if len(pc.positions) < 2 {
		return nil
	}

	separation := geo.MaxSeparationMeters(pc.positions)
	if separation <= meetingTriggerSeparation {
		return nil
	}

	// a widely scattered party outranks most other suggestions
	priority := clampPriority(int(separation / 150))
	if priority < 3 {
		priority = 3
	}

	var recs []model.Recommendation

	for _, mp := range e.catalog.MeetingPoints() {
		distance := geo.DistanceMeters(pc.centroid, mp.Location)
		if distance > maxMeetingDistance {
			continue
		}

		// score by how far the farthest member would have to walk
		var farthest float64
		for _, pos := range pc.positions {
			if d := geo.DistanceMeters(pos, mp.Location); d > farthest {
				farthest = d
			}
		}

		confidence := clampConfidence(0.9 - farthest/2000)
		if confidence < 0.5 {
			confidence = 0.5
		}

		farthestWalk := geo.EstimateWalkingMinutes(farthest)
		walk := geo.EstimateWalkingMinutes(distance)

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendMeeting,
			Title:                  fmt.Sprintf("Regroup at %s", mp.Name),
			Description:            fmt.Sprintf("Your party is %.0f m apart; %s is central for everyone", separation, mp.Name),
			Priority:               priority,
			Confidence:             confidence,
			EstimatedTimeMinutes:   farthestWalk,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons: []string{
				fmt.Sprintf("party is spread %.0f m apart", separation),
				fmt.Sprintf("farthest member walks %d minutes", farthestWalk),
			},
			Data: map[string]any{
				"meetingPointId":   mp.ID,
				"separationMeters": separation,
			},
		})
	}

	return recs
}
