package recommend

import (
	"fmt"
	"math"
	"time"

	"github.com/parkpilot/location-core/internal/geo"
	"github.com/parkpilot/location-core/internal/model"
)

// shows within this horizon are worth planning around
const showHorizonMinutes = 120

// arrival buffers: fireworks crowds form early
const (
	fireworksBufferMinutes = 30
	defaultBufferMinutes   = 15
)

func (e *Engine) showRecommendations(pc *partyContext) []model.Recommendation {
	var recs []model.Recommendation

	for _, s := range e.catalog.Shows() {
		distance := geo.DistanceMeters(pc.centroid, s.Location)
		walk := geo.EstimateWalkingMinutes(distance)

		buffer := defaultBufferMinutes
		if s.Category == ShowFireworks {
			buffer = fireworksBufferMinutes
		}

		minutesUntil, startsAt, ok := nextShowtime(pc.now, s.ShowTimes)
		if !ok {
			continue
		}

		// eligible only when the party can still make it with the
		// arrival buffer to spare, within the planning horizon
		if minutesUntil < walk+buffer || minutesUntil > showHorizonMinutes {
			continue
		}

		// urgency rises as showtime approaches
		priority := int(math.Floor(10 - float64(minutesUntil)/20))
		if priority > 9 {
			priority = 9
		}

		expiresAt := startsAt.Add(-time.Duration(buffer) * time.Minute)

		recs = append(recs, model.Recommendation{
			ID:                     newID(),
			Type:                   model.RecommendShow,
			Title:                  s.Name,
			Description:            fmt.Sprintf("%s starts in %d minutes", s.Name, minutesUntil),
			Priority:               clampPriority(priority),
			Confidence:             0.8,
			EstimatedTimeMinutes:   s.DurationMinutes,
			WalkingTimeMinutes:     walk,
			DistanceFromUserMeters: distance,
			Reasons: []string{
				fmt.Sprintf("starts at %s", startsAt.Format("15:04")),
				fmt.Sprintf("leave within %d minutes to get a spot", minutesUntil-walk-buffer),
				walkingReason(walk),
			},
			Data: map[string]any{
				"showId":   s.ID,
				"category": string(s.Category),
				"startsAt": startsAt,
			},
			ExpiresAt: &expiresAt,
		})
	}

	return recs
}

// nextShowtime returns the soonest upcoming showtime today
func nextShowtime(now time.Time, showTimes []string) (int, time.Time, bool) {
	bestMinutes := 0
	var bestAt time.Time
	found := false

	for _, clock := range showTimes {
		minutes, at, ok := minutesUntilClock(now, clock)
		if !ok {
			continue
		}
		if !found || minutes < bestMinutes {
			bestMinutes = minutes
			bestAt = at
			found = true
		}
	}

	return bestMinutes, bestAt, found
}
