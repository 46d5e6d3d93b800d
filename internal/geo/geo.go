// Package geo provides the geometry primitives shared by the geofencing
// and recommendation engines: great-circle distances via the Haversine
// formula, walking-time estimates, and directional/altitude containment.
package geo

import (
	"math"
)

const (
	// EarthRadiusMeters is the Earth's mean radius in meters
	EarthRadiusMeters = 6371000.0

	// WalkingMetersPerMinute is average human walking speed (4 km/h)
	WalkingMetersPerMinute = 67.0
)

// Point represents a GPS coordinate
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMeters calculates the great-circle distance between two points
// using the Haversine formula
//
// Formula:
// a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
// c = 2 ⋅ atan2( √a, √(1−a) )
// d = R ⋅ c
//
// where:
// φ is latitude, λ is longitude, R is earth's radius (6371000 m)
func DistanceMeters(a, b Point) float64 {
	lat1Rad := degreesToRadians(a.Latitude)
	lat2Rad := degreesToRadians(b.Latitude)
	deltaLat := degreesToRadians(b.Latitude - a.Latitude)
	deltaLon := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// EstimateWalkingMinutes converts a distance to whole walking minutes,
// rounded up
func EstimateWalkingMinutes(distanceMeters float64) int {
	if distanceMeters <= 0 {
		return 0
	}
	return int(math.Ceil(distanceMeters / WalkingMetersPerMinute))
}

// IsWithinDirection reports whether a heading falls within
// target ± range/2, handling the wraparound at 0°/360°
func IsWithinDirection(headingDegrees, targetDirection, rangeDegrees float64) bool {
	half := rangeDegrees / 2
	diff := math.Abs(normalizeDegrees(headingDegrees) - normalizeDegrees(targetDirection))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff <= half
}

// IsWithinAltitude reports whether an altitude satisfies the optional
// bounds; a nil bound is unconstrained
func IsWithinAltitude(altitudeMeters float64, min, max *float64) bool {
	if min != nil && altitudeMeters < *min {
		return false
	}
	if max != nil && altitudeMeters > *max {
		return false
	}
	return true
}

// Centroid returns the arithmetic mean coordinate of the given points
// and false when the slice is empty
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLon += p.Longitude
	}

	n := float64(len(points))
	return Point{
		Latitude:  sumLat / n,
		Longitude: sumLon / n,
	}, true
}

// MaxSeparationMeters returns the largest pairwise distance between the
// given points, zero for fewer than two points
func MaxSeparationMeters(points []Point) float64 {
	var max float64
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if d := DistanceMeters(points[i], points[j]); d > max {
				max = d
			}
		}
	}
	return max
}

// octants in clockwise order starting at north; each spans 45°
var octants = []string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// CompassOctant returns the name of the compass octant nearest the given
// direction in degrees
func CompassOctant(directionDegrees float64) string {
	deg := normalizeDegrees(directionDegrees)
	idx := int(math.Round(deg/45)) % len(octants)
	return octants[idx]
}

// normalizeDegrees maps an angle into [0, 360)
func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// degreesToRadians converts degrees to radians
func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
