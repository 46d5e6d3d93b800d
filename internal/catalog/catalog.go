// Package catalog loads the park point-of-interest catalog the
// recommendation engine draws candidates from. The catalog is a YAML
// document maintained alongside the deployment; it is read once at
// startup and treated as immutable afterwards, which keeps concurrent
// reads safe without locking.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parkpilot/location-core/internal/recommend"
)

// Catalog is an immutable in-memory POI catalog
type Catalog struct {
	attractions   []recommend.Attraction
	dining        []recommend.DiningLocation
	photoSpots    []recommend.PhotoSpot
	restAreas     []recommend.RestArea
	meetingPoints []recommend.MeetingPoint
	shows         []recommend.Show
}

type document struct {
	Attractions   []recommend.Attraction     `yaml:"attractions"`
	Dining        []recommend.DiningLocation `yaml:"dining"`
	PhotoSpots    []recommend.PhotoSpot      `yaml:"photoSpots"`
	RestAreas     []recommend.RestArea       `yaml:"restAreas"`
	MeetingPoints []recommend.MeetingPoint   `yaml:"meetingPoints"`
	Shows         []recommend.Show           `yaml:"shows"`
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		attractions:   doc.Attractions,
		dining:        doc.Dining,
		photoSpots:    doc.PhotoSpots,
		restAreas:     doc.RestAreas,
		meetingPoints: doc.MeetingPoints,
		shows:         doc.Shows,
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) validate() error {
	for _, a := range c.attractions {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("attraction missing id or name: %+v", a)
		}
	}
	for _, d := range c.dining {
		if d.ID == "" || d.Name == "" {
			return fmt.Errorf("dining location missing id or name: %+v", d)
		}
	}
	for _, s := range c.shows {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("show missing id or name: %+v", s)
		}
		if len(s.ShowTimes) == 0 {
			return fmt.Errorf("show %s has no showtimes", s.ID)
		}
	}
	return nil
}

// Attractions returns the attraction candidates
func (c *Catalog) Attractions() []recommend.Attraction { return c.attractions }

// Dining returns the dining candidates
func (c *Catalog) Dining() []recommend.DiningLocation { return c.dining }

// PhotoSpots returns the photo spot candidates
func (c *Catalog) PhotoSpots() []recommend.PhotoSpot { return c.photoSpots }

// RestAreas returns the rest area candidates
func (c *Catalog) RestAreas() []recommend.RestArea { return c.restAreas }

// MeetingPoints returns the meeting point candidates
func (c *Catalog) MeetingPoints() []recommend.MeetingPoint { return c.meetingPoints }

// Shows returns the scheduled show candidates
func (c *Catalog) Shows() []recommend.Show { return c.shows }
