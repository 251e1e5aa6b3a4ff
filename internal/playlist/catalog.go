package playlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGenre is returned by Catalog for genres it does not carry.
var ErrUnknownGenre = errors.New("unknown genre")

// Catalog is a fixed, in-process music source.
type Catalog struct {
	order  []string
	tracks map[string][]Track
}

// DefaultCatalog returns the built-in workout catalog.
func DefaultCatalog() *Catalog {
	c := &Catalog{tracks: make(map[string][]Track)}
	c.add("High Intensity",
		Track{ID: 1, Title: "Power Up", Artist: "Workout Kings", Duration: "3:45"},
		Track{ID: 2, Title: "Maximum Energy", Artist: "Fitness Beats", Duration: "4:10"},
		Track{ID: 3, Title: "Ultimate Cardio", Artist: "Training Mix", Duration: "3:55"},
	)
	c.add("Cardio",
		Track{ID: 4, Title: "Running Rhythm", Artist: "Cardio Crew", Duration: "4:20"},
		Track{ID: 5, Title: "Endurance Mix", Artist: "Fitness Flow", Duration: "3:50"},
		Track{ID: 6, Title: "Cardio Blast", Artist: "Workout Pros", Duration: "4:05"},
	)
	c.add("Strength Training",
		Track{ID: 7, Title: "Power Lift", Artist: "Gym Heroes", Duration: "3:30"},
		Track{ID: 8, Title: "Iron Pumping", Artist: "Muscle Mix", Duration: "4:15"},
		Track{ID: 9, Title: "Strong & Steady", Artist: "Weight Warriors", Duration: "3:40"},
	)
	c.add("Yoga",
		Track{ID: 10, Title: "Peaceful Flow", Artist: "Zen Masters", Duration: "5:20"},
		Track{ID: 11, Title: "Mindful Movement", Artist: "Yoga Vibes", Duration: "6:10"},
		Track{ID: 12, Title: "Inner Balance", Artist: "Meditation Mood", Duration: "5:45"},
	)
	c.add("Cool Down",
		Track{ID: 13, Title: "Gentle Recovery", Artist: "Cool Beats", Duration: "4:30"},
		Track{ID: 14, Title: "Stretch & Relax", Artist: "Chill Zone", Duration: "4:50"},
		Track{ID: 15, Title: "Wind Down", Artist: "Recovery Rhythm", Duration: "4:15"},
	)
	return c
}

func (c *Catalog) add(genre string, tracks ...Track) {
	for i := range tracks {
		tracks[i].Genre = genre
	}
	c.order = append(c.order, genre)
	c.tracks[genre] = tracks
}

// Genres lists genres in catalog order.
func (c *Catalog) Genres() []string {
	return append([]string(nil), c.order...)
}

// WorkoutMusic returns the tracks of genre. Matching ignores case and
// surrounding spaces.
func (c *Catalog) WorkoutMusic(_ context.Context, genre string) ([]Track, error) {
	want := strings.TrimSpace(genre)
	for _, g := range c.order {
		if strings.EqualFold(g, want) {
			return append([]Track(nil), c.tracks[g]...), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGenre, genre)
}
