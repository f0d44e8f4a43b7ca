package carousel

import (
	"fmt"
)

// Fallback strings for missing optional item data.
const (
	unknownYear     = "unknown"
	missingSynopsis = "No synopsis available."
)

// maxBadges caps the provider logos shown per slot.
const maxBadges = 3

// Slot is the render model of one angular position.
type Slot struct {
	// Rank is the 1-based position in the original result ordering,
	// not the rotating slot position.
	Rank       int        `json:"rank"`
	Angle      int        `json:"angle"`
	Title      string     `json:"title"`
	Rating     string     `json:"rating"`
	Year       string     `json:"year"`
	Overview   string     `json:"overview"`
	PosterPath string     `json:"posterPath"`
	Providers  []Provider `json:"providers"`
}

// View is the full render model of a state: a pure function of State,
// recomputed after every mutation.
type View struct {
	Empty       bool   `json:"empty"`
	Slots       []Slot `json:"slots"`
	ActiveIndex int    `json:"activeIndex"`
	Rotation    int    `json:"rotation"`
	// Indicators has one entry per slot; exactly one is true when the
	// carousel is populated.
	Indicators []bool `json:"indicators"`
}

// Render computes the view of a state.
func Render(s State) View {
	if s.Empty() {
		return View{Empty: true}
	}

	slots := make([]Slot, len(s.Items))
	indicators := make([]bool, len(s.Items))
	for i, item := range s.Items {
		slots[i] = Slot{
			Rank:       i + 1,
			Angle:      i * slotStep,
			Title:      item.Title,
			Rating:     fmt.Sprintf("%.1f", item.VoteAverage),
			Year:       yearOf(item),
			Overview:   overviewOf(item),
			PosterPath: item.PosterPath,
			Providers:  badgeProviders(item.Availability),
		}
	}
	indicators[s.ActiveIndex] = true

	return View{
		Slots:       slots,
		ActiveIndex: s.ActiveIndex,
		Rotation:    s.Rotation,
		Indicators:  indicators,
	}
}

func yearOf(item Item) string {
	if len(item.ReleaseDate) < 4 {
		return unknownYear
	}
	return item.ReleaseDate[:4]
}

func overviewOf(item Item) string {
	if item.Overview == "" {
		return missingSynopsis
	}
	return item.Overview
}

// badgeProviders picks up to maxBadges logos from the first non-empty
// access tier, in input order: subscription first, then rental, then
// purchase.
func badgeProviders(a *Availability) []Provider {
	if a == nil {
		return nil
	}
	for _, tier := range [][]Provider{a.Flatrate, a.Rent, a.Buy} {
		if len(tier) == 0 {
			continue
		}
		if len(tier) > maxBadges {
			tier = tier[:maxBadges]
		}
		return append([]Provider(nil), tier...)
	}
	return nil
}
