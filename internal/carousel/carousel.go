// Package carousel implements the rotating four-slot selection as a pure
// state machine. State is an owned value passed to and returned from every
// operation, so multiple instances coexist and nothing here touches I/O;
// rendering is a separate pure function of state (see view.go).
package carousel

import "fmt"

// MaxItems is the fixed capacity of the ring.
const MaxItems = 4

// slotStep is the angular distance between adjacent slots.
const slotStep = 90

// Provider is one streaming provider entry on an item.
type Provider struct {
	Name     string `json:"name"`
	LogoPath string `json:"logoPath"`
}

// Availability groups an item's providers by access mode.
type Availability struct {
	Flatrate []Provider `json:"flatrate,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Buy      []Provider `json:"buy,omitempty"`
}

// Item is one catalog entry held by the carousel. Availability may be
// nil when the lookup failed or returned nothing; the item then renders
// without provider badges.
type Item struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	VoteAverage  float64       `json:"voteAverage"`
	ReleaseDate  string        `json:"releaseDate"`
	Overview     string        `json:"overview"`
	PosterPath   string        `json:"posterPath"`
	Availability *Availability `json:"availability,omitempty"`
}

// Direction of an Advance.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// State holds the carousel's items, the front-facing index and the
// accumulated rotation. Rotation is a signed multiple of 90 degrees and
// is deliberately unbounded; it only has to stay consistent with
// ActiveIndex modulo the ring.
type State struct {
	Items       []Item `json:"items"`
	ActiveIndex int    `json:"activeIndex"`
	Rotation    int    `json:"rotation"`
}

// Initialize returns a fresh state populated with up to MaxItems items,
// front-facing the first one.
func Initialize(items []Item) State {
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return State{Items: append([]Item(nil), items...)}
}

// Advance rotates the ring one step. Forward brings the next item to the
// front (rotation decreases); Backward the previous one. On an empty
// state it is a no-op.
func (s State) Advance(d Direction) State {
	n := len(s.Items)
	if n == 0 {
		return s
	}
	switch d {
	case Forward:
		s.Rotation -= slotStep
		s.ActiveIndex = (s.ActiveIndex + 1) % n
	case Backward:
		s.Rotation += slotStep
		s.ActiveIndex = (s.ActiveIndex - 1 + n) % n
	}
	return s
}

// JumpTo makes the item at target front-facing, adjusting the rotation
// by the signed index delta. An out-of-range target leaves the state
// unchanged and reports an error.
func (s State) JumpTo(target int) (State, error) {
	if target < 0 || target >= len(s.Items) {
		return s, fmt.Errorf("carousel: index %d out of range [0,%d)", target, len(s.Items))
	}
	delta := target - s.ActiveIndex
	s.Rotation -= delta * slotStep
	s.ActiveIndex = target
	return s, nil
}

// Reset returns the empty state. Resetting an already-empty state is a
// no-op.
func (s State) Reset() State {
	return State{}
}

// Empty reports whether the carousel holds no items.
func (s State) Empty() bool { return len(s.Items) == 0 }
