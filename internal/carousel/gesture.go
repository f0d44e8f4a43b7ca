package carousel

// PointerKind distinguishes touch from mouse drags. Touch gestures are
// typically shorter, so they get a smaller sensitivity threshold.
type PointerKind int

const (
	Touch PointerKind = iota
	Mouse
)

const (
	touchThreshold = 50
	mouseThreshold = 100
)

func (k PointerKind) threshold() float64 {
	if k == Touch {
		return touchThreshold
	}
	return mouseThreshold
}

// Intent is the navigation a completed gesture asks for.
type Intent int

const (
	IntentNone Intent = iota
	IntentForward
	IntentBackward
)

// Gesture tracks one drag from pointer-down to pointer-up. Moves only
// record the current coordinate; interpretation happens at End.
type Gesture struct {
	Kind     PointerKind `json:"kind"`
	OriginX  float64     `json:"originX"`
	CurrentX float64     `json:"currentX"`
	Active   bool        `json:"active"`
}

// Begin starts tracking a gesture at x.
func Begin(kind PointerKind, x float64) Gesture {
	return Gesture{Kind: kind, OriginX: x, CurrentX: x, Active: true}
}

// Move records the pointer's current position. Moves on an inactive
// gesture are ignored.
func (g Gesture) Move(x float64) Gesture {
	if !g.Active {
		return g
	}
	g.CurrentX = x
	return g
}

// End finishes the gesture and interprets the displacement: beyond the
// kind's threshold to the right asks for the previous item, to the left
// for the next one; anything inside the dead zone is no navigation.
// The returned gesture is always cleared.
func (g Gesture) End() (Intent, Gesture) {
	if !g.Active {
		return IntentNone, Gesture{}
	}
	displacement := g.CurrentX - g.OriginX
	threshold := g.Kind.threshold()

	intent := IntentNone
	switch {
	case displacement > threshold:
		intent = IntentBackward
	case displacement < -threshold:
		intent = IntentForward
	}
	return intent, Gesture{}
}

// Apply performs the navigation an intent asks for, if any.
func (s State) Apply(intent Intent) State {
	switch intent {
	case IntentForward:
		return s.Advance(Forward)
	case IntentBackward:
		return s.Advance(Backward)
	}
	return s
}
