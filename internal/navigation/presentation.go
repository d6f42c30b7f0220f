package navigation

// PresentationKind distinguishes the two modal presentations.
type PresentationKind int

const (
	KindFullScreen PresentationKind = iota
	KindSheet
)

func (k PresentationKind) String() string {
	switch k {
	case KindFullScreen:
		return "fullscreen"
	case KindSheet:
		return "sheet"
	default:
		return "unknown"
	}
}

// Visibility controls the sheet drag indicator.
type Visibility int

const (
	VisibilityAutomatic Visibility = iota
	VisibilityVisible
	VisibilityHidden
)

// Detent is a resting height for a sheet, as a fraction of the screen.
type Detent struct {
	Fraction float64
}

var (
	DetentMedium = Detent{Fraction: 0.5}
	DetentLarge  = Detent{Fraction: 1}
)

// DetentFraction returns a custom detent clamped to (0, 1].
func DetentFraction(f float64) Detent {
	if f <= 0 || f > 1 {
		f = 1
	}
	return Detent{Fraction: f}
}

// PresentationStyle is either full-screen or a sheet with optional detents
// and a drag indicator setting.
type PresentationStyle struct {
	kind          PresentationKind
	detents       []Detent
	dragIndicator Visibility
}

// FullScreen covers the whole screen.
func FullScreen() PresentationStyle {
	return PresentationStyle{kind: KindFullScreen}
}

// Sheet presents over the current screen. With no detents the presentation
// layer picks its own height.
func Sheet(detents ...Detent) PresentationStyle {
	return PresentationStyle{kind: KindSheet, detents: append([]Detent(nil), detents...)}
}

// WithDragIndicator sets the drag indicator visibility. It is ignored for
// full-screen styles.
func (s PresentationStyle) WithDragIndicator(v Visibility) PresentationStyle {
	if s.kind == KindSheet {
		s.dragIndicator = v
	}
	return s
}

func (s PresentationStyle) Kind() PresentationKind { return s.kind }

// Detents returns the sheet detents, or nil for full-screen.
func (s PresentationStyle) Detents() []Detent {
	if s.kind != KindSheet || len(s.detents) == 0 {
		return nil
	}
	return append([]Detent(nil), s.detents...)
}

// DragIndicator returns the sheet drag indicator, or false for full-screen.
func (s PresentationStyle) DragIndicator() (Visibility, bool) {
	if s.kind != KindSheet {
		return VisibilityAutomatic, false
	}
	return s.dragIndicator, true
}

// SameKind compares styles ignoring sheet configuration.
func (s PresentationStyle) SameKind(other PresentationStyle) bool {
	return s.kind == other.kind
}

// Presented is the single active modal. View is whatever the screen provider
// produced; the core never looks inside it.
type Presented struct {
	View  any
	Style PresentationStyle
}
