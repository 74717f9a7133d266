package ui

// Screen names one of the mutually exclusive panels of the page.
type Screen string

const (
	ScreenHome     Screen = "home-screen"
	ScreenExisting Screen = "existing-screen"
	ScreenCreate   Screen = "create-screen"
	ScreenView     Screen = "view-screen"
)

// AllScreens lists the closed set of screens in page order.
var AllScreens = []Screen{ScreenHome, ScreenExisting, ScreenCreate, ScreenView}

// IsValid reports whether s belongs to the closed set.
func (s Screen) IsValid() bool {
	switch s {
	case ScreenHome, ScreenExisting, ScreenCreate, ScreenView:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer
func (s Screen) String() string {
	return string(s)
}

// Screens tracks which screen is active. Exactly one is active at a time.
type Screens struct {
	active Screen
}

func NewScreens() *Screens {
	return &Screens{active: ScreenHome}
}

// Show activates id. Unknown ids are ignored and leave the current screen active.
func (s *Screens) Show(id Screen) {
	if !id.IsValid() {
		return
	}
	s.active = id
}

func (s *Screens) Active() Screen {
	return s.active
}

func (s *Screens) IsActive(id Screen) bool {
	return s.active == id
}
