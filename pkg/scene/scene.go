package scene

import "image"

// StarKind selects the visual recipe for a star.
type StarKind string

// Supported star kinds.
const (
	StarYellow    StarKind = "yellow"
	StarRedDwarf  StarKind = "red-dwarf"
	StarBlueGiant StarKind = "blue-giant"
	StarNeutron   StarKind = "neutron"
	StarBlackHole StarKind = "black-hole"
)

// starKinds is the draw order for seeded kind selection.
var starKinds = []StarKind{StarYellow, StarRedDwarf, StarBlueGiant, StarNeutron, StarBlackHole}

// IconKind is the closed set of station icon shapes.
type IconKind string

// Supported station icons. IconCustom renders a user-supplied image.
const (
	IconDiamond   IconKind = "diamond"
	IconTriangle  IconKind = "triangle"
	IconSquare    IconKind = "square"
	IconCross     IconKind = "cross"
	IconSatellite IconKind = "satellite"
	IconCustom    IconKind = "custom"
)

// Corner anchors a label relative to its object.
type Corner string

// Supported label corners.
const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// BeltKind distinguishes freely placed belts from belts anchored between
// two planetary orbits.
type BeltKind string

// Supported belt kinds.
const (
	BeltFree     BeltKind = "free"
	BeltAnchored BeltKind = "anchored"
)

// Star is a resolved star. Position is in scene pixels about the origin.
type Star struct {
	Kind StarKind
	X, Y float64
}

// Moon is a resolved moon. Orbit is the distance from the parent planet's
// surface; X/Y are absolute scene coordinates.
type Moon struct {
	Angle float64
	Orbit float64
	Size  float64
	X, Y  float64
}

// Ring describes a planetary ring. Gap is measured from the planet
// surface; Flatten in [0.2, 1] scales the vertical radius to fake
// inclination; AngleDeg rotates the whole ellipse.
type Ring struct {
	Gap      float64
	Width    float64
	Color    string
	Opacity  float64
	Flatten  float64
	AngleDeg float64
}

// Planet is a fully resolved planet with its moons and optional ring.
type Planet struct {
	Index       int
	OrbitRadius float64
	Size        float64
	Angle       float64
	Color       string
	Name        string
	X, Y        float64
	Moons       []Moon
	Ring        *Ring
	ShowLabel   bool
}

// Dot is a small filled circle used for belt particles and starfield dots.
type Dot struct {
	X, Y  float64
	Size  float64
	Alpha float64
}

// Belt is a resolved asteroid belt. Particles are regenerated from
// (seed, belt index) on every build and are never persisted.
type Belt struct {
	Kind      BeltKind
	Width     float64
	Density   float64
	GapIndex  int
	Inner     float64
	Outer     float64
	Particles []Dot
}

// Station is a user-placed marker. Radius/Angle are polar about the
// origin; CustomIcon carries the raw image payload for IconCustom and
// Image its pre-decoded form (nil when decoding failed).
type Station struct {
	ID         string
	Name       string
	Radius     float64
	Angle      float64
	Icon       IconKind
	Color      string
	Size       float64
	ShowLabel  bool
	CustomIcon []byte
	Image      image.Image
	X, Y       float64
}

// LabelStyle is the global label treatment. Per-object ShowLabel flags
// decide participation.
type LabelStyle struct {
	Size       float64
	Color      string
	Corner     Corner
	Background bool
}

// BeltConfig is the user-controlled part of a belt.
type BeltConfig struct {
	Kind     BeltKind
	Width    float64
	Density  float64
	GapIndex int
}

// RingOverride replaces the generated ring of one planet. Enabled false
// removes the ring entirely.
type RingOverride struct {
	Enabled  bool
	Gap      float64
	Width    float64
	Color    string
	Opacity  float64
	Flatten  float64
	AngleDeg float64
}

// PlanetOverride pins individual fields of one planet. Nil fields keep
// the generated value.
type PlanetOverride struct {
	Name      *string
	Size      *float64
	Color     *string
	MoonCount *int
	Ring      *RingOverride
	ShowLabel *bool
}

// Config is everything besides the seed that feeds the builder. It is a
// plain value: the builder holds no ambient state.
type Config struct {
	NumPlanets   int
	NumStars     int
	ShowMoons    bool
	MoonMinSize  float64
	MoonMaxSize  float64
	MoonOrbitMin float64
	MoonOrbitMax float64
	Label        LabelStyle
	FontPath     string
	Belts        []BeltConfig
	Stations     []Station
	Overrides    map[int]PlanetOverride
}

// DefaultConfig returns the settings used when the caller specifies
// nothing. Six planets, one star, moons on.
func DefaultConfig() Config {
	return Config{
		NumPlanets:   6,
		NumStars:     1,
		ShowMoons:    true,
		MoonMinSize:  1.5,
		MoonMaxSize:  3.5,
		MoonOrbitMin: 6,
		MoonOrbitMax: 16,
		Label: LabelStyle{
			Size:   12,
			Color:  "#e8ecf4",
			Corner: CornerTopRight,
		},
	}
}

// Scene is the fully resolved, render-ready system. It is immutable once
// built; renderers must treat it as read-only.
type Scene struct {
	Seed      int64
	Config    Config
	Stars     []Star
	Starfield []Dot
	Planets   []Planet
	Belts     []Belt
	Stations  []Station
}

// MoonCount returns the total number of moons across all planets.
func (s *Scene) MoonCount() int {
	n := 0
	for _, p := range s.Planets {
		n += len(p.Moons)
	}
	return n
}
