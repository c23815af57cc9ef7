package scene

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"github.com/google/uuid"
)

// Generation constants. These are part of the deterministic contract:
// changing any of them changes every scene.
const (
	MinOrbit      = 40.0
	OrbitGapMin   = 35.0
	OrbitGapMax   = 70.0
	PlanetSizeMin = 4.0
	PlanetSizeMax = 10.0

	MaxPlanets = 20
	MaxStars   = 3

	MoonCountBound  = 4 // moon count drawn from [0, 4)
	RingProbability = 0.25

	BeltParticleCeil  = 900
	BeltMinInner      = 60.0
	BeltMinWidth      = 4.0
	FreeBeltMinRadius = 80.0
	FreeBeltMargin    = 120.0

	StarfieldDots   = 160
	StarfieldExtent = 1400.0
)

// Palette is the muted planet palette, indexed by a seeded draw.
var Palette = []string{
	"#b5651d", "#6b8e9e", "#8f7ba8", "#a8926b",
	"#7a9a6d", "#9e6b7d", "#6d7d9a", "#a87b6b",
}

// RingPalette holds ring tints.
var RingPalette = []string{"#cdbf9a", "#9ab4cd", "#cd9a9a", "#a5cd9a"}

// Build resolves a complete Scene from the seed and configuration. It is
// pure: identical inputs yield an identical Scene, and overriding one
// planet never changes another planet, a belt, or a station.
func Build(seed int64, cfg Config) *Scene {
	cfg = clampConfig(cfg)

	s := &Scene{Seed: seed, Config: cfg}
	s.Starfield = buildStarfield(seed)
	s.Stars = buildStars(seed, cfg.NumStars)
	s.Planets = buildPlanets(seed, cfg)
	s.Belts = buildBelts(seed, cfg, s.Planets)
	s.Stations = resolveStations(cfg.Stations)
	return s
}

// clampConfig forces every value into the range the builder's invariants
// assume. The UI layer is expected to clamp too; this is the boundary.
func clampConfig(cfg Config) Config {
	cfg.NumPlanets = clampInt(cfg.NumPlanets, 0, MaxPlanets)
	cfg.NumStars = clampInt(cfg.NumStars, 1, MaxStars)
	if cfg.MoonMinSize <= 0 {
		cfg.MoonMinSize = 1.5
	}
	if cfg.MoonMaxSize < cfg.MoonMinSize {
		cfg.MoonMaxSize = cfg.MoonMinSize
	}
	if cfg.MoonOrbitMin <= 0 {
		cfg.MoonOrbitMin = 6
	}
	if cfg.MoonOrbitMax < cfg.MoonOrbitMin {
		cfg.MoonOrbitMax = cfg.MoonOrbitMin
	}
	if cfg.Label.Size <= 0 {
		cfg.Label.Size = 12
	}
	if cfg.Label.Color == "" {
		cfg.Label.Color = "#e8ecf4"
	}
	switch cfg.Label.Corner {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
	default:
		cfg.Label.Corner = CornerTopRight
	}

	belts := make([]BeltConfig, len(cfg.Belts))
	for i, b := range cfg.Belts {
		if b.Kind != BeltAnchored {
			b.Kind = BeltFree
		}
		b.Width = math.Max(b.Width, BeltMinWidth)
		b.Density = clampFloat(b.Density, 0, 1)
		belts[i] = b
	}
	cfg.Belts = belts
	return cfg
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// buildStarfield scatters background dots over a fixed extent around the
// origin, from a stream independent of everything else.
func buildStarfield(seed int64) []Dot {
	st := NewStream(seed, SaltStarfield, 0)
	dots := make([]Dot, StarfieldDots)
	for i := range dots {
		dots[i] = Dot{
			X:     st.Range(-StarfieldExtent, StarfieldExtent),
			Y:     st.Range(-StarfieldExtent, StarfieldExtent),
			Size:  st.Range(0.3, 1.2),
			Alpha: st.Range(0.2, 0.9),
		}
	}
	return dots
}

// buildStars positions 1-3 stars: one centered, two opposed about a random
// axis, three at 120 degree spacing. Kinds are drawn from the same stream
// after the layout values.
func buildStars(seed int64, count int) []Star {
	st := NewStream(seed, SaltStars, 0)
	axis := st.Range(0, 2*math.Pi)
	spread := st.Range(30, 60)

	stars := make([]Star, count)
	for i := range stars {
		var x, y float64
		switch count {
		case 1:
			// centered
		case 2:
			a := axis + float64(i)*math.Pi
			x, y = spread*math.Cos(a), spread*math.Sin(a)
		case 3:
			a := axis + float64(i)*2*math.Pi/3
			x, y = spread*math.Cos(a), spread*math.Sin(a)
		}
		stars[i] = Star{
			Kind: starKinds[st.IntN(len(starKinds))],
			X:    x,
			Y:    y,
		}
	}
	return stars
}

// buildPlanets generates the planets in index order. Orbit gap, size,
// angle and color come from the orbit stream; moons and rings come from
// per-planet streams salted separately so the three axes vary
// independently. Overrides are applied last and never consume a draw.
func buildPlanets(seed int64, cfg Config) []Planet {
	orbits := NewStream(seed, SaltOrbits, 0)
	names := NewStream(seed, SaltNames, 0)

	planets := make([]Planet, 0, cfg.NumPlanets)
	radius := MinOrbit
	for i := 0; i < cfg.NumPlanets; i++ {
		radius += orbits.Range(OrbitGapMin, OrbitGapMax)
		p := Planet{
			Index:       i,
			OrbitRadius: radius,
			Size:        orbits.Range(PlanetSizeMin, PlanetSizeMax),
			Angle:       orbits.Range(0, 2*math.Pi),
			Color:       Palette[orbits.IntN(len(Palette))],
			Name:        defaultName(names),
			ShowLabel:   true,
		}

		moonCount := NewStream(seed, SaltMoons, i).IntN(MoonCountBound)
		ring := buildRing(seed, i)

		ov, hasOv := cfg.Overrides[i]
		if hasOv {
			if ov.Name != nil {
				p.Name = *ov.Name
			}
			if ov.Size != nil {
				p.Size = *ov.Size
			}
			if ov.Color != nil {
				p.Color = *ov.Color
			}
			if ov.ShowLabel != nil {
				p.ShowLabel = *ov.ShowLabel
			}
			if ov.MoonCount != nil {
				moonCount = clampInt(*ov.MoonCount, 0, MoonCountBound-1)
			}
			if ov.Ring != nil {
				ring = ringFromOverride(*ov.Ring)
			}
		}
		p.Ring = ring

		p.X = math.Cos(p.Angle) * p.OrbitRadius
		p.Y = math.Sin(p.Angle) * p.OrbitRadius
		if cfg.ShowMoons {
			p.Moons = buildMoons(seed, cfg, &p, moonCount)
		}
		planets = append(planets, p)
	}
	return planets
}

// buildMoons draws moon parameters from the per-planet moon stream. The
// count draw always happens first (in buildPlanets via the same salt), so
// positions depend only on (seed, index) and the effective count.
func buildMoons(seed int64, cfg Config, p *Planet, count int) []Moon {
	if count <= 0 {
		return nil
	}
	st := NewStream(seed, SaltMoons, p.Index)
	_ = st.IntN(MoonCountBound) // skip the count draw consumed by buildPlanets

	moons := make([]Moon, count)
	for i := range moons {
		m := Moon{
			Angle: st.Range(0, 2*math.Pi),
			Orbit: st.Range(cfg.MoonOrbitMin, cfg.MoonOrbitMax) + float64(i)*cfg.MoonOrbitMax,
			Size:  st.Range(cfg.MoonMinSize, cfg.MoonMaxSize),
		}
		d := p.Size + m.Orbit
		m.X = p.X + math.Cos(m.Angle)*d
		m.Y = p.Y + math.Sin(m.Angle)*d
		moons[i] = m
	}
	return moons
}

// buildRing draws ring presence and parameters in one canonical order:
// presence, gap, width, color, opacity, flatten, angle. The order is part
// of the deterministic contract.
func buildRing(seed int64, index int) *Ring {
	st := NewStream(seed, SaltRings, index)
	if !st.Bool(RingProbability) {
		return nil
	}
	return &Ring{
		Gap:      st.Range(2, 6),
		Width:    st.Range(3, 10),
		Color:    RingPalette[st.IntN(len(RingPalette))],
		Opacity:  st.Range(0.3, 0.8),
		Flatten:  st.Range(0.2, 1.0),
		AngleDeg: st.Range(0, 360),
	}
}

func ringFromOverride(ov RingOverride) *Ring {
	if !ov.Enabled {
		return nil
	}
	return &Ring{
		Gap:      math.Max(ov.Gap, 0),
		Width:    math.Max(ov.Width, 1),
		Color:    ov.Color,
		Opacity:  clampFloat(ov.Opacity, 0, 1),
		Flatten:  clampFloat(ov.Flatten, 0.2, 1),
		AngleDeg: ov.AngleDeg,
	}
}

// buildBelts resolves belt geometry and particles. Geometry and particle
// scatter use separate streams so either can be regenerated independently.
// An anchored belt whose gap index no longer exists is skipped.
func buildBelts(seed int64, cfg Config, planets []Planet) []Belt {
	outermost := MinOrbit
	if n := len(planets); n > 0 {
		outermost = planets[n-1].OrbitRadius
	}

	belts := make([]Belt, 0, len(cfg.Belts))
	for i, bc := range cfg.Belts {
		b := Belt{Kind: bc.Kind, Width: bc.Width, Density: bc.Density, GapIndex: bc.GapIndex}

		switch bc.Kind {
		case BeltAnchored:
			k := bc.GapIndex
			if k < 0 || k+1 >= len(planets) {
				continue
			}
			b.Inner, b.Outer = anchoredBounds(planets[k].OrbitRadius, planets[k+1].OrbitRadius, bc.Width)
		default:
			geo := NewStream(seed, SaltBeltGeometry, i)
			center := geo.Range(FreeBeltMinRadius, outermost+FreeBeltMargin)
			b.Inner, b.Outer = centeredBounds(center, bc.Width)
		}

		b.Particles = buildParticles(seed, i, b.Inner, b.Outer, bc.Density)
		belts = append(belts, b)
	}
	return belts
}

// anchoredBounds centers a belt on the mean of two orbit radii, clamped to
// the minimum inner floor.
func anchoredBounds(r1, r2, width float64) (inner, outer float64) {
	return centeredBounds((r1+r2)/2, width)
}

func centeredBounds(center, width float64) (inner, outer float64) {
	inner = center - width/2
	if inner < BeltMinInner {
		inner = BeltMinInner
	}
	return inner, inner + width
}

// buildParticles scatters ceil(900*density) particles across the belt ring
// from the particle stream for this belt index.
func buildParticles(seed int64, index int, inner, outer, density float64) []Dot {
	n := int(math.Ceil(BeltParticleCeil * density))
	if n <= 0 {
		return nil
	}
	st := NewStream(seed, SaltBeltParticles, index)
	dots := make([]Dot, n)
	for i := range dots {
		r := st.Range(inner, outer)
		a := st.Range(0, 2*math.Pi)
		dots[i] = Dot{
			X:     math.Cos(a) * r,
			Y:     math.Sin(a) * r,
			Size:  st.Range(0.4, 1.6),
			Alpha: st.Range(0.25, 0.9),
		}
	}
	return dots
}

// resolveStations converts polar placement to cartesian, assigns IDs, and
// pre-decodes custom icon payloads so the draw pass never blocks. A
// payload that fails to decode leaves Image nil; renderers skip it.
func resolveStations(in []Station) []Station {
	stations := make([]Station, len(in))
	for i, st := range in {
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		if st.Size <= 0 {
			st.Size = 8
		}
		if st.Color == "" {
			st.Color = "#d9e2ec"
		}
		switch st.Icon {
		case IconDiamond, IconTriangle, IconSquare, IconCross, IconSatellite, IconCustom:
		default:
			st.Icon = IconDiamond
		}
		st.X = math.Cos(st.Angle) * st.Radius
		st.Y = math.Sin(st.Angle) * st.Radius
		if st.Icon == IconCustom && len(st.CustomIcon) > 0 && st.Image == nil {
			if img, _, err := image.Decode(bytes.NewReader(st.CustomIcon)); err == nil {
				st.Image = img
			}
		}
		stations[i] = st
	}
	return stations
}
