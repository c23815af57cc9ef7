// Package snapshot implements the lossless scene document format.
//
// A snapshot stores the seed, the global settings, and every planet's
// resolved parameters including its full moon list, so a consumer
// without the generator can reconstruct the visual. Decoding goes the
// other way: it recovers the seed, the settings, and per-planet
// overrides, and leaves geometry to be regenerated by the scene
// builder. The embedded positions are informative, not authoritative.
package snapshot

import (
	"encoding/base64"

	"github.com/matzehuels/orrery/pkg/scene"
)

// Document is the top-level snapshot structure.
type Document struct {
	Seed     int64    `json:"seed"`
	Settings Settings `json:"settings"`
	Planets  []Planet `json:"planets"`
}

// Settings captures everything besides the seed and the planet list.
type Settings struct {
	NumStars            int       `json:"numStars"`
	ShowMoons           bool      `json:"showMoons"`
	MoonMinSize         float64   `json:"moonMinSize"`
	MoonMaxSize         float64   `json:"moonMaxSize"`
	MoonOrbitMin        float64   `json:"moonOrbitMin"`
	MoonOrbitMax        float64   `json:"moonOrbitMax"`
	LabelSize           float64   `json:"labelSize"`
	LabelColor          string    `json:"labelColor"`
	LabelCorner         string    `json:"labelCorner,omitempty"`
	ShowLabelBackground bool      `json:"showLabelBackground"`
	Belts               []Belt    `json:"belts,omitempty"`
	Stations            []Station `json:"stations,omitempty"`
}

// Belt is the user-controlled part of a belt. GapIndex is only present
// for anchored belts.
type Belt struct {
	Type     string  `json:"type"`
	Width    float64 `json:"width"`
	Density  float64 `json:"density"`
	GapIndex *int    `json:"gapIndex,omitempty"`
}

// Station is a serialized station marker. CustomIconData carries the
// raw icon payload base64-encoded.
type Station struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Radius         float64 `json:"radius"`
	Angle          float64 `json:"angle"`
	IconType       string  `json:"iconType"`
	Color          string  `json:"color"`
	Size           float64 `json:"size"`
	CustomIconData string  `json:"customIconData,omitempty"`
	ShowLabel      bool    `json:"showLabel"`
}

// Planet stores one planet's resolved parameters plus its moon list.
type Planet struct {
	OrbitRadius float64 `json:"orbitRadius"`
	Size        float64 `json:"size"`
	Angle       float64 `json:"angle"`
	Color       string  `json:"color"`
	Name        string  `json:"name"`
	MoonsCount  *int    `json:"moonsCount,omitempty"`
	Rings       *Rings  `json:"rings,omitempty"`
	Position    XY      `json:"position"`
	ShowLabel   bool    `json:"showLabel"`
	Moons       []Moon  `json:"moons"`
}

// Rings mirrors a planetary ring. Enabled false pins "no ring" even
// when the generator would produce one.
type Rings struct {
	Enabled  bool    `json:"enabled"`
	Gap      float64 `json:"gap"`
	Width    float64 `json:"width"`
	Color    string  `json:"color"`
	Opacity  float64 `json:"opacity"`
	Flatten  float64 `json:"flatten"`
	AngleDeg float64 `json:"angleDeg"`
}

// Moon is a fully resolved moon.
type Moon struct {
	Angle    float64 `json:"angle"`
	Orbit    float64 `json:"orbit"`
	Size     float64 `json:"size"`
	Position XY      `json:"position"`
}

// XY is a cartesian scene position about the origin.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Encode captures a resolved scene as a snapshot document. The scene is
// not modified; belt particles and the starfield are never persisted.
func Encode(s *scene.Scene) *Document {
	doc := &Document{
		Seed:    s.Seed,
		Planets: make([]Planet, len(s.Planets)),
		Settings: Settings{
			NumStars:            s.Config.NumStars,
			ShowMoons:           s.Config.ShowMoons,
			MoonMinSize:         s.Config.MoonMinSize,
			MoonMaxSize:         s.Config.MoonMaxSize,
			MoonOrbitMin:        s.Config.MoonOrbitMin,
			MoonOrbitMax:        s.Config.MoonOrbitMax,
			LabelSize:           s.Config.Label.Size,
			LabelColor:          s.Config.Label.Color,
			LabelCorner:         string(s.Config.Label.Corner),
			ShowLabelBackground: s.Config.Label.Background,
		},
	}

	// Belts are persisted from the configuration, not the resolved scene:
	// an anchored belt whose gap index is currently dangling is skipped by
	// the builder but must survive the round trip.
	for _, b := range s.Config.Belts {
		sb := Belt{Type: string(b.Kind), Width: b.Width, Density: b.Density}
		if b.Kind == scene.BeltAnchored {
			gap := b.GapIndex
			sb.GapIndex = &gap
		}
		doc.Settings.Belts = append(doc.Settings.Belts, sb)
	}

	for _, st := range s.Stations {
		ss := Station{
			ID:        st.ID,
			Name:      st.Name,
			Radius:    st.Radius,
			Angle:     st.Angle,
			IconType:  string(st.Icon),
			Color:     st.Color,
			Size:      st.Size,
			ShowLabel: st.ShowLabel,
		}
		if len(st.CustomIcon) > 0 {
			ss.CustomIconData = base64.StdEncoding.EncodeToString(st.CustomIcon)
		}
		doc.Settings.Stations = append(doc.Settings.Stations, ss)
	}

	for i, p := range s.Planets {
		count := len(p.Moons)
		sp := Planet{
			OrbitRadius: p.OrbitRadius,
			Size:        p.Size,
			Angle:       p.Angle,
			Color:       p.Color,
			Name:        p.Name,
			MoonsCount:  &count,
			Position:    XY{X: p.X, Y: p.Y},
			ShowLabel:   p.ShowLabel,
			Moons:       make([]Moon, len(p.Moons)),
		}
		if r := p.Ring; r != nil {
			sp.Rings = &Rings{
				Enabled: true,
				Gap:     r.Gap, Width: r.Width, Color: r.Color,
				Opacity: r.Opacity, Flatten: r.Flatten, AngleDeg: r.AngleDeg,
			}
		}
		for j, m := range p.Moons {
			sp.Moons[j] = Moon{
				Angle: m.Angle, Orbit: m.Orbit, Size: m.Size,
				Position: XY{X: m.X, Y: m.Y},
			}
		}
		doc.Planets[i] = sp
	}

	return doc
}

// Decode recovers the seed and a builder configuration from a document.
// Per-planet stored fields become overrides so regeneration reproduces
// the captured planets exactly; orbit radii, angles, moon placement and
// belt particles are recomputed from the seed, not restored.
//
// Missing or out-of-range fields fall back to defaults; the builder's
// own clamping covers numeric ranges.
func Decode(doc *Document) (int64, scene.Config, error) {
	cfg := scene.DefaultConfig()
	set := doc.Settings

	if set.NumStars > 0 {
		cfg.NumStars = set.NumStars
	}
	cfg.ShowMoons = set.ShowMoons
	if set.MoonMinSize > 0 {
		cfg.MoonMinSize = set.MoonMinSize
	}
	if set.MoonMaxSize > 0 {
		cfg.MoonMaxSize = set.MoonMaxSize
	}
	if set.MoonOrbitMin > 0 {
		cfg.MoonOrbitMin = set.MoonOrbitMin
	}
	if set.MoonOrbitMax > 0 {
		cfg.MoonOrbitMax = set.MoonOrbitMax
	}
	if set.LabelSize > 0 {
		cfg.Label.Size = set.LabelSize
	}
	if set.LabelColor != "" {
		cfg.Label.Color = set.LabelColor
	}
	if c := scene.Corner(set.LabelCorner); validCorner(c) {
		cfg.Label.Corner = c
	}
	cfg.Label.Background = set.ShowLabelBackground

	for _, b := range set.Belts {
		bc := scene.BeltConfig{Kind: scene.BeltKind(b.Type), Width: b.Width, Density: b.Density}
		if b.GapIndex != nil {
			bc.GapIndex = *b.GapIndex
		}
		cfg.Belts = append(cfg.Belts, bc)
	}

	for _, st := range set.Stations {
		s := scene.Station{
			ID:        st.ID,
			Name:      st.Name,
			Radius:    st.Radius,
			Angle:     st.Angle,
			Icon:      scene.IconKind(st.IconType),
			Color:     st.Color,
			Size:      st.Size,
			ShowLabel: st.ShowLabel,
		}
		if st.CustomIconData != "" {
			// A corrupt payload degrades to the default icon shape
			// rather than rejecting the whole document.
			if data, err := base64.StdEncoding.DecodeString(st.CustomIconData); err == nil {
				s.CustomIcon = data
			} else {
				s.Icon = scene.IconDiamond
			}
		}
		cfg.Stations = append(cfg.Stations, s)
	}

	cfg.NumPlanets = len(doc.Planets)
	cfg.Overrides = nil
	if len(doc.Planets) > 0 {
		cfg.Overrides = make(map[int]scene.PlanetOverride, len(doc.Planets))
	}
	for i, p := range doc.Planets {
		name, size, color, show := p.Name, p.Size, p.Color, p.ShowLabel
		ov := scene.PlanetOverride{
			Name:      &name,
			Size:      &size,
			Color:     &color,
			ShowLabel: &show,
		}
		if p.MoonsCount != nil {
			count := *p.MoonsCount
			ov.MoonCount = &count
		} else {
			count := len(p.Moons)
			ov.MoonCount = &count
		}
		if r := p.Rings; r != nil {
			ov.Ring = &scene.RingOverride{
				Enabled: r.Enabled,
				Gap:     r.Gap, Width: r.Width, Color: r.Color,
				Opacity: r.Opacity, Flatten: r.Flatten, AngleDeg: r.AngleDeg,
			}
		} else {
			// Absence means the captured planet had no ring, so pin
			// that instead of letting regeneration add one back.
			ov.Ring = &scene.RingOverride{Enabled: false}
		}
		cfg.Overrides[i] = ov
	}

	return doc.Seed, cfg, nil
}

func validCorner(c scene.Corner) bool {
	switch c {
	case scene.CornerTopLeft, scene.CornerTopRight, scene.CornerBottomLeft, scene.CornerBottomRight:
		return true
	}
	return false
}
