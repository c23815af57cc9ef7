package render

import (
	"fmt"
	"math"

	"github.com/matzehuels/orrery/pkg/scene"
)

// Scene-wide colors shared by both backends.
const (
	BackgroundColor = "#05060f"
	StarfieldColor  = "#cdd3e0"
	BeltColor       = "#b8a27a"
	OrbitGuideColor = "#2a3246"
	MoonGuideColor  = "#232a3c"
	MoonColor       = "#c9ced9"
	HighlightColor  = "#ffffff"
)

// Plan builds the canonical display list for a scene. Order is
// back-to-front and is part of the rendering contract: background,
// starfield, stars, belt particles, orbit guides, planets (ring, body,
// highlight, moon guides, moons), stations, labels, HUD caption.
func Plan(s *scene.Scene) []Op {
	ops := []Op{Background{Color: BackgroundColor}}

	for _, d := range s.Starfield {
		ops = append(ops, Dot{X: d.X, Y: d.Y, R: d.Size, Color: StarfieldColor, Alpha: d.Alpha})
	}

	for _, st := range s.Stars {
		ops = append(ops, starOps(st)...)
	}

	for _, b := range s.Belts {
		for _, d := range b.Particles {
			ops = append(ops, Dot{X: d.X, Y: d.Y, R: d.Size, Color: BeltColor, Alpha: d.Alpha})
		}
	}

	for _, p := range s.Planets {
		ops = append(ops, Circle{R: p.OrbitRadius, Stroke: OrbitGuideColor, Width: 1, Alpha: 0.9})
	}

	var labels []Op
	for _, p := range s.Planets {
		ops = append(ops, planetOps(p)...)
		if p.ShowLabel && p.Name != "" {
			labels = append(labels, labelOps(p.X, p.Y, p.Size, p.Name, s.Config.Label)...)
		}
	}

	for _, st := range s.Stations {
		ops = append(ops, stationOps(st)...)
		if st.ShowLabel && st.Name != "" {
			labels = append(labels, labelOps(st.X, st.Y, st.Size, st.Name, s.Config.Label)...)
		}
	}

	ops = append(ops, labels...)
	ops = append(ops, HUD{Lines: hudLines(s)})
	return ops
}

// starOps maps a star kind to its fixed glow/core recipe. The treatment
// is type-driven; only the position varies with the seed.
func starOps(st scene.Star) []Op {
	x, y := st.X, st.Y
	switch st.Kind {
	case scene.StarRedDwarf:
		return []Op{
			Glow{X: x, Y: y, R: 34, Inner: "#ff9d7a", InnerAlpha: 0.9},
			Disc{X: x, Y: y, R: 9, Color: "#ff7a55", Alpha: 1},
		}
	case scene.StarBlueGiant:
		return []Op{
			Glow{X: x, Y: y, R: 70, Inner: "#9fc9ff", InnerAlpha: 0.85},
			Disc{X: x, Y: y, R: 22, Color: "#bfe0ff", Alpha: 1},
		}
	case scene.StarNeutron:
		return []Op{
			Glow{X: x, Y: y, R: 28, Inner: "#d7f2ff", InnerAlpha: 1},
			Disc{X: x, Y: y, R: 5, Color: "#ffffff", Alpha: 1},
			Circle{X: x, Y: y, R: 12, Stroke: "#aee6ff", Width: 1.5, Alpha: 0.8},
		}
	case scene.StarBlackHole:
		return []Op{
			Ellipse{X: x, Y: y, RX: 30, RY: 9, Rotate: 20, Stroke: "#ff9a3d", Width: 3, Alpha: 0.8},
			Disc{X: x, Y: y, R: 14, Color: "#000000", Alpha: 1},
			Circle{X: x, Y: y, R: 16, Stroke: "#ffb35c", Width: 2, Alpha: 1},
		}
	default: // yellow
		return []Op{
			Glow{X: x, Y: y, R: 54, Inner: "#ffdf8a", InnerAlpha: 0.9},
			Disc{X: x, Y: y, R: 16, Color: "#ffd36b", Alpha: 1},
		}
	}
}

// planetOps draws one planet: ring behind the body, then body, highlight,
// moon orbit guides, moons.
func planetOps(p scene.Planet) []Op {
	var ops []Op
	if r := p.Ring; r != nil {
		rx := p.Size + r.Gap + r.Width/2
		ops = append(ops, Ellipse{
			X: p.X, Y: p.Y,
			RX: rx, RY: rx * r.Flatten,
			Rotate: r.AngleDeg,
			Stroke: r.Color, Width: r.Width, Alpha: r.Opacity,
		})
	}

	ops = append(ops,
		Disc{X: p.X, Y: p.Y, R: p.Size, Color: p.Color, Alpha: 1},
		Disc{X: p.X - p.Size/3, Y: p.Y - p.Size/3, R: p.Size/3, Color: HighlightColor, Alpha: 0.25},
	)

	for _, m := range p.Moons {
		ops = append(ops, Circle{X: p.X, Y: p.Y, R: p.Size + m.Orbit, Stroke: MoonGuideColor, Width: 0.75, Alpha: 0.9})
	}
	for _, m := range p.Moons {
		ops = append(ops, Disc{X: m.X, Y: m.Y, R: m.Size, Color: MoonColor, Alpha: 1})
	}
	return ops
}

// stationOps expands a station icon into primitives. This switch is the
// single exhaustive icon mapping shared by both backends; a new icon kind
// only needs a case here.
func stationOps(st scene.Station) []Op {
	x, y, s := st.X, st.Y, st.Size
	switch st.Icon {
	case scene.IconTriangle:
		return []Op{Polygon{
			Points: []Point{{x, y - s}, {x + s, y + s}, {x - s, y + s}},
			Fill:   st.Color, Alpha: 1,
		}}
	case scene.IconSquare:
		return []Op{Polygon{
			Points: []Point{{x - s, y - s}, {x + s, y - s}, {x + s, y + s}, {x - s, y + s}},
			Fill:   st.Color, Alpha: 1,
		}}
	case scene.IconCross:
		w := s / 2.5
		return []Op{
			Line{X1: x - s, Y1: y, X2: x + s, Y2: y, Color: st.Color, Width: w, Alpha: 1},
			Line{X1: x, Y1: y - s, X2: x, Y2: y + s, Color: st.Color, Width: w, Alpha: 1},
		}
	case scene.IconSatellite:
		panel := s * 0.8
		return []Op{
			Line{X1: x - s - panel, Y1: y, X2: x + s + panel, Y2: y, Color: st.Color, Width: 1, Alpha: 1},
			Polygon{Points: []Point{
				{x - s - panel, y - panel/2}, {x - s, y - panel/2},
				{x - s, y + panel/2}, {x - s - panel, y + panel/2},
			}, Fill: st.Color, Alpha: 0.7},
			Polygon{Points: []Point{
				{x + s, y - panel/2}, {x + s + panel, y - panel/2},
				{x + s + panel, y + panel/2}, {x + s, y + panel/2},
			}, Fill: st.Color, Alpha: 0.7},
			Disc{X: x, Y: y, R: s/2, Color: st.Color, Alpha: 1},
		}
	case scene.IconCustom:
		if st.Image == nil && len(st.CustomIcon) == 0 {
			return nil
		}
		// A payload that failed to decode is skipped on the raster path;
		// the vector path can still embed the raw bytes.
		return []Op{Image{X: x, Y: y, W: 2 * s, H: 2 * s, Img: st.Image, Data: st.CustomIcon}}
	default: // diamond
		return []Op{Polygon{
			Points: []Point{{x, y - s}, {x + s, y}, {x, y + s}, {x - s, y}},
			Fill:   st.Color, Alpha: 1,
		}}
	}
}

// labelOps draws the leader line, the optional background box (as a
// polygon so backends need no extra rect op), and the text.
func labelOps(x, y, objRadius float64, text string, style scene.LabelStyle) []Op {
	lx, ly := labelAnchor(x, y, objRadius, style.Corner, text, style.Size)
	w := EstimateTextWidth(text, style.Size)

	ops := []Op{Line{X1: x, Y1: y, X2: lx, Y2: ly, Color: LeaderColor, Width: 0.75, Alpha: 0.8}}
	if style.Background {
		x0 := lx - LabelBoxPadX
		y0 := ly - style.Size - LabelBoxPadY
		x1 := lx + w + LabelBoxPadX
		y1 := ly + LabelBoxPadY
		ops = append(ops, Polygon{
			Points: []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}},
			Fill:   LabelBoxColor, Alpha: LabelBoxAlpha,
		})
	}
	return append(ops, Label{X: lx, Y: ly, Text: text, Size: style.Size, Color: style.Color, Box: style.Background})
}

func hudLines(s *scene.Scene) []string {
	return []string{
		fmt.Sprintf("seed %d", s.Seed),
		fmt.Sprintf("%d planets · %d moons · %d belts · %d stations",
			len(s.Planets), s.MoonCount(), len(s.Belts), len(s.Stations)),
	}
}

// Extent returns the radius of the smallest origin-centered circle
// containing every scene object, useful for choosing a surface size.
func Extent(s *scene.Scene) float64 {
	r := 80.0
	for _, p := range s.Planets {
		r = math.Max(r, p.OrbitRadius+p.Size+scene.PlanetSizeMax)
	}
	for _, b := range s.Belts {
		r = math.Max(r, b.Outer)
	}
	for _, st := range s.Stations {
		r = math.Max(r, st.Radius+st.Size)
	}
	return r
}
