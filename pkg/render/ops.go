package render

import (
	"image"

	"github.com/matzehuels/orrery/pkg/scene"
)

// Op is one drawing instruction. The set is closed: backends switch over
// every concrete type and adding a new op forces both to be updated.
type Op interface{ op() }

// Background fills the whole surface.
type Background struct {
	Color string
}

// Dot is a tiny filled circle (starfield, belt particles).
type Dot struct {
	X, Y, R float64
	Color   string
	Alpha   float64
}

// Disc is a filled circle (star cores, planet bodies, moons).
type Disc struct {
	X, Y, R float64
	Color   string
	Alpha   float64
}

// Circle is a stroked circle (orbit and moon-orbit guides, halos).
type Circle struct {
	X, Y, R float64
	Stroke  string
	Width   float64
	Alpha   float64
}

// Ellipse is a stroked, rotated ellipse (planetary rings). RY carries the
// flatten factor; Rotate is degrees.
type Ellipse struct {
	X, Y, RX, RY float64
	Rotate       float64
	Stroke       string
	Width        float64
	Alpha        float64
}

// Glow is a radial gradient from Inner at the center to fully transparent
// at radius R (star glow).
type Glow struct {
	X, Y, R    float64
	Inner      string
	InnerAlpha float64
}

// Line is a stroked segment (label leaders, cross icons, trusses).
type Line struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	Alpha          float64
}

// Point is a polygon vertex.
type Point struct{ X, Y float64 }

// Polygon is a filled closed shape (station icons).
type Polygon struct {
	Points []Point
	Fill   string
	Alpha  float64
}

// Image places a pre-decoded image centered on X/Y, fitted into W x H.
// Data carries the raw payload for document embedding.
type Image struct {
	X, Y, W, H float64
	Img        image.Image
	Data       []byte
}

// Label is anchored text with an optional background box. X/Y are the
// left edge of the text baseline; box geometry derives from the analytic
// width estimate so both backends size it identically.
type Label struct {
	X, Y  float64
	Text  string
	Size  float64
	Color string
	Box   bool
}

// HUD is the fixed-position caption drawn in surface coordinates, not
// scene coordinates.
type HUD struct {
	Lines []string
}

func (Background) op() {}
func (Dot) op()        {}
func (Disc) op()       {}
func (Circle) op()     {}
func (Ellipse) op()    {}
func (Glow) op()       {}
func (Line) op()       {}
func (Polygon) op()    {}
func (Image) op()      {}
func (Label) op()      {}
func (HUD) op()        {}

// labelAnchor returns the label text start position for an object at
// (x, y) with the given corner anchor.
func labelAnchor(x, y, objRadius float64, corner scene.Corner, text string, size float64) (lx, ly float64) {
	off := objRadius + LabelOffset
	w := EstimateTextWidth(text, size)
	switch corner {
	case scene.CornerTopLeft:
		return x - off - w, y - off
	case scene.CornerBottomLeft:
		return x - off - w, y + off
	case scene.CornerBottomRight:
		return x + off, y + off
	default: // top-right
		return x + off, y - off
	}
}
