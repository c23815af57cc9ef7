// Package raster draws a scene's display list onto a pixel surface using
// an immediate-mode canvas. It backs on-screen display and PNG export.
package raster

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/render"
	"github.com/matzehuels/orrery/pkg/scene"
)

const hudFontSize = 11

// Render draws the scene into a new surface of the given size. Scene
// coordinates are absolute pixels about the origin, so a larger surface
// shows more margin rather than a rescaled composition; exports depend on
// that. The scene is never mutated.
func Render(s *scene.Scene, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderTarget, "cannot render into a %dx%d surface", w, h)
	}

	face, err := LabelFace(s.Config.FontPath, s.Config.Label.Size)
	if err != nil {
		return nil, err
	}
	hudFace, err := LabelFace(s.Config.FontPath, hudFontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	cx, cy := float64(w)/2, float64(h)/2

	for _, op := range render.Plan(s) {
		switch o := op.(type) {
		case render.Background:
			setColor(dc, o.Color, 1)
			dc.Clear()
		case render.Dot:
			setColor(dc, o.Color, o.Alpha)
			dc.DrawCircle(cx+o.X, cy+o.Y, o.R)
			dc.Fill()
		case render.Disc:
			setColor(dc, o.Color, o.Alpha)
			dc.DrawCircle(cx+o.X, cy+o.Y, o.R)
			dc.Fill()
		case render.Circle:
			setColor(dc, o.Stroke, o.Alpha)
			dc.SetLineWidth(o.Width)
			dc.DrawCircle(cx+o.X, cy+o.Y, o.R)
			dc.Stroke()
		case render.Ellipse:
			drawEllipse(dc, o, cx, cy)
		case render.Glow:
			drawGlow(dc, o, cx, cy)
		case render.Line:
			setColor(dc, o.Color, o.Alpha)
			dc.SetLineWidth(o.Width)
			dc.DrawLine(cx+o.X1, cy+o.Y1, cx+o.X2, cy+o.Y2)
			dc.Stroke()
		case render.Polygon:
			drawPolygon(dc, o, cx, cy)
		case render.Image:
			drawImage(dc, o, cx, cy)
		case render.Label:
			drawLabel(dc, o, face, cx, cy)
		case render.HUD:
			drawHUD(dc, o, hudFace)
		}
	}

	return dc.Image(), nil
}

// DrawText composites the scene's label and caption text onto an
// existing surface. SVG rasterizers in the oksvg family draw geometry
// but skip text elements, so vector-mode PNG export rasterizes the
// document first and lays the text down here, at the same anchors the
// direct raster pass uses.
func DrawText(img image.Image, s *scene.Scene, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderTarget, "cannot render into a %dx%d surface", w, h)
	}

	face, err := LabelFace(s.Config.FontPath, s.Config.Label.Size)
	if err != nil {
		return nil, err
	}
	hudFace, err := LabelFace(s.Config.FontPath, hudFontSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContextForImage(img)
	cx, cy := float64(w)/2, float64(h)/2
	for _, op := range render.Plan(s) {
		switch o := op.(type) {
		case render.Label:
			drawLabel(dc, o, face, cx, cy)
		case render.HUD:
			drawHUD(dc, o, hudFace)
		}
	}
	return dc.Image(), nil
}

// EncodePNG serializes a rendered surface.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// HitTest inverts a pointer position on a w x h surface into the polar
// coordinates used for station placement: radius and angle about the
// visual center.
func HitTest(w, h int, px, py float64) (radius, angle float64) {
	dx := px - float64(w)/2
	dy := py - float64(h)/2
	return math.Hypot(dx, dy), math.Atan2(dy, dx)
}

// drawEllipse strokes a rotated, vertically scaled circle; this is how
// rings fake inclination.
func drawEllipse(dc *gg.Context, o render.Ellipse, cx, cy float64) {
	dc.Push()
	dc.RotateAbout(gg.Radians(o.Rotate), cx+o.X, cy+o.Y)
	setColor(dc, o.Stroke, o.Alpha)
	dc.SetLineWidth(o.Width)
	dc.DrawEllipse(cx+o.X, cy+o.Y, o.RX, o.RY)
	dc.Stroke()
	dc.Pop()
}

func drawGlow(dc *gg.Context, o render.Glow, cx, cy float64) {
	x, y := cx+o.X, cy+o.Y
	r, g, b := hexRGB(o.Inner)
	grad := gg.NewRadialGradient(x, y, 0, x, y, o.R)
	grad.AddColorStop(0, rgba(r, g, b, o.InnerAlpha))
	grad.AddColorStop(1, rgba(r, g, b, 0))
	dc.SetFillStyle(grad)
	dc.DrawCircle(x, y, o.R)
	dc.Fill()
}

func drawPolygon(dc *gg.Context, o render.Polygon, cx, cy float64) {
	if len(o.Points) == 0 {
		return
	}
	setColor(dc, o.Fill, o.Alpha)
	dc.MoveTo(cx+o.Points[0].X, cy+o.Points[0].Y)
	for _, pt := range o.Points[1:] {
		dc.LineTo(cx+pt.X, cy+pt.Y)
	}
	dc.ClosePath()
	dc.Fill()
}

func drawLabel(dc *gg.Context, o render.Label, face font.Face, cx, cy float64) {
	setColor(dc, o.Color, 1)
	dc.SetFontFace(face)
	dc.DrawString(o.Text, cx+o.X, cy+o.Y)
}

// drawHUD writes the caption in surface coordinates, not scene
// coordinates; it stays in the corner at any export size.
func drawHUD(dc *gg.Context, o render.HUD, face font.Face) {
	setColor(dc, render.StarfieldColor, 0.9)
	dc.SetFontFace(face)
	for i, line := range o.Lines {
		dc.DrawString(line, 12, 20+float64(i)*16)
	}
}

// drawImage places a pre-decoded custom icon. A station whose payload
// failed to decode carries a nil image and is skipped; the rest of the
// scene renders normally.
func drawImage(dc *gg.Context, o render.Image, cx, cy float64) {
	if o.Img == nil {
		return
	}
	fitted := imaging.Fit(o.Img, int(o.W), int(o.H), imaging.Lanczos)
	dc.DrawImageAnchored(fitted, int(cx+o.X), int(cy+o.Y), 0.5, 0.5)
}
