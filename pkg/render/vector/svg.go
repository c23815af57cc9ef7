// Package vector serializes a scene's display list into an SVG document
// and rasterizes such documents for vector-mode PNG export.
//
// The document is geometrically identical to the raster backend's output:
// both interpret the same display list, and label boxes are sized from the
// same analytic text-width estimate since no live text measurement exists
// on this path.
package vector

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/render"
	"github.com/matzehuels/orrery/pkg/scene"
)

const fontFamily = "Go, 'Helvetica Neue', sans-serif"

const hudFontSize = 11

// Render serializes the scene into an SVG document of the given size.
// The scene's absolute pixel coordinates are translated to the surface
// center, exactly as the raster backend does.
func Render(s *scene.Scene, w, h int) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderTarget, "cannot render into a %dx%d document", w, h)
	}

	ops := render.Plan(s)
	cx, cy := float64(w)/2, float64(h)/2

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n", w, h, w, h)

	writeDefs(&buf, ops)
	glow := 0
	for _, op := range ops {
		writeOp(&buf, op, cx, cy, &glow)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// writeDefs emits one radialGradient per glow op, in op order. Element
// order assigns the ids, so the body pass counts glows the same way.
func writeDefs(buf *bytes.Buffer, ops []render.Op) {
	var defs bytes.Buffer
	i := 0
	for _, op := range ops {
		g, ok := op.(render.Glow)
		if !ok {
			continue
		}
		fmt.Fprintf(&defs, `    <radialGradient id="glow-%d">`+"\n", i)
		fmt.Fprintf(&defs, `      <stop offset="0" stop-color="%s" stop-opacity="%s"/>`+"\n", g.Inner, num(g.InnerAlpha))
		fmt.Fprintf(&defs, `      <stop offset="1" stop-color="%s" stop-opacity="0"/>`+"\n", g.Inner)
		defs.WriteString("    </radialGradient>\n")
		i++
	}
	if i == 0 {
		return
	}
	buf.WriteString("  <defs>\n")
	buf.Write(defs.Bytes())
	buf.WriteString("  </defs>\n")
}

func writeOp(buf *bytes.Buffer, op render.Op, cx, cy float64, glow *int) {
	switch o := op.(type) {
	case render.Background:
		fmt.Fprintf(buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", o.Color)
	case render.Dot:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"/>`+"\n",
			num(cx+o.X), num(cy+o.Y), num(o.R), o.Color, num(o.Alpha))
	case render.Disc:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="%s" fill-opacity="%s"/>`+"\n",
			num(cx+o.X), num(cy+o.Y), num(o.R), o.Color, num(o.Alpha))
	case render.Circle:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s"/>`+"\n",
			num(cx+o.X), num(cy+o.Y), num(o.R), o.Stroke, num(o.Width), num(o.Alpha))
	case render.Ellipse:
		fmt.Fprintf(buf, `  <ellipse cx="%s" cy="%s" rx="%s" ry="%s" fill="none" stroke="%s" stroke-width="%s" stroke-opacity="%s" transform="rotate(%s %s %s)"/>`+"\n",
			num(cx+o.X), num(cy+o.Y), num(o.RX), num(o.RY), o.Stroke, num(o.Width), num(o.Alpha),
			num(o.Rotate), num(cx+o.X), num(cy+o.Y))
	case render.Glow:
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="url(#glow-%d)"/>`+"\n",
			num(cx+o.X), num(cy+o.Y), num(o.R), *glow)
		*glow++
	case render.Line:
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-opacity="%s"/>`+"\n",
			num(cx+o.X1), num(cy+o.Y1), num(cx+o.X2), num(cy+o.Y2), o.Color, num(o.Width), num(o.Alpha))
	case render.Polygon:
		writePolygon(buf, o, cx, cy)
	case render.Image:
		writeImage(buf, o, cx, cy)
	case render.Label:
		fmt.Fprintf(buf, `  <text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			num(o.X+cx), num(o.Y+cy), fontFamily, num(o.Size), o.Color, escape(o.Text))
	case render.HUD:
		for i, line := range o.Lines {
			fmt.Fprintf(buf, `  <text x="12" y="%d" font-family="%s" font-size="%d" fill="%s" fill-opacity="0.9">%s</text>`+"\n",
				20+i*16, fontFamily, hudFontSize, render.StarfieldColor, escape(line))
		}
	}
}

func writePolygon(buf *bytes.Buffer, o render.Polygon, cx, cy float64) {
	if len(o.Points) == 0 {
		return
	}
	var pts bytes.Buffer
	for i, p := range o.Points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%s,%s", num(cx+p.X), num(cy+p.Y))
	}
	fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" fill-opacity="%s"/>`+"\n",
		pts.String(), o.Fill, num(o.Alpha))
}

// writeImage embeds the raw custom-icon payload as a data URI. The vector
// document carries the bytes even when in-process decoding failed, since
// the consuming viewer may still understand the format.
func writeImage(buf *bytes.Buffer, o render.Image, cx, cy float64) {
	if len(o.Data) == 0 {
		return
	}
	mime := http.DetectContentType(o.Data)
	fmt.Fprintf(buf, `  <image x="%s" y="%s" width="%s" height="%s" preserveAspectRatio="xMidYMid meet" href="data:%s;base64,%s"/>`+"\n",
		num(cx+o.X-o.W/2), num(cy+o.Y-o.H/2), num(o.W), num(o.H),
		mime, base64.StdEncoding.EncodeToString(o.Data))
}

// num formats a coordinate with enough precision for sub-pixel geometry
// without bloating the document.
func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
