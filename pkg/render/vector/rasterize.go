package vector

import (
	"bytes"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/matzehuels/orrery/pkg/errors"
)

// Rasterize renders an SVG document into an RGBA image of the given
// size. The document's viewBox is scaled uniformly and centered so the
// result never distorts, only letterboxes.
//
// The rasterizer handles geometry only: text elements are not part of
// oksvg's path model and come out blank. Callers producing a finished
// pixel artifact composite the scene's text on top with
// [raster.DrawText].
//
// [raster.DrawText]: github.com/matzehuels/orrery/pkg/render/raster
func Rasterize(svg []byte, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeRenderTarget, "cannot rasterize into a %dx%d surface", w, h)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResource, err, "parse svg document")
	}

	vbW, vbH := icon.ViewBox.W, icon.ViewBox.H
	if vbW <= 0 || vbH <= 0 {
		return nil, errors.New(errors.ErrCodeResource, "svg document has no usable viewBox")
	}
	scale := math.Min(float64(w)/vbW, float64(h)/vbH)
	tw, th := vbW*scale, vbH*scale
	icon.SetTarget((float64(w)-tw)/2, (float64(h)-th)/2, tw, th)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
