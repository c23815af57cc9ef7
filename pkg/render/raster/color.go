package raster

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
)

// hexRGB parses #rgb or #rrggbb into components in [0, 1]. Unparseable
// input comes back white; colors flow in from documents and overrides, so
// a bad value degrades visibly instead of failing the render.
func hexRGB(hex string) (r, g, b float64) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 1, 1, 1
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 1, 1, 1
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255
}

func rgba(r, g, b, a float64) color.Color {
	return color.NRGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func setColor(dc *gg.Context, hex string, alpha float64) {
	r, g, b := hexRGB(hex)
	dc.SetRGBA(r, g, b, alpha)
}
