package raster

import (
	"os"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/orrery/pkg/errors"
)

// LabelFace builds the label font face. With an empty name the embedded
// Go Regular face is used; otherwise the font is resolved through the
// system font directories. Face construction failures are resource
// errors: the caller decides whether to fall back or fail the export.
func LabelFace(name string, points float64) (font.Face, error) {
	data := goregular.TTF
	if name != "" {
		path, err := findfont.Find(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResource, err, "find font %q", name)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeResource, err, "read font %s", path)
		}
		data = b
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResource, err, "parse font")
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}
