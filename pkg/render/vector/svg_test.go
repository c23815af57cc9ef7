package vector

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/scene"
)

func TestRenderDocumentShape(t *testing.T) {
	s := scene.Build(42, scene.DefaultConfig())

	data, err := Render(s, 800, 600)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := string(data)

	if !strings.Contains(doc, `viewBox="0 0 800 600"`) {
		t.Error("missing viewBox")
	}
	if !strings.Contains(doc, `<rect width="100%" height="100%"`) {
		t.Error("missing background rect")
	}
	if !strings.Contains(doc, "seed 42") {
		t.Error("missing HUD seed line")
	}
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestRenderRejectsZeroSurface(t *testing.T) {
	s := scene.Build(1, scene.DefaultConfig())

	for _, dims := range [][2]int{{0, 600}, {800, 0}, {-1, -1}} {
		_, err := Render(s, dims[0], dims[1])
		if err == nil {
			t.Fatalf("Render(%d, %d) should fail", dims[0], dims[1])
		}
		if !errors.Is(err, errors.ErrCodeRenderTarget) {
			t.Errorf("error code = %v, want RENDER_TARGET", errors.GetCode(err))
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	s := scene.Build(123456789, scene.DefaultConfig())

	a, err := Render(s, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Render(s, 640, 480)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical scenes must serialize to identical documents")
	}
}

func TestGlowGradientIDsMatchReferences(t *testing.T) {
	// A handcrafted scene with two glowing stars keeps the gradient
	// count independent of seeded kind selection.
	s := &scene.Scene{
		Config: scene.DefaultConfig(),
		Stars: []scene.Star{
			{Kind: scene.StarYellow, X: -60},
			{Kind: scene.StarBlueGiant, X: 60},
		},
	}

	data, err := Render(s, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	defs := strings.Count(doc, "<radialGradient id=")
	refs := strings.Count(doc, `fill="url(#glow-`)
	if defs != 2 {
		t.Fatalf("gradient defs = %d, want 2", defs)
	}
	if refs != 2 {
		t.Fatalf("gradient references = %d, want 2", refs)
	}
	for _, id := range []string{"glow-0", "glow-1"} {
		if !strings.Contains(doc, `id="`+id+`"`) || !strings.Contains(doc, `url(#`+id+`)`) {
			t.Errorf("gradient %s not paired", id)
		}
	}
}

func TestLabelTextEscaped(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.NumPlanets = 1
	name := "Alpha <&> Prime"
	cfg.Overrides = map[int]scene.PlanetOverride{
		0: {Name: &name},
	}
	s := scene.Build(3, cfg)

	data, err := Render(s, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)

	if strings.Contains(doc, "<&>") {
		t.Error("raw markup characters leaked into the document")
	}
	if !strings.Contains(doc, "Alpha &lt;&amp;&gt; Prime") {
		t.Error("escaped label text missing")
	}
}

func TestCustomIconEmbeddedAsDataURI(t *testing.T) {
	cfg := scene.DefaultConfig()
	cfg.Stations = []scene.Station{
		{Name: "Relay", Radius: 150, Icon: scene.IconCustom, CustomIcon: pngPixel(t)},
	}
	s := scene.Build(9, cfg)

	data, err := Render(s, 800, 600)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `href="data:image/png;base64,`) {
		t.Error("custom icon not embedded as data URI")
	}
}

func TestRasterizeRoundTrip(t *testing.T) {
	s := scene.Build(42, scene.DefaultConfig())
	doc, err := Render(s, 400, 300)
	if err != nil {
		t.Fatal(err)
	}

	img, err := Rasterize(doc, 400, 300)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("surface = %dx%d, want 400x300", b.Dx(), b.Dy())
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	_, err := Rasterize([]byte("not an svg document"), 100, 100)
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if !errors.Is(err, errors.ErrCodeResource) {
		t.Errorf("error code = %v, want RESOURCE_FAILURE", errors.GetCode(err))
	}
}

func TestRasterizeRejectsZeroSurface(t *testing.T) {
	_, err := Rasterize([]byte("<svg/>"), 0, 100)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !errors.Is(err, errors.ErrCodeRenderTarget) {
		t.Errorf("error code = %v, want RENDER_TARGET", errors.GetCode(err))
	}
}

// pngPixel returns a minimal valid 1x1 PNG.
func pngPixel(t *testing.T) []byte {
	t.Helper()
	return []byte{
		0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
		0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
		0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
		0x42, 0x60, 0x82,
	}
}
