package cli

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/matzehuels/orrery/pkg/cache"
	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/render/vector"
	"github.com/matzehuels/orrery/pkg/scene"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"png"}},
		{"svg", []string{"svg"}},
		{"png,svg,json", []string{"png", "svg", "json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"png", "svg", "json", "vector-png"}); err != nil {
		t.Errorf("all supported formats rejected: %v", err)
	}
	err := validateFormats([]string{"png", "gif"})
	if err == nil {
		t.Fatal("gif should be rejected")
	}
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestApplyPreset(t *testing.T) {
	opts := renderOpts{width: 100, height: 100, preset: "1080p"}
	if err := applyPreset(&opts); err != nil {
		t.Fatal(err)
	}
	if opts.width != 1920 || opts.height != 1080 {
		t.Errorf("preset size = %dx%d, want 1920x1080", opts.width, opts.height)
	}

	opts.preset = "8k"
	if err := applyPreset(&opts); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown preset: err = %v", err)
	}

	// No preset leaves explicit dimensions alone.
	opts = renderOpts{width: 640, height: 480}
	if err := applyPreset(&opts); err != nil || opts.width != 640 {
		t.Errorf("empty preset changed size: %dx%d, %v", opts.width, opts.height, err)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		opts   renderOpts
		format string
		want   string
	}{
		{renderOpts{seed: 42, formats: []string{"png"}}, "png", "system_42.png"},
		{renderOpts{seed: 42, formats: []string{"png"}, output: "out.png"}, "png", "out.png"},
		{renderOpts{seed: 7, formats: []string{"png", "svg"}, output: "base"}, "svg", "base.svg"},
		{renderOpts{seed: 7, formats: []string{"png", "vector-png"}}, "vector-png", "system_7.vector.png"},
	}
	for _, tt := range tests {
		if got := outputPath(&tt.opts, tt.format); got != tt.want {
			t.Errorf("outputPath(%+v, %q) = %q, want %q", tt.opts, tt.format, got, tt.want)
		}
	}
}

func TestExporterFormats(t *testing.T) {
	exp := NewExporter(cache.NewNullCache())
	defer exp.Close()
	ctx := context.Background()
	s := scene.Build(42, scene.DefaultConfig())

	for _, format := range []string{FormatPNG, FormatSVG, FormatJSON, FormatVectorPNG} {
		data, err := exp.Export(ctx, s, format, 320, 240)
		if err != nil {
			t.Errorf("%s: %v", format, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s: empty artifact", format)
		}
	}

	if _, err := exp.Export(ctx, s, "gif", 320, 240); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: err = %v", err)
	}
}

func TestVectorPNGIncludesText(t *testing.T) {
	// The SVG rasterizer skips text elements, so the exported artifact
	// must differ from a geometry-only rasterization of the same document.
	exp := NewExporter(cache.NewNullCache())
	defer exp.Close()
	s := scene.Build(42, scene.DefaultConfig())

	data, err := exp.Export(context.Background(), s, FormatVectorPNG, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	doc, err := vector.Render(s, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	geom, err := vector.Rasterize(doc, 400, 300)
	if err != nil {
		t.Fatal(err)
	}

	diff := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			ar, ag, ab, aa := img.At(x, y).RGBA()
			br, bg, bb, ba := geom.At(x, y).RGBA()
			if ar != br || ag != bg || ab != bb || aa != ba {
				diff++
			}
		}
	}
	if diff == 0 {
		t.Error("vector-png artifact has no text pixels over the geometry pass")
	}
}

func TestExporterUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	exp := NewExporter(fc)
	defer exp.Close()
	ctx := context.Background()
	s := scene.Build(7, scene.DefaultConfig())

	a, err := exp.Export(ctx, s, FormatSVG, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	b, err := exp.Export(ctx, s, FormatSVG, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("cached artifact differs")
	}
}

func TestExporterRejectsOverlap(t *testing.T) {
	exp := NewExporter(cache.NewNullCache())
	defer exp.Close()
	s := scene.Build(1, scene.DefaultConfig())

	// Hold the in-flight flag and check a second export is refused.
	exp.inFlight.Store(true)
	_, err := exp.Export(context.Background(), s, FormatSVG, 100, 100)
	if !errors.Is(err, errors.ErrCodeExportInFlight) {
		t.Fatalf("error code = %v, want EXPORT_IN_FLIGHT", errors.GetCode(err))
	}
	exp.inFlight.Store(false)

	// Concurrent exports: every outcome is either success or the
	// in-flight rejection, never a torn artifact.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := exp.Export(context.Background(), s, FormatSVG, 100, 100)
			if err != nil && !errors.Is(err, errors.ErrCodeExportInFlight) {
				t.Errorf("unexpected error: %v", err)
			}
			if err == nil && len(data) == 0 {
				t.Error("empty artifact")
			}
		}()
	}
	wg.Wait()
}

func TestFormatExt(t *testing.T) {
	if got := formatExt(FormatVectorPNG); got != "vector.png" {
		t.Errorf("formatExt(vector-png) = %q", got)
	}
	if got := formatExt(FormatSVG); got != "svg" {
		t.Errorf("formatExt(svg) = %q", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 1200 || cfg.Height != 800 {
		t.Errorf("default surface = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Cache.Backend != cacheBackendFile {
		t.Errorf("default cache backend = %q", cfg.Cache.Backend)
	}

	// Missing file keeps defaults.
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
width = 1920
height = 1080

[label]
size = 14
color = "#ffffff"
corner = "bottom-left"
background = true

[cache]
backend = "none"

[server]
addr = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1920 || cfg.Height != 1080 {
		t.Errorf("surface = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Label.Corner != "bottom-left" || !cfg.Label.Background {
		t.Errorf("label = %+v", cfg.Label)
	}
	if cfg.Cache.Backend != cacheBackendNone {
		t.Errorf("cache backend = %q", cfg.Cache.Backend)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("server addr = %q", cfg.Serve.Addr)
	}
}
