package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/orrery/pkg/cache"
	"github.com/matzehuels/orrery/pkg/errors"
	"github.com/matzehuels/orrery/pkg/render/raster"
	"github.com/matzehuels/orrery/pkg/render/vector"
	"github.com/matzehuels/orrery/pkg/scene"
	"github.com/matzehuels/orrery/pkg/snapshot"
)

// Output formats for the render command.
const (
	FormatPNG       = "png"        // raster render
	FormatSVG       = "svg"        // vector document
	FormatJSON      = "json"       // lossless snapshot
	FormatVectorPNG = "vector-png" // vector document rasterized in-process
)

// defaultSeed keeps bare `orrery render` reproducible.
const defaultSeed = 42

// exportTTL bounds how long CLI artifacts stay cached.
const exportTTL = 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	seed    int64    // generation seed
	planets int      // planet count
	stars   int      // star count
	moons   bool     // generate moons
	width   int      // surface width in pixels
	height  int      // surface height in pixels
	preset  string   // named export size, overrides width/height
	formats []string // output formats
	output  string   // output file (single format) or base path (multiple)
	from    string   // snapshot file to import instead of generating
	noCache bool     // bypass the artifact cache
}

// presetSizes are the fixed export resolutions.
var presetSizes = map[string][2]int{
	"720p":  {1280, 720},
	"1080p": {1920, 1080},
	"2k":    {2048, 1080},
	"1440p": {2560, 1440},
	"4k":    {3840, 2160},
}

// renderCommand creates the render command for exporting systems.
//
// Default settings:
//   - seed: 42, planets: 6, stars: 1, moons: on
//   - format: png
//   - surface: the configured width/height (1200x800 without a config file)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		seed:    defaultSeed,
		planets: 6,
		stars:   1,
		moons:   true,
		width:   c.Config.Width,
		height:  c.Config.Height,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a star system to PNG, SVG, or a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if err := applyPreset(&opts); err != nil {
				return err
			}
			return c.runRender(cmd, &opts)
		},
	}

	cmd.Flags().Int64VarP(&opts.seed, "seed", "s", opts.seed, "generation seed")
	cmd.Flags().IntVarP(&opts.planets, "planets", "p", opts.planets, "number of planets")
	cmd.Flags().IntVar(&opts.stars, "stars", opts.stars, "number of stars")
	cmd.Flags().BoolVar(&opts.moons, "moons", opts.moons, "generate moons")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "surface height in pixels")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "export size preset: 720p, 1080p, 2k, 1440p, 4k")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json, vector-png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.from, "from", "", "snapshot file to import instead of generating")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatPNG}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	FormatPNG:       true,
	FormatSVG:       true,
	FormatJSON:      true,
	FormatVectorPNG: true,
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'png', 'svg', 'json', or 'vector-png')", f)
		}
	}
	return nil
}

// applyPreset overrides the surface size with a named preset.
func applyPreset(opts *renderOpts) error {
	if opts.preset == "" {
		return nil
	}
	size, ok := presetSizes[opts.preset]
	if !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown preset: %s", opts.preset)
	}
	opts.width, opts.height = size[0], size[1]
	return nil
}

// formatExt maps a format onto its output file extension. The vector
// rasterization path gets a distinct suffix so it never collides with
// the direct raster output.
func formatExt(format string) string {
	if format == FormatVectorPNG {
		return "vector.png"
	}
	return format
}

// outputPath derives the file name for one format.
func outputPath(opts *renderOpts, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	base := opts.output
	if base == "" {
		base = fmt.Sprintf("system_%d", opts.seed)
	}
	return base + "." + formatExt(format)
}

// sceneConfig assembles the builder configuration from flags and the
// config file.
func (c *CLI) sceneConfig(opts *renderOpts) scene.Config {
	cfg := scene.DefaultConfig()
	cfg.NumPlanets = opts.planets
	cfg.NumStars = opts.stars
	cfg.ShowMoons = opts.moons
	cfg.FontPath = c.Config.Font
	cfg.Label = scene.LabelStyle{
		Size:       c.Config.Label.Size,
		Color:      c.Config.Label.Color,
		Corner:     scene.Corner(c.Config.Label.Corner),
		Background: c.Config.Label.Background,
	}
	return cfg
}

// runRender builds (or imports) the scene and writes every requested
// format.
func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	seed, cfg := opts.seed, c.sceneConfig(opts)
	if opts.from != "" {
		var err error
		seed, cfg, err = snapshot.Import(opts.from)
		if err != nil {
			return err
		}
		opts.seed = seed
		logger.Infof("Imported snapshot %s (seed %d)", opts.from, seed)
	}

	prog := newProgress(logger)
	s := scene.Build(seed, cfg)
	prog.done(fmt.Sprintf("Built scene: %d planets, %d moons, %d belts",
		len(s.Planets), s.MoonCount(), len(s.Belts)))

	exp := NewExporter(c.newCache(cmd, opts.noCache))
	defer exp.Close()

	for _, format := range opts.formats {
		spin := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s (%dx%d)", format, opts.width, opts.height))
		spin.Start()
		data, err := exp.Export(ctx, s, format, opts.width, opts.height)
		if err != nil {
			spin.StopWithError(errors.UserMessage(err))
			return err
		}
		spin.Stop()
		if err := ctx.Err(); err != nil {
			return err
		}
		path := outputPath(opts, format)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return errors.Wrap(errors.ErrCodeResource, err, "write %s", path)
		}
		printFile(path)
		logger.Debugf("Generated %s: %d bytes", path, len(data))
	}
	printSuccess("Exported %d artifact(s) for seed %d", len(opts.formats), seed)
	return nil
}

// Exporter produces artifacts for one scene at a time. A second export
// requested while one is running is rejected instead of racing it.
type Exporter struct {
	cache    cache.Cache
	inFlight atomic.Bool
}

// NewExporter creates an exporter backed by the given artifact cache.
func NewExporter(c cache.Cache) *Exporter {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Exporter{cache: c}
}

// Export renders the scene into the requested format, consulting the
// artifact cache first. Overlapping calls return
// [errors.ErrCodeExportInFlight].
func (e *Exporter) Export(ctx context.Context, s *scene.Scene, format string, w, h int) ([]byte, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, errors.New(errors.ErrCodeExportInFlight, "an export is already running")
	}
	defer e.inFlight.Store(false)

	key := cache.ArtifactKey(s.Seed, cache.ConfigHash(s.Config), format, w, h)
	if data, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	data, err := e.produce(s, format, w, h)
	if err != nil {
		return nil, err
	}
	_ = e.cache.Set(ctx, key, data, exportTTL)
	return data, nil
}

func (e *Exporter) produce(s *scene.Scene, format string, w, h int) ([]byte, error) {
	switch format {
	case FormatPNG:
		img, err := raster.Render(s, w, h)
		if err != nil {
			return nil, err
		}
		return raster.EncodePNG(img)
	case FormatSVG:
		return vector.Render(s, w, h)
	case FormatVectorPNG:
		doc, err := vector.Render(s, w, h)
		if err != nil {
			return nil, err
		}
		img, err := vector.Rasterize(doc, w, h)
		if err != nil {
			return nil, err
		}
		// The rasterizer draws geometry only; labels and the caption
		// come from the raster pass.
		img, err = raster.DrawText(img, s, w, h)
		if err != nil {
			return nil, err
		}
		return raster.EncodePNG(img)
	case FormatJSON:
		var buf bytes.Buffer
		if err := snapshot.Write(s, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}

// Close releases the exporter's cache.
func (e *Exporter) Close() {
	_ = e.cache.Close()
}
