// Package render provides dual-medium rendering for star system scenes.
//
// # Overview
//
// [Plan] transforms a resolved [scene.Scene] into a single renderer-agnostic
// display list: a canonical back-to-front op sequence. Two backends
// interpret that same sequence:
//
//   - [raster]: immediate-mode pixel drawing, for on-screen display and
//     PNG export
//   - [vector]: SVG document generation, for vector export and (by
//     rasterizing the document) vector-mode PNG export
//
// Because both backends consume one instruction list generated in one
// place, the two outputs cannot drift apart geometrically.
//
// # Coordinates
//
// Op coordinates are scene pixels about the system origin; backends
// translate by half the surface size. The scene is never rescaled to the
// surface: rendering at a larger size shows more margin, not a zoomed
// composition. Exports rely on this.
//
// [raster]: github.com/matzehuels/orrery/pkg/render/raster
// [vector]: github.com/matzehuels/orrery/pkg/render/vector
package render
