package render

// Label metrics. Both backends size label boxes from the same analytic
// estimate: the vector path has no live text measurement available, and
// the raster path must match it for the outputs to stay identical.
const (
	// LabelCharWidth approximates glyph advance as a fraction of the
	// font size for proportional faces.
	LabelCharWidth = 0.55

	// LabelBoxPadX and LabelBoxPadY pad the background box around the
	// estimated text extents.
	LabelBoxPadX = 6.0
	LabelBoxPadY = 4.0

	// LabelOffset is the gap between an object's edge and its label
	// anchor; the leader line spans it.
	LabelOffset = 14.0

	// LabelBoxColor is the background box fill.
	LabelBoxColor = "#10131f"

	// LabelBoxAlpha is the background box opacity.
	LabelBoxAlpha = 0.85

	// LeaderColor is the leader line color.
	LeaderColor = "#6b7689"
)

// EstimateTextWidth approximates rendered text width from character count
// and font size.
func EstimateTextWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * LabelCharWidth
}
