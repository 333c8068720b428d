package staticmap

import (
	"image"
	"math"

	"github.com/paulmach/osm"
)

// GeoPoint is a geographic coordinate in degrees.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// Feature is anything that can be drawn on top of the base tile layer.
//
// Extent reports the geographic bounding box the feature needs to be visible.
// It takes the candidate zoom and tile size because features with a fixed
// pixel footprint (circles, icons) cover a different geographic area at each
// zoom. Draw projects the feature through the resolved bounds and paints it
// onto the canvas.
//
// Features are immutable once constructed and are drawn in insertion order.
type Feature interface {
	Extent(zoom int, tileSize float64) osm.Bounds
	Draw(bounds *Bounds, img *image.RGBA)
}

// nanMin returns the smaller value, ignoring NaN operands. Used for folding
// extents starting from a NaN seed, so an empty fold stays NaN.
func nanMin(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}

	return math.Min(a, b)
}

func nanMax(a, b float64) float64 {
	if math.IsNaN(a) {
		return b
	}
	if math.IsNaN(b) {
		return a
	}

	return math.Max(a, b)
}
