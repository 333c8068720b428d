package staticmap

import (
	"math"

	"github.com/paulmach/osm"
)

// MaxZoom is the highest zoom level considered by the auto-fit search.
const MaxZoom = 17

// fallbackZoom is used when no zoom level can fit all features.
const fallbackZoom = 1

// Bounds is the resolved viewport of a render: canvas size, zoom, projected
// center and the tile index range covering the canvas. It is built once per
// render and never mutated; every feature draws through the same Bounds.
type Bounds struct {
	// Width and Height of the canvas, in pixels.
	Width  int
	Height int

	// TileSize in pixels.
	TileSize int

	// Zoom level of the base layer.
	Zoom int

	// XCenter and YCenter are the projected center, in tile units.
	XCenter float64
	YCenter float64

	// Tile index range covering the canvas: [XMin,XMax) x [YMin,YMax).
	XMin int
	XMax int
	YMin int
	YMax int
}

// XToPx converts a projected x coordinate to a canvas pixel position,
// rounded to the nearest integer.
func (b *Bounds) XToPx(x float64) float64 {
	return math.Round((x-b.XCenter)*float64(b.TileSize) + float64(b.Width)/2)
}

// YToPx converts a projected y coordinate to a canvas pixel position,
// rounded to the nearest integer.
func (b *Bounds) YToPx(y float64) float64 {
	return math.Round((y-b.YCenter)*float64(b.TileSize) + float64(b.Height)/2)
}

type boundsConfig struct {
	width    int
	height   int
	xPadding int
	yPadding int
	tileSize int
	zoom     *int
	center   *GeoPoint
}

// newBounds reconciles the feature extents, the optional explicit zoom and
// center, the padding and the canvas size into a concrete viewport.
//
// With no features and no explicit center the extent is NaN-valued and the
// resulting center degenerates; supplying one of the two is the caller's
// responsibility.
func newBounds(cfg boundsConfig, features []Feature) *Bounds {
	var zoom int
	if cfg.zoom != nil {
		zoom = *cfg.zoom
	} else {
		zoom = calculateZoom(cfg, features)
	}

	var xCenter, yCenter float64
	if cfg.center != nil {
		xCenter = LonToX(cfg.center.Lon, zoom)
		yCenter = LatToY(cfg.center.Lat, zoom)
	} else {
		extent := extentAt(zoom, float64(cfg.tileSize), features, nil)
		xCenter = (LonToX(extent.MinLon, zoom) + LonToX(extent.MaxLon, zoom)) / 2
		yCenter = (LatToY(extent.MaxLat, zoom) + LatToY(extent.MinLat, zoom)) / 2
	}

	xMargin := 0.5 * float64(cfg.width) / float64(cfg.tileSize)
	yMargin := 0.5 * float64(cfg.height) / float64(cfg.tileSize)

	return &Bounds{
		Width:    cfg.width,
		Height:   cfg.height,
		TileSize: cfg.tileSize,
		Zoom:     zoom,
		XCenter:  xCenter,
		YCenter:  yCenter,
		XMin:     int(math.Floor(xCenter - xMargin)),
		XMax:     int(math.Ceil(xCenter + xMargin)),
		YMin:     int(math.Floor(yCenter - yMargin)),
		YMax:     int(math.Ceil(yCenter + yMargin)),
	}
}

// extentAt unions the geographic extents of all features at the given zoom.
// When an explicit center is supplied the union is expanded symmetrically
// about it, so the center cannot end up outside the fitted region.
//
// The fold starts from NaN, so an empty feature list yields a NaN extent.
func extentAt(zoom int, tileSize float64, features []Feature, center *GeoPoint) osm.Bounds {
	nan := math.NaN()
	extent := osm.Bounds{MinLon: nan, MinLat: nan, MaxLon: nan, MaxLat: nan}

	for _, feature := range features {
		featureExtent := feature.Extent(zoom, tileSize)

		extent.MinLon = nanMin(extent.MinLon, featureExtent.MinLon)
		extent.MinLat = nanMin(extent.MinLat, featureExtent.MinLat)
		extent.MaxLon = nanMax(extent.MaxLon, featureExtent.MaxLon)
		extent.MaxLat = nanMax(extent.MaxLat, featureExtent.MaxLat)
	}

	if center != nil {
		mirrored := osm.Bounds{
			MinLon: 2*center.Lon - extent.MaxLon,
			MinLat: 2*center.Lat - extent.MaxLat,
			MaxLon: 2*center.Lon - extent.MinLon,
			MaxLat: 2*center.Lat - extent.MinLat,
		}

		extent.MinLon = nanMin(extent.MinLon, mirrored.MinLon)
		extent.MinLat = nanMin(extent.MinLat, mirrored.MinLat)
		extent.MaxLon = nanMax(extent.MaxLon, mirrored.MaxLon)
		extent.MaxLat = nanMax(extent.MaxLat, mirrored.MaxLat)
	}

	return extent
}

// calculateZoom finds the highest zoom level at which the combined feature
// extent, plus padding, fits on the canvas. The extent is recomputed fresh
// for every candidate because circle and icon extents depend on the zoom.
func calculateZoom(cfg boundsConfig, features []Feature) int {
	tileSize := float64(cfg.tileSize)

	for zoom := MaxZoom; zoom >= 0; zoom-- {
		extent := extentAt(zoom, tileSize, features, cfg.center)

		extentWidth := (LonToX(extent.MaxLon, zoom) - LonToX(extent.MinLon, zoom)) * tileSize
		if extentWidth > float64(cfg.width-2*cfg.xPadding) {
			continue
		}

		extentHeight := (LatToY(extent.MinLat, zoom) - LatToY(extent.MaxLat, zoom)) * tileSize
		if extentHeight > float64(cfg.height-2*cfg.yPadding) {
			continue
		}

		return zoom
	}

	return fallbackZoom
}
