package staticmap

import (
	"image"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/osm"
)

// earthCircumferenceMeters is the equatorial circumference used for the
// meters-to-pixels Mercator scale correction.
const earthCircumferenceMeters = 40075016.686

// Circle is a filled or stroked circle around a geographic point. The radius
// is given either in pixels (constant on screen at every zoom) or in meters
// (constant on the ground, so the pixel radius varies with zoom and, via the
// cos(latitude) correction, with latitude).
type Circle struct {
	center       GeoPoint
	color        color.Color
	radiusPixels float64
	radiusMeters float64
	strokeWidth  float64
}

type CircleOptions struct {
	// Center of the circle. Required.
	Center GeoPoint
	// Color used for the fill or the stroke. Default is opaque black.
	Color color.Color
	// RadiusPixels and RadiusMeters select the radius mode; exactly one of
	// them must be positive.
	RadiusPixels float64
	RadiusMeters float64
	// StrokeWidth in pixels. When 0 the circle is filled instead of stroked.
	StrokeWidth float64
}

func NewCircle(opts CircleOptions) (*Circle, errorsx.Error) {
	var problems []string
	if opts.RadiusPixels <= 0 && opts.RadiusMeters <= 0 {
		problems = append(problems, "one of radius pixels or radius meters must be positive")
	}
	if opts.RadiusPixels > 0 && opts.RadiusMeters > 0 {
		problems = append(problems, "radius pixels and radius meters are mutually exclusive")
	}
	if opts.StrokeWidth < 0 {
		problems = append(problems, "stroke width must not be negative")
	}
	if len(problems) != 0 {
		return nil, newConstructionError("circle", problems)
	}

	circle := &Circle{
		center:       opts.Center,
		color:        opts.Color,
		radiusPixels: opts.RadiusPixels,
		radiusMeters: opts.RadiusMeters,
		strokeWidth:  opts.StrokeWidth,
	}
	if circle.color == nil {
		circle.color = color.Black
	}

	return circle, nil
}

// pixelRadius resolves the radius to pixels at the given zoom. In meters
// mode the ground resolution at the circle's latitude decides the scale.
func (c *Circle) pixelRadius(zoom int, tileSize float64) float64 {
	if c.radiusMeters <= 0 {
		return c.radiusPixels
	}

	latRad := c.center.Lat * math.Pi / 180

	return c.radiusMeters * tileSize * math.Exp2(float64(zoom)) / (earthCircumferenceMeters * math.Cos(latRad))
}

func (c *Circle) Extent(zoom int, tileSize float64) osm.Bounds {
	radius := c.pixelRadius(zoom, tileSize)

	x := LonToX(c.center.Lon, zoom)
	y := LatToY(c.center.Lat, zoom)

	return osm.Bounds{
		MinLon: XToLon(x-radius/tileSize, zoom),
		MinLat: YToLat(y+radius/tileSize, zoom),
		MaxLon: XToLon(x+radius/tileSize, zoom),
		MaxLat: YToLat(y-radius/tileSize, zoom),
	}
}

func (c *Circle) Draw(bounds *Bounds, img *image.RGBA) {
	x := bounds.XToPx(LonToX(c.center.Lon, bounds.Zoom))
	y := bounds.YToPx(LatToY(c.center.Lat, bounds.Zoom))
	radius := c.pixelRadius(bounds.Zoom, float64(bounds.TileSize))

	gc := draw2dimg.NewGraphicContext(img)
	defer gc.Close()

	if c.strokeWidth > 0 {
		gc.SetStrokeColor(c.color)
		gc.SetLineWidth(c.strokeWidth)
		draw2dkit.Circle(gc, x, y, radius)
		gc.Stroke()
		return
	}

	gc.SetFillColor(c.color)
	draw2dkit.Circle(gc, x, y, radius)
	gc.Fill()
}
