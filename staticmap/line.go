package staticmap

import (
	"image"
	"image/color"
	"math"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/paulmach/osm"
)

// Line is a stroked path along a sequence of geographic points.
type Line struct {
	points    []GeoPoint
	color     color.Color
	width     float64
	simplify  bool
	tolerance float64
}

type LineOptions struct {
	// Points of the path, in order. Required.
	Points []GeoPoint
	// Color of the stroke. Default is opaque black.
	Color color.Color
	// Width of the stroke in pixels. Default is 1.
	Width float64
	// Simplify thins out points closer together than Tolerance pixels
	// before stroking.
	Simplify bool
	// Tolerance in pixels for Simplify. Default is 5.
	Tolerance float64
}

func NewLine(opts LineOptions) (*Line, errorsx.Error) {
	var problems []string
	if len(opts.Points) == 0 {
		problems = append(problems, "points not supplied")
	}
	if opts.Width < 0 {
		problems = append(problems, "width must not be negative")
	}
	if opts.Tolerance < 0 {
		problems = append(problems, "tolerance must not be negative")
	}
	if len(problems) != 0 {
		return nil, newConstructionError("line", problems)
	}

	line := &Line{
		points:    opts.Points,
		color:     opts.Color,
		width:     opts.Width,
		simplify:  opts.Simplify,
		tolerance: opts.Tolerance,
	}
	if line.color == nil {
		line.color = color.Black
	}
	if line.width == 0 {
		line.width = 1
	}
	if line.tolerance == 0 {
		line.tolerance = 5
	}

	return line, nil
}

func (l *Line) Extent(zoom int, tileSize float64) osm.Bounds {
	nan := math.NaN()
	extent := osm.Bounds{MinLon: nan, MinLat: nan, MaxLon: nan, MaxLat: nan}

	for _, point := range l.points {
		extent.MinLon = nanMin(extent.MinLon, point.Lon)
		extent.MinLat = nanMin(extent.MinLat, point.Lat)
		extent.MaxLon = nanMax(extent.MaxLon, point.Lon)
		extent.MaxLat = nanMax(extent.MaxLat, point.Lat)
	}

	return extent
}

func (l *Line) Draw(bounds *Bounds, img *image.RGBA) {
	points := make([]Point, 0, len(l.points))
	for _, geoPoint := range l.points {
		points = append(points, Point{
			X: bounds.XToPx(LonToX(geoPoint.Lon, bounds.Zoom)),
			Y: bounds.YToPx(LatToY(geoPoint.Lat, bounds.Zoom)),
		})
	}

	if l.simplify {
		points = Simplify(points, l.tolerance)
	}

	gc := draw2dimg.NewGraphicContext(img)
	defer gc.Close()

	gc.SetStrokeColor(l.color)
	gc.SetLineWidth(l.width)
	gc.SetLineCap(draw2d.RoundCap)
	gc.BeginPath()

	for i, point := range points {
		if i == 0 {
			gc.MoveTo(point.X, point.Y)
		} else {
			gc.LineTo(point.X, point.Y)
		}
	}

	gc.Stroke()
}
