package staticmap

import (
	"image"
	"image/color"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/osm"
)

// Rect is a filled or stroked axis-aligned rectangle given by its four
// geographic edges.
type Rect struct {
	northLat    float64
	southLat    float64
	eastLon     float64
	westLon     float64
	color       color.Color
	strokeWidth float64
}

type RectOptions struct {
	// Edge coordinates. NorthLat must not be below SouthLat, and EastLon
	// must not be west of WestLon.
	NorthLat float64
	SouthLat float64
	EastLon  float64
	WestLon  float64
	// Color used for the fill or the stroke. Default is opaque black.
	Color color.Color
	// StrokeWidth in pixels. When 0 the rectangle is filled instead of
	// stroked.
	StrokeWidth float64
}

func NewRect(opts RectOptions) (*Rect, errorsx.Error) {
	var problems []string
	if opts.NorthLat < opts.SouthLat {
		problems = append(problems, "north latitude is below south latitude")
	}
	if opts.EastLon < opts.WestLon {
		problems = append(problems, "east longitude is west of west longitude")
	}
	if opts.StrokeWidth < 0 {
		problems = append(problems, "stroke width must not be negative")
	}
	if len(problems) != 0 {
		return nil, newConstructionError("rect", problems)
	}

	rect := &Rect{
		northLat:    opts.NorthLat,
		southLat:    opts.SouthLat,
		eastLon:     opts.EastLon,
		westLon:     opts.WestLon,
		color:       opts.Color,
		strokeWidth: opts.StrokeWidth,
	}
	if rect.color == nil {
		rect.color = color.Black
	}

	return rect, nil
}

func (r *Rect) Extent(zoom int, tileSize float64) osm.Bounds {
	return osm.Bounds{
		MinLon: r.westLon,
		MinLat: r.southLat,
		MaxLon: r.eastLon,
		MaxLat: r.northLat,
	}
}

func (r *Rect) Draw(bounds *Bounds, img *image.RGBA) {
	left := bounds.XToPx(LonToX(r.westLon, bounds.Zoom))
	top := bounds.YToPx(LatToY(r.northLat, bounds.Zoom))
	right := bounds.XToPx(LonToX(r.eastLon, bounds.Zoom))
	bottom := bounds.YToPx(LatToY(r.southLat, bounds.Zoom))

	gc := draw2dimg.NewGraphicContext(img)
	defer gc.Close()

	if r.strokeWidth > 0 {
		gc.SetStrokeColor(r.color)
		gc.SetLineWidth(r.strokeWidth)
		draw2dkit.Rectangle(gc, left, top, right, bottom)
		gc.Stroke()
		return
	}

	gc.SetFillColor(r.color)
	draw2dkit.Rectangle(gc, left, top, right, bottom)
	gc.Fill()
}
