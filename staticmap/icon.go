package staticmap

import (
	"image"
	"image/draw"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/paulmach/osm"
)

// Icon is a raster marker anchored to a geographic point. The offset locates
// the icon's "tip" (the pixel placed exactly on the point) relative to the
// image's top-left corner.
type Icon struct {
	center  GeoPoint
	xOffset float64
	yOffset float64
	image   image.Image
}

type IconOptions struct {
	// Center is the geographic point the icon tip is anchored to. Required.
	Center GeoPoint
	// XOffset and YOffset of the tip, in pixels from the image top-left.
	XOffset float64
	YOffset float64
	// Image is the decoded icon payload. Required; owned by the icon once
	// built.
	Image image.Image
}

func NewIcon(opts IconOptions) (*Icon, errorsx.Error) {
	var problems []string
	if opts.Image == nil {
		problems = append(problems, "image not supplied")
	}
	if len(problems) != 0 {
		return nil, newConstructionError("icon", problems)
	}

	return &Icon{
		center:  opts.Center,
		xOffset: opts.XOffset,
		yOffset: opts.YOffset,
		image:   opts.Image,
	}, nil
}

// Extent converts the icon's pixel footprint around the anchor into a
// geographic margin, so the whole image stays on the canvas after fitting.
func (i *Icon) Extent(zoom int, tileSize float64) osm.Bounds {
	size := i.image.Bounds().Size()

	x := LonToX(i.center.Lon, zoom)
	y := LatToY(i.center.Lat, zoom)

	return osm.Bounds{
		MinLon: XToLon(x-i.xOffset/tileSize, zoom),
		MinLat: YToLat(y+(float64(size.Y)-i.yOffset)/tileSize, zoom),
		MaxLon: XToLon(x+(float64(size.X)-i.xOffset)/tileSize, zoom),
		MaxLat: YToLat(y-i.yOffset/tileSize, zoom),
	}
}

func (i *Icon) Draw(bounds *Bounds, img *image.RGBA) {
	x := int(bounds.XToPx(LonToX(i.center.Lon, bounds.Zoom)) - i.xOffset)
	y := int(bounds.YToPx(LatToY(i.center.Lat, bounds.Zoom)) - i.yOffset)

	iconBounds := i.image.Bounds()
	target := iconBounds.Sub(iconBounds.Min).Add(image.Pt(x, y))

	draw.Draw(img, target, i.image, iconBounds.Min, draw.Over)
}
