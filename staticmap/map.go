package staticmap

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"strconv"
	"strings"

	// tile providers commonly serve PNG, some serve JPEG
	_ "image/jpeg"

	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/staticmap-app/fonts"
	"github.com/jamesrr39/staticmap-app/tilefetch"
)

const (
	DefaultWidth       = 300
	DefaultHeight      = 300
	DefaultTileSize    = 256
	DefaultURLTemplate = "https://a.tile.osm.org/{z}/{x}/{y}.png"
)

// Map accumulates features and renders them over a tiled basemap into a
// single raster image. A Map is not safe for concurrent use; each render
// owns its canvas exclusively.
type Map struct {
	width       int
	height      int
	xPadding    int
	yPadding    int
	tileSize    int
	zoom        *int
	center      *GeoPoint
	urlTemplate string
	attribution string
	font        *truetype.Font
	fetcher     tilefetch.TileFetcher
	features    []Feature
}

type MapOptions struct {
	// Width and Height of the output image in pixels. 0 means the default
	// of 300; negative values are a construction error.
	Width  int
	Height int
	// XPadding and YPadding reserve a pixel margin between the fitted
	// feature extent and the canvas edge.
	XPadding int
	YPadding int
	// TileSize in pixels. 0 means the default of 256.
	TileSize int
	// Zoom pins the zoom level instead of auto-fitting from the features.
	Zoom *int
	// Center pins the map center instead of using the feature midpoint.
	Center *GeoPoint
	// URLTemplate with {z}/{x}/{y} (or legacy %z/%x/%y) placeholders.
	URLTemplate string
	// Attribution text drawn in the bottom-left corner. Empty means none.
	Attribution string
	// Fetcher retrieves the base layer tiles. Default is an HTTP fetcher
	// using http.DefaultClient.
	Fetcher tilefetch.TileFetcher
}

func NewMap(opts MapOptions) (*Map, errorsx.Error) {
	var problems []string
	if opts.Width < 0 || opts.Height < 0 {
		problems = append(problems, "width and height must not be negative")
	}
	if opts.TileSize < 0 {
		problems = append(problems, "tile size must not be negative")
	}
	if opts.XPadding < 0 || opts.YPadding < 0 {
		problems = append(problems, "padding must not be negative")
	}
	if len(problems) != 0 {
		return nil, newConstructionError("map", problems)
	}

	m := &Map{
		width:       opts.Width,
		height:      opts.Height,
		xPadding:    opts.XPadding,
		yPadding:    opts.YPadding,
		tileSize:    opts.TileSize,
		zoom:        opts.Zoom,
		center:      opts.Center,
		urlTemplate: opts.URLTemplate,
		attribution: opts.Attribution,
		fetcher:     opts.Fetcher,
	}
	if m.width == 0 {
		m.width = DefaultWidth
	}
	if m.height == 0 {
		m.height = DefaultHeight
	}
	if m.tileSize == 0 {
		m.tileSize = DefaultTileSize
	}
	if m.urlTemplate == "" {
		m.urlTemplate = DefaultURLTemplate
	}
	if m.fetcher == nil {
		m.fetcher = tilefetch.NewHTTPTileFetcher(nil, 0)
	}
	if m.attribution != "" {
		m.font = fonts.DefaultFont()
	}

	return m, nil
}

// AddFeature appends a feature. Insertion order is draw order; features
// added later are painted on top.
func (m *Map) AddFeature(feature Feature) {
	m.features = append(m.features, feature)
}

// Render resolves the viewport from the features and any pinned zoom or
// center, composites the base tile layer and draws every feature on top.
func (m *Map) Render(ctx context.Context) (*image.RGBA, errorsx.Error) {
	bounds := newBounds(boundsConfig{
		width:    m.width,
		height:   m.height,
		xPadding: m.xPadding,
		yPadding: m.yPadding,
		tileSize: m.tileSize,
		zoom:     m.zoom,
		center:   m.center,
	}, m.features)

	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))

	err := m.drawBaseLayer(ctx, img, bounds)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	for _, feature := range m.features {
		feature.Draw(bounds, img)
	}

	if m.attribution != "" {
		err = drawAttribution(img, m.font, m.attribution)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}
	}

	return img, nil
}

// EncodePNG renders the map and writes it as PNG to w.
func (m *Map) EncodePNG(ctx context.Context, w io.Writer) errorsx.Error {
	img, err := m.Render(ctx)
	if err != nil {
		return errorsx.Wrap(err)
	}

	encodeErr := png.Encode(w, img)
	if encodeErr != nil {
		return errorsx.Wrap(&CodecError{Op: "encode", Cause: encodeErr})
	}

	return nil
}

// WritePNGFile renders the map and saves it as a PNG file.
func (m *Map) WritePNGFile(ctx context.Context, path string) errorsx.Error {
	file, err := os.Create(path)
	if err != nil {
		return errorsx.Wrap(err)
	}
	defer file.Close()

	return m.EncodePNG(ctx, file)
}

// drawBaseLayer enumerates the tile addresses covering the viewport, fetches
// them in one batch and blits each decoded tile onto the canvas. Any failed
// tile aborts the render; there is no partial image.
func (m *Map) drawBaseLayer(ctx context.Context, img *image.RGBA, bounds *Bounds) errorsx.Error {
	type tileAddress struct {
		x, y int
		url  string
	}

	maxTileIndex := 1 << uint(bounds.Zoom)

	var tiles []tileAddress
	for x := bounds.XMin; x < bounds.XMax; x++ {
		for y := bounds.YMin; y < bounds.YMax; y++ {
			url := buildTileURL(m.urlTemplate, bounds.Zoom, wrapTileIndex(x, maxTileIndex), wrapTileIndex(y, maxTileIndex))
			tiles = append(tiles, tileAddress{x, y, url})
		}
	}

	urls := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		urls = append(urls, tile.url)
	}

	results := m.fetcher.Fetch(ctx, urls)
	if len(results) != len(urls) {
		return errorsx.Errorf("tile fetcher returned %d results for %d urls", len(results), len(urls))
	}

	for i, tile := range tiles {
		result := results[i]
		if result.Err != nil {
			return errorsx.Wrap(&TileError{URL: tile.url, Cause: result.Err})
		}

		tileImg, _, err := image.Decode(bytes.NewReader(result.Data))
		if err != nil {
			return errorsx.Wrap(&TileError{URL: tile.url, Cause: err})
		}

		x := int(bounds.XToPx(float64(tile.x)))
		y := int(bounds.YToPx(float64(tile.y)))

		tileBounds := tileImg.Bounds()
		target := tileBounds.Sub(tileBounds.Min).Add(image.Pt(x, y))

		draw.Draw(img, target, tileImg, tileBounds.Min, draw.Src)
	}

	return nil
}

// wrapTileIndex wraps a tile index into [0, maxTileIndex), so viewports
// crossing the antimeridian address the correct tiles.
func wrapTileIndex(index, maxTileIndex int) int {
	return ((index % maxTileIndex) + maxTileIndex) % maxTileIndex
}

func buildTileURL(template string, zoom, x, y int) string {
	zoomStr := strconv.Itoa(zoom)
	xStr := strconv.Itoa(x)
	yStr := strconv.Itoa(y)

	return strings.NewReplacer(
		"{z}", zoomStr, "{x}", xStr, "{y}", yStr,
		"%z", zoomStr, "%x", xStr, "%y", yStr,
	).Replace(template)
}
