package webservices

import (
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/semaphore"
	"github.com/jamesrr39/staticmap-app/staticmap"
	"github.com/jamesrr39/staticmap-app/tilefetch"
	"github.com/pkg/profile"
)

var (
	lineColor   = color.RGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}
	circleColor = color.RGBA{R: 0x20, G: 0x40, B: 0xd0, A: 0x90}
	markerColor = color.RGBA{R: 0xb0, G: 0x10, B: 0x10, A: 0xff}
	rectColor   = color.RGBA{A: 0xff}
)

// RenderService renders a static map from query parameters and responds
// with a PNG. Concurrent renders are bounded by a semaphore.
type RenderService struct {
	logger        *logpkg.Logger
	fetcher       tilefetch.TileFetcher
	urlTemplate   string
	sema          *semaphore.Semaphore
	shouldProfile bool
	chi.Router
}

func NewRenderService(logger *logpkg.Logger, fetcher tilefetch.TileFetcher, urlTemplate string, shouldProfile bool) *RenderService {
	rs := &RenderService{logger, fetcher, urlTemplate, semaphore.NewSemaphore(4), shouldProfile, chi.NewRouter()}

	rs.Get("/", rs.handleRender)

	return rs
}

// handleRender understands:
//
//	width, height: canvas size in pixels
//	zoom: pinned zoom level (otherwise auto-fitted)
//	lat, lon: pinned center (must be given together)
//	padding-x, padding-y: fit margin in pixels
//	line: repeated; "lat,lon|lat,lon|..." polyline
//	circle: repeated; "lat,lon,radiusMeters"
//	marker: repeated; "lat,lon"
//	rect: repeated; "northLat,southLat,eastLon,westLon"
//	attribution: text drawn bottom-left
func (rs *RenderService) handleRender(w http.ResponseWriter, r *http.Request) {
	if rs.shouldProfile {
		defer profile.Start().Stop()
	}

	opts, err := parseMapOptions(r.URL.Query())
	if err != nil {
		errorsx.HTTPError(w, rs.logger, err, http.StatusBadRequest)
		return
	}
	opts.URLTemplate = rs.urlTemplate
	opts.Fetcher = rs.fetcher

	features, err := parseFeatures(r.URL.Query())
	if err != nil {
		errorsx.HTTPError(w, rs.logger, err, http.StatusBadRequest)
		return
	}

	if len(features) == 0 && opts.Center == nil {
		errorsx.HTTPError(w, rs.logger, errorsx.Errorf("request must contain features or a lat/lon center"), http.StatusBadRequest)
		return
	}

	m, err := staticmap.NewMap(*opts)
	if err != nil {
		errorsx.HTTPError(w, rs.logger, err, http.StatusBadRequest)
		return
	}

	for _, feature := range features {
		m.AddFeature(feature)
	}

	rs.sema.Add()
	defer rs.sema.Done()

	img, err := m.Render(r.Context())
	if err != nil {
		errorsx.HTTPError(w, rs.logger, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	encodeErr := png.Encode(w, img)
	if encodeErr != nil {
		switch encodeErr.(type) {
		case *net.OpError:
			// broken pipe (request cancelled). Do nothing
		default:
			errorsx.HTTPError(w, rs.logger, errorsx.Wrap(encodeErr), http.StatusInternalServerError)
		}
		return
	}
}

func parseMapOptions(query url.Values) (*staticmap.MapOptions, errorsx.Error) {
	opts := new(staticmap.MapOptions)

	var err errorsx.Error

	opts.Width, err = parseOptionalInt(query.Get("width"))
	if err != nil {
		return nil, err
	}
	opts.Height, err = parseOptionalInt(query.Get("height"))
	if err != nil {
		return nil, err
	}
	opts.XPadding, err = parseOptionalInt(query.Get("padding-x"))
	if err != nil {
		return nil, err
	}
	opts.YPadding, err = parseOptionalInt(query.Get("padding-y"))
	if err != nil {
		return nil, err
	}

	if zoomStr := query.Get("zoom"); zoomStr != "" {
		zoom, err := parseOptionalInt(zoomStr)
		if err != nil {
			return nil, err
		}
		opts.Zoom = &zoom
	}

	latStr, lonStr := query.Get("lat"), query.Get("lon")
	if (latStr == "") != (lonStr == "") {
		return nil, errorsx.Errorf("lat and lon must be supplied together")
	}
	if latStr != "" {
		coords, err := parseFloats(latStr+","+lonStr, 2)
		if err != nil {
			return nil, err
		}
		opts.Center = &staticmap.GeoPoint{Lat: coords[0], Lon: coords[1]}
	}

	opts.Attribution = query.Get("attribution")

	return opts, nil
}

func parseFeatures(query url.Values) ([]staticmap.Feature, errorsx.Error) {
	var features []staticmap.Feature

	for _, lineStr := range query["line"] {
		points, err := parseGeoPoints(lineStr)
		if err != nil {
			return nil, err
		}

		line, err := staticmap.NewLine(staticmap.LineOptions{
			Points:   points,
			Color:    lineColor,
			Width:    3,
			Simplify: true,
		})
		if err != nil {
			return nil, err
		}

		features = append(features, line)
	}

	for _, circleStr := range query["circle"] {
		values, err := parseFloats(circleStr, 3)
		if err != nil {
			return nil, err
		}

		circle, err := staticmap.NewCircle(staticmap.CircleOptions{
			Center:       staticmap.GeoPoint{Lat: values[0], Lon: values[1]},
			Color:        circleColor,
			RadiusMeters: values[2],
		})
		if err != nil {
			return nil, err
		}

		features = append(features, circle)
	}

	for _, markerStr := range query["marker"] {
		values, err := parseFloats(markerStr, 2)
		if err != nil {
			return nil, err
		}

		marker, err := staticmap.NewCircle(staticmap.CircleOptions{
			Center:       staticmap.GeoPoint{Lat: values[0], Lon: values[1]},
			Color:        markerColor,
			RadiusPixels: 6,
		})
		if err != nil {
			return nil, err
		}

		features = append(features, marker)
	}

	for _, rectStr := range query["rect"] {
		values, err := parseFloats(rectStr, 4)
		if err != nil {
			return nil, err
		}

		rect, err := staticmap.NewRect(staticmap.RectOptions{
			NorthLat:    values[0],
			SouthLat:    values[1],
			EastLon:     values[2],
			WestLon:     values[3],
			Color:       rectColor,
			StrokeWidth: 2,
		})
		if err != nil {
			return nil, err
		}

		features = append(features, rect)
	}

	return features, nil
}

// parseGeoPoints parses a pipe-separated list of "lat,lon" pairs.
func parseGeoPoints(s string) ([]staticmap.GeoPoint, errorsx.Error) {
	var points []staticmap.GeoPoint
	for _, pairStr := range strings.Split(s, "|") {
		values, err := parseFloats(pairStr, 2)
		if err != nil {
			return nil, err
		}

		points = append(points, staticmap.GeoPoint{Lat: values[0], Lon: values[1]})
	}

	return points, nil
}

func parseFloats(s string, expected int) ([]float64, errorsx.Error) {
	fragments := strings.Split(s, ",")
	if len(fragments) != expected {
		return nil, errorsx.Errorf("expected %d comma-separated values in %q, but found %d", expected, s, len(fragments))
	}

	var values []float64
	for _, fragment := range fragments {
		value, err := strconv.ParseFloat(strings.TrimSpace(fragment), 64)
		if err != nil {
			return nil, errorsx.Wrap(err)
		}

		values = append(values, value)
	}

	return values, nil
}

func parseOptionalInt(s string) (int, errorsx.Error) {
	if s == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, errorsx.Wrap(err)
	}

	return value, nil
}
