package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/staticmap-app/staticmap"
	"github.com/jamesrr39/staticmap-app/tilefetch"
	"github.com/jamesrr39/staticmap-app/webservices"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	DEFAULT_PORT        = 9000
	DEFAULT_ATTRIBUTION = "© OpenStreetMap contributors"
)

var logger *logpkg.Logger

func main() {
	verbose := kingpin.Flag("v", "verbose logging").Bool()

	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)

	setupRender()
	setupServe()

	kingpin.Parse()
}

func setupRender() {
	cmd := kingpin.Command("render", "render a static map to a PNG file")
	outPath := cmd.Arg("out", "path to write the PNG file to").Required().String()
	width := cmd.Flag("width", "image width in pixels").Default("300").Int()
	height := cmd.Flag("height", "image height in pixels").Default("300").Int()
	zoomStr := cmd.Flag("zoom", "map zoom level (0-17). Auto-fitted from the features when not set").String()
	centerStr := cmd.Flag("center", "map center as 'lat,lon'. Midpoint of the features when not set").String()
	xPadding := cmd.Flag("padding-x", "horizontal margin in pixels between features and image edge").Int()
	yPadding := cmd.Flag("padding-y", "vertical margin in pixels between features and image edge").Int()
	urlTemplate := cmd.Flag("url-template", "tile URL template with {z}/{x}/{y} placeholders").Default(staticmap.DefaultURLTemplate).String()
	attribution := cmd.Flag("attribution", "attribution text drawn in the bottom-left corner").Default(DEFAULT_ATTRIBUTION).String()
	lines := cmd.Flag("line", "polyline as 'lat,lon|lat,lon|...'. Can be repeated").Strings()
	circles := cmd.Flag("circle", "circle as 'lat,lon,radiusMeters'. Can be repeated").Strings()
	markers := cmd.Flag("marker", "marker as 'lat,lon'. Can be repeated").Strings()
	rects := cmd.Flag("rect", "rectangle as 'northLat,southLat,eastLon,westLon'. Can be repeated").Strings()
	icons := cmd.Flag("icon", "icon as 'lat,lon,xOffset,yOffset,path-to-png'. Can be repeated").Strings()
	offline := cmd.Flag("offline", "do not fetch tiles; use a blank placeholder base layer").Bool()
	cacheDir := cmd.Flag("cache-dir", "directory to cache fetched tiles in").String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			opts := staticmap.MapOptions{
				Width:       *width,
				Height:      *height,
				XPadding:    *xPadding,
				YPadding:    *yPadding,
				URLTemplate: *urlTemplate,
				Attribution: *attribution,
				Fetcher:     createFetcher(*offline, *cacheDir),
			}

			var err errorsx.Error

			if *zoomStr != "" {
				zoom, atoiErr := strconv.Atoi(*zoomStr)
				if atoiErr != nil {
					return errorsx.Wrap(atoiErr)
				}
				opts.Zoom = &zoom
			}

			if *centerStr != "" {
				center, err := parseGeoPoint(*centerStr)
				if err != nil {
					return errorsx.Wrap(err)
				}
				opts.Center = center
			}

			m, err := staticmap.NewMap(opts)
			if err != nil {
				return errorsx.Wrap(err)
			}

			err = addFeatures(m, *lines, *circles, *markers, *rects, *icons)
			if err != nil {
				return errorsx.Wrap(err)
			}

			startTime := time.Now()

			err = m.WritePNGFile(context.Background(), *outPath)
			if err != nil {
				return errorsx.Wrap(err)
			}

			logger.Info("rendered %dx%d map to %q in %s", *width, *height, *outPath, time.Since(startTime))

			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

var addrHelp = fmt.Sprintf(
	`address to serve on. Ex: ':%d' listen on port %d to traffic from anywhere. 'localhost:%d' listen on port %d to traffic from localhost`,
	DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT, DEFAULT_PORT,
)

func setupServe() {
	cmd := kingpin.Command("serve", "serve a map-rendering webserver")
	addr := cmd.Flag("addr", addrHelp).Default(fmt.Sprintf(":%d", DEFAULT_PORT)).String()
	urlTemplate := cmd.Flag("url-template", "tile URL template with {z}/{x}/{y} placeholders").Default(staticmap.DefaultURLTemplate).String()
	cacheDir := cmd.Flag("cache-dir", "directory to cache fetched tiles in").String()
	shouldProfile := cmd.Flag("profile", "profile the request performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fetcher := createFetcher(false, *cacheDir)

			router, err := createServer(fetcher, *urlTemplate, logger, *shouldProfile)
			if err != nil {
				return errorsx.Wrap(err)
			}

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = router

			logger.Info("about to start serving on %q", *addr)

			listenErr := server.ListenAndServe()
			if listenErr != nil {
				return errorsx.Wrap(listenErr)
			}
			return nil
		}

		err := run()
		if err != nil {
			return fmt.Errorf("error: %q\nStack trace:\n%s", err.Error(), err.Stack())
		}
		return nil
	})
}

func createServer(fetcher tilefetch.TileFetcher, urlTemplate string, logger *logpkg.Logger, shouldProfile bool) (chi.Router, errorsx.Error) {
	traceDirPath, err := ioutil.TempDir("", "")
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	traceFilePath := filepath.Join(traceDirPath, fmt.Sprintf("trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
	logger.Info("tracing at %q", traceFilePath)

	traceFile, err := os.Create(traceFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	tracer := tracing.NewTracer(traceFile)

	router := chi.NewRouter()
	router.Use(middleware.DefaultLogger)
	router.Use(tracing.Middleware(tracer))
	router.Route("/api/", func(r chi.Router) {
		r.Mount("/info", webservices.NewInfoService(logger, urlTemplate))
		r.Mount("/render", webservices.NewRenderService(logger, fetcher, urlTemplate, shouldProfile))
	})

	return router, nil
}

func createFetcher(offline bool, cacheDir string) tilefetch.TileFetcher {
	var fetcher tilefetch.TileFetcher
	if offline {
		fetcher = tilefetch.NewNoopTileFetcher()
	} else {
		fetcher = tilefetch.NewHTTPTileFetcher(http.DefaultClient, 0)
	}

	if cacheDir != "" {
		fetcher = tilefetch.NewDiskCacheFetcher(gofs.NewOsFs(), cacheDir, fetcher)
	}

	return fetcher
}

func addFeatures(m *staticmap.Map, lines, circles, markers, rects, icons []string) errorsx.Error {
	for _, lineStr := range lines {
		var points []staticmap.GeoPoint
		for _, pointStr := range strings.Split(lineStr, "|") {
			point, err := parseGeoPoint(pointStr)
			if err != nil {
				return errorsx.Wrap(err)
			}
			points = append(points, *point)
		}

		line, err := staticmap.NewLine(staticmap.LineOptions{
			Points:   points,
			Width:    3,
			Simplify: true,
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		m.AddFeature(line)
	}

	for _, circleStr := range circles {
		values, err := parseFloats(circleStr, 3)
		if err != nil {
			return errorsx.Wrap(err)
		}

		circle, err := staticmap.NewCircle(staticmap.CircleOptions{
			Center:       staticmap.GeoPoint{Lat: values[0], Lon: values[1]},
			RadiusMeters: values[2],
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		m.AddFeature(circle)
	}

	for _, markerStr := range markers {
		center, err := parseGeoPoint(markerStr)
		if err != nil {
			return errorsx.Wrap(err)
		}

		marker, err := staticmap.NewCircle(staticmap.CircleOptions{
			Center:       *center,
			RadiusPixels: 6,
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		m.AddFeature(marker)
	}

	for _, rectStr := range rects {
		values, err := parseFloats(rectStr, 4)
		if err != nil {
			return errorsx.Wrap(err)
		}

		rect, err := staticmap.NewRect(staticmap.RectOptions{
			NorthLat:    values[0],
			SouthLat:    values[1],
			EastLon:     values[2],
			WestLon:     values[3],
			StrokeWidth: 2,
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		m.AddFeature(rect)
	}

	for _, iconStr := range icons {
		fragments := strings.Split(iconStr, ",")
		if len(fragments) != 5 {
			return errorsx.Errorf("expected 'lat,lon,xOffset,yOffset,path' in %q, but found %d values", iconStr, len(fragments))
		}

		values, err := parseFloats(strings.Join(fragments[:4], ","), 4)
		if err != nil {
			return errorsx.Wrap(err)
		}

		iconImg, err := loadIconImage(fragments[4])
		if err != nil {
			return errorsx.Wrap(err)
		}

		icon, err := staticmap.NewIcon(staticmap.IconOptions{
			Center:  staticmap.GeoPoint{Lat: values[0], Lon: values[1]},
			XOffset: values[2],
			YOffset: values[3],
			Image:   iconImg,
		})
		if err != nil {
			return errorsx.Wrap(err)
		}

		m.AddFeature(icon)
	}

	return nil
}

func loadIconImage(path string) (image.Image, errorsx.Error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, errorsx.Wrap(err, "path", path)
	}

	return img, nil
}

func parseGeoPoint(s string) (*staticmap.GeoPoint, errorsx.Error) {
	values, err := parseFloats(s, 2)
	if err != nil {
		return nil, err
	}

	return &staticmap.GeoPoint{Lat: values[0], Lon: values[1]}, nil
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
