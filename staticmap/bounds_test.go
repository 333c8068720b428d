package staticmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func Test_newBounds_ExplicitZoomAndCenter(t *testing.T) {
	bounds := newBounds(boundsConfig{
		width:    300,
		height:   300,
		tileSize: 256,
		zoom:     intPtr(4),
		center:   &GeoPoint{Lon: 4, Lat: 54},
	}, nil)

	assert.Equal(t, 4, bounds.Zoom)
	assert.InDelta(t, LonToX(4, 4), bounds.XCenter, 1e-9)
	assert.InDelta(t, LatToY(54, 4), bounds.YCenter, 1e-9)

	// 300px canvas / 256px tiles = ~1.17 tiles, so the range covers 2-3 tiles
	assert.Equal(t, int(math.Floor(bounds.XCenter-150.0/256)), bounds.XMin)
	assert.Equal(t, int(math.Ceil(bounds.XCenter+150.0/256)), bounds.XMax)
	assert.True(t, bounds.XMax > bounds.XMin)
	assert.True(t, bounds.YMax > bounds.YMin)
}

func Test_newBounds_AutoFitTwoPointLine(t *testing.T) {
	line, err := NewLine(LineOptions{
		Points: []GeoPoint{
			{Lon: 13.4, Lat: 52.5},
			{Lon: 2.3, Lat: 48.9},
		},
		Simplify: true,
	})
	require.NoError(t, err)

	cfg := boundsConfig{
		width:    300,
		height:   400,
		xPadding: 10,
		tileSize: 256,
	}

	bounds := newBounds(cfg, []Feature{line})

	fitsAt := func(zoom int) bool {
		extentWidth := (LonToX(13.4, zoom) - LonToX(2.3, zoom)) * 256
		extentHeight := (LatToY(48.9, zoom) - LatToY(52.5, zoom)) * 256
		return extentWidth <= 300-2*10 && extentHeight <= 400
	}

	assert.True(t, fitsAt(bounds.Zoom), "zoom %d should fit", bounds.Zoom)
	assert.False(t, fitsAt(bounds.Zoom+1), "zoom %d should not fit", bounds.Zoom+1)

	// center is the midpoint of the extent
	assert.InDelta(t, (LonToX(2.3, bounds.Zoom)+LonToX(13.4, bounds.Zoom))/2, bounds.XCenter, 1e-9)
	assert.InDelta(t, (LatToY(52.5, bounds.Zoom)+LatToY(48.9, bounds.Zoom))/2, bounds.YCenter, 1e-9)
}

func Test_newBounds_ZoomMonotonicInCanvasSize(t *testing.T) {
	line, err := NewLine(LineOptions{
		Points: []GeoPoint{
			{Lon: 13.4, Lat: 52.5},
			{Lon: 2.3, Lat: 48.9},
		},
	})
	require.NoError(t, err)

	previousZoom := -1
	for _, size := range []int{100, 200, 400, 800, 1600} {
		bounds := newBounds(boundsConfig{
			width:    size,
			height:   size,
			tileSize: 256,
		}, []Feature{line})

		assert.GreaterOrEqual(t, bounds.Zoom, previousZoom, "canvas size %d", size)
		previousZoom = bounds.Zoom
	}
}

func Test_newBounds_FallbackZoom(t *testing.T) {
	// whole-world line on a tiny canvas: nothing fits, falls back to zoom 1
	line, err := NewLine(LineOptions{
		Points: []GeoPoint{
			{Lon: -179, Lat: 80},
			{Lon: 179, Lat: -80},
		},
	})
	require.NoError(t, err)

	bounds := newBounds(boundsConfig{
		width:    10,
		height:   10,
		tileSize: 256,
	}, []Feature{line})

	assert.Equal(t, 1, bounds.Zoom)
}

func Test_extentAt_ExpandsAboutExplicitCenter(t *testing.T) {
	line, err := NewLine(LineOptions{
		Points: []GeoPoint{
			{Lon: 10, Lat: 50},
			{Lon: 20, Lat: 60},
		},
	})
	require.NoError(t, err)

	center := &GeoPoint{Lon: 0, Lat: 40}
	extent := extentAt(10, 256, []Feature{line}, center)

	// mirrored about the center so the center stays inside the extent
	assert.InDelta(t, -20, extent.MinLon, 1e-9)
	assert.InDelta(t, 20, extent.MaxLon, 1e-9)
	assert.InDelta(t, 20, extent.MinLat, 1e-9)
	assert.InDelta(t, 60, extent.MaxLat, 1e-9)
}

func Test_extentAt_EmptyFeatureListIsNaN(t *testing.T) {
	extent := extentAt(5, 256, nil, nil)

	assert.True(t, math.IsNaN(extent.MinLon))
	assert.True(t, math.IsNaN(extent.MinLat))
	assert.True(t, math.IsNaN(extent.MaxLon))
	assert.True(t, math.IsNaN(extent.MaxLat))
}

func Test_Bounds_XToPx_YToPx(t *testing.T) {
	bounds := &Bounds{
		Width:    300,
		Height:   400,
		TileSize: 256,
		Zoom:     4,
		XCenter:  8,
		YCenter:  6,
	}

	// the center projects to the middle of the canvas
	assert.Equal(t, 150.0, bounds.XToPx(8))
	assert.Equal(t, 200.0, bounds.YToPx(6))

	// one tile east of center is 256px to the right
	assert.Equal(t, 150.0+256, bounds.XToPx(9))
	// rounding to nearest integer
	assert.Equal(t, 151.0, bounds.XToPx(8+1.0/512))
}
