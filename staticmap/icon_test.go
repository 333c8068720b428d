package staticmap

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidIconImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func Test_NewIcon_Validation(t *testing.T) {
	_, err := NewIcon(IconOptions{Center: GeoPoint{Lon: 1, Lat: 2}})
	require.Error(t, err)

	constructionErr, ok := errorsx.Cause(err).(*ConstructionError)
	require.True(t, ok)
	assert.Equal(t, "icon", constructionErr.Kind)
	assert.Contains(t, constructionErr.Problems, "image not supplied")
}

func Test_Icon_Extent(t *testing.T) {
	icon, err := NewIcon(IconOptions{
		Center:  GeoPoint{Lon: 4, Lat: 54},
		XOffset: 8,
		YOffset: 16,
		Image:   solidIconImage(16, 16, color.Black),
	})
	require.NoError(t, err)

	extent := icon.Extent(10, 256)

	assert.Less(t, extent.MinLon, 4.0)
	assert.Greater(t, extent.MaxLon, 4.0)
	// the tip is at the bottom edge, so the whole image extends north
	assert.Greater(t, extent.MaxLat, 54.0)
	assert.InDelta(t, 54.0, extent.MinLat, 1e-9)
}

func Test_Icon_Draw_AnchorsTipOnPoint(t *testing.T) {
	icon, err := NewIcon(IconOptions{
		Center:  GeoPoint{Lon: 0, Lat: 0},
		XOffset: 4,
		YOffset: 8,
		Image:   solidIconImage(8, 8, color.RGBA{R: 255, A: 255}),
	})
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	bounds := &Bounds{
		Width:    100,
		Height:   100,
		TileSize: 256,
		Zoom:     0,
		XCenter:  LonToX(0, 0),
		YCenter:  LatToY(0, 0),
	}

	icon.Draw(bounds, img)

	// the 8x8 image sits above the anchor: top-left at (46, 42)
	_, _, _, a := img.At(47, 45).RGBA()
	assert.NotZero(t, a)

	// below the anchor point stays empty
	_, _, _, a = img.At(50, 55).RGBA()
	assert.Zero(t, a)
}
