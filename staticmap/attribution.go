package staticmap

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/goutil/errorsx"
)

const attributionFontSize = 10

// drawAttribution paints the attribution text on a translucent strip along
// the bottom edge of the canvas.
func drawAttribution(img *image.RGBA, font *truetype.Font, text string) errorsx.Error {
	imgBounds := img.Bounds()
	stripHeight := attributionFontSize + 6

	strip := image.Rect(imgBounds.Min.X, imgBounds.Max.Y-stripHeight, imgBounds.Max.X, imgBounds.Max.Y)
	draw.Draw(img, strip, image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 160}), image.Point{}, draw.Over)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(font)
	ctx.SetFontSize(attributionFontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(imgBounds.Min.X+4, imgBounds.Max.Y-5))
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
