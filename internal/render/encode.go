package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelMargin = 4

// ContentType returns the MIME type of an output format.
func ContentType(format string) string {
	switch format {
	case "webp":
		return "image/webp"
	case "png":
		return "image/png"
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Encode writes img as png or webp. quality only applies to webp.
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		return enc.Encode(w, img)
	case "webp":
		return webp.Encode(w, img, &webp.Options{Lossless: false, Quality: float32(quality)})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// Scale resizes img to a size x size thumbnail.
func Scale(img image.Image, size int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// Label draws text in the bottom-left corner of img.
func Label(img *image.NRGBA, text string, col color.Color) {
	if text == "" {
		return
	}

	face := basicfont.Face7x13
	b := img.Bounds()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(b.Min.X+labelMargin, b.Max.Y-labelMargin-face.Descent),
	}
	d.DrawString(text)
}
