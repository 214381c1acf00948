package render

import (
	"image"
	"image/color"
	"math"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/ortho"
)

// ToImage converts every pixel of g with fn. Grid x maps to image column,
// grid y to image row.
func ToImage[T any](g *ortho.Grid[T], fn func(T) color.Color) *image.NRGBA {
	size := g.Size()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	g.Each(func(x, y int, v T) {
		img.Set(x, y, fn(v))
	})

	return img
}

// Palette maps globe cells to colours.
type Palette struct {
	Background color.NRGBA
	Surface    color.NRGBA
	Low        color.NRGBA
	High       color.NRGBA
}

// NewPalette parses the configured hex colours.
func NewPalette(p config.Palette) (Palette, error) {
	var (
		pal Palette
		err error
	)

	if pal.Background, err = config.ParseColor(p.Background); err != nil {
		return Palette{}, err
	}
	if pal.Surface, err = config.ParseColor(p.Surface); err != nil {
		return Palette{}, err
	}
	if pal.Low, err = config.ParseColor(p.PointLow); err != nil {
		return Palette{}, err
	}
	if pal.High, err = config.ParseColor(p.PointHigh); err != nil {
		return Palette{}, err
	}

	return pal, nil
}

// Color returns the colour of c on a globe whose busiest pixel has maxHits.
// Hit counts are ramped from Low to High on a log scale and composited over
// the surface or background colour.
func (p Palette) Color(c Cell, maxHits uint32) color.NRGBA {
	base := p.Background
	if c.Surface {
		base = p.Surface
	}
	if c.Hits == 0 {
		return base
	}

	t := 1.0
	if maxHits > 1 {
		t = math.Log1p(float64(c.Hits)) / math.Log1p(float64(maxHits))
		t = math.Min(1, t)
	}

	return over(lerp(p.Low, p.High, t), base)
}

// Render draws g with the palette.
func (p Palette) Render(g *ortho.Grid[Cell], maxHits uint32) *image.NRGBA {
	return ToImage(g, func(c Cell) color.Color {
		return p.Color(c, maxHits)
	})
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}

	return color.NRGBA{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}

// over composites src over dst, both non-premultiplied.
func over(src, dst color.NRGBA) color.NRGBA {
	as := float64(src.A) / 255
	ad := float64(dst.A) / 255
	ao := as + ad*(1-as)
	if ao == 0 {
		return color.NRGBA{}
	}

	mix := func(s, d uint8) uint8 {
		return uint8(math.Round((float64(s)*as + float64(d)*ad*(1-as)) / ao))
	}

	return color.NRGBA{
		R: mix(src.R, dst.R),
		G: mix(src.G, dst.G),
		B: mix(src.B, dst.B),
		A: uint8(math.Round(ao * 255)),
	}
}
