package render

import (
	"image"

	"github.com/woozymasta/orthomap/internal/geo"
)

// Options describes a single globe rendering.
type Options struct {
	Attribution string
	Lat         float64
	Lon         float64
	Size        int
	Thumb       int // scale the result down to Thumb pixels when 0 < Thumb < Size
}

// Draw projects samples onto a new globe and renders it with pal.
func Draw(samples []geo.Sample, pal Palette, opt Options) (*image.NRGBA, Stats) {
	g := NewGlobe(opt.Size, opt.Lat, opt.Lon)
	st := Paint(g, samples)

	img := pal.Render(g, st.MaxHits)
	if opt.Thumb > 0 && opt.Thumb < opt.Size {
		img = Scale(img, opt.Thumb)
	}

	caption := pal.High
	caption.A = 255
	Label(img, opt.Attribution, caption)

	return img, st
}
