package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/ortho"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette(t *testing.T) Palette {
	t.Helper()

	pal, err := NewPalette(config.Palette{
		Background: "#000000",
		Surface:    "#0000ff",
		PointLow:   "#ff0000",
		PointHigh:  "#00ff00",
	})
	require.NoError(t, err)
	return pal
}

func TestPaint(t *testing.T) {
	g := NewGlobe(64, 0, 0)

	samples := []geo.Sample{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 0},
		{Lat: 10, Lon: 10},
		{Lat: 0, Lon: 180},
		{Lat: 0, Lon: 90},
	}

	st := Paint(g, samples)
	assert.Equal(t, Stats{Visible: 3, Hidden: 1, Clipped: 1, MaxHits: 2}, st)

	c, err := g.Get(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Cell{Hits: 2, Surface: true}, c)

	c, err = g.Pixel(0, 0)
	require.NoError(t, err)
	assert.Equal(t, Cell{}, c)
}

func TestPaletteColor(t *testing.T) {
	pal := testPalette(t)

	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, pal.Color(Cell{}, 10))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, pal.Color(Cell{Surface: true}, 10))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, pal.Color(Cell{Hits: 10, Surface: true}, 10))
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, pal.Color(Cell{Hits: 1}, 1))

	mid := pal.Color(Cell{Hits: 3, Surface: true}, 15)
	assert.Greater(t, mid.R, uint8(0))
	assert.Greater(t, mid.G, uint8(0))
}

func TestOverTransparent(t *testing.T) {
	half := color.NRGBA{R: 255, A: 128}

	assert.Equal(t, half, over(half, color.NRGBA{}))
	assert.Equal(t, color.NRGBA{}, over(color.NRGBA{}, color.NRGBA{}))

	got := over(half, color.NRGBA{B: 255, A: 255})
	assert.Equal(t, uint8(255), got.A)
	assert.Equal(t, uint8(128), got.R)
	assert.Equal(t, uint8(127), got.B)
}

func TestToImage(t *testing.T) {
	g := ortho.New(3, 0, 0, false)
	require.NoError(t, g.SetPixel(2, 0, true))

	img := ToImage(g, func(v bool) color.Color {
		if v {
			return color.White
		}
		return color.Black
	})

	assert.Equal(t, image.Rect(0, 0, 3, 3), img.Bounds())
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, img.NRGBAAt(2, 0))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 2))
}

func TestRenderAndEncodePNG(t *testing.T) {
	pal := testPalette(t)
	g := NewGlobe(32, 41.89889, 12.47337)
	st := Paint(g, []geo.Sample{{Lat: 41.89889, Lon: 12.47337}})

	img := pal.Render(g, st.MaxHits)
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, img.NRGBAAt(16, 16))
	assert.Equal(t, color.NRGBA{0, 0, 0, 255}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, img.NRGBAAt(16, 4))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "png", 0))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	assert.Error(t, Encode(&buf, img, "gif", 0))
}

func TestEncodeWebP(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "webp", 80))
	assert.Equal(t, "RIFF", buf.String()[:4])
}

func TestScaleAndLabel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))

	Label(img, "orthomap", color.White)

	drawn := 0
	for y := 100; y < 128; y++ {
		for x := 0; x < 128; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				drawn++
			}
		}
	}
	assert.Positive(t, drawn)

	thumb := Scale(img, 32)
	assert.Equal(t, image.Rect(0, 0, 32, 32), thumb.Bounds())
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("png"))
	assert.Equal(t, "image/webp", ContentType("webp"))
	assert.Equal(t, "image/svg+xml", ContentType("svg"))
	assert.Equal(t, "application/octet-stream", ContentType("bmp"))
}

func TestPlot(t *testing.T) {
	proj := ortho.NewOrthographic(s2.LatLngFromDegrees(0, 0))

	p, err := Plot(proj, []geo.Sample{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 180}, {Lat: 30, Lon: 20}}, "test")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePlot(&buf, p, "svg"))
	assert.Contains(t, buf.String(), "<svg")

	p, err = Plot(ortho.NewOrthographic(s2.LatLngFromDegrees(41.89889, 12.47337)), nil, "")
	require.NoError(t, err)
	assert.Equal(t, "41.8989, 12.4734", p.Title.Text)
	assert.Error(t, WritePlot(&buf, p, "bogus"))
}

func TestDraw(t *testing.T) {
	pal := testPalette(t)
	samples := []geo.Sample{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 180}}

	img, st := Draw(samples, pal, Options{Size: 64})
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
	assert.Equal(t, 1, st.Visible)
	assert.Equal(t, 1, st.Hidden)

	img, _ = Draw(samples, pal, Options{Size: 64, Thumb: 16, Attribution: "x"})
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	img, _ = Draw(samples, pal, Options{Size: 64, Thumb: 128})
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())
}
