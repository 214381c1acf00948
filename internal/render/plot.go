package render

import (
	"fmt"
	"io"
	"math"

	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/ortho"

	"github.com/golang/geo/s2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotSize is the edge length of plots written by WritePlot.
const PlotSize = 6 * vg.Inch

// Plot draws the visible samples in projection coordinates inside the limb
// circle of proj. An empty title is replaced by the projection centre.
func Plot(proj ortho.Orthographic, samples []geo.Sample, title string) (*plot.Plot, error) {
	if title == "" {
		c := proj.Center()
		title = fmt.Sprintf("%.4f, %.4f", c.Lat.Degrees(), c.Lng.Degrees())
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Min, p.X.Max = -1.05, 1.05
	p.Y.Min, p.Y.Max = -1.05, 1.05
	p.HideAxes()

	limb := make(plotter.XYs, 0, 361)
	for deg := 0; deg <= 360; deg++ {
		a := float64(deg) * math.Pi / 180
		limb = append(limb, plotter.XY{X: math.Cos(a), Y: math.Sin(a)})
	}

	line, err := plotter.NewLine(limb)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1)
	p.Add(line)

	pts := make(plotter.XYs, 0, len(samples))
	for _, s := range samples {
		ll := s2.LatLngFromDegrees(s.Lat, s.Lon)
		if !proj.Visible(ll) {
			continue
		}
		q := proj.FromLatLng(ll)
		pts = append(pts, plotter.XY{X: q.X, Y: q.Y})
	}

	if len(pts) == 0 {
		return p, nil
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	return p, nil
}

// WritePlot encodes p as svg, pdf or png.
func WritePlot(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(PlotSize, PlotSize, format)
	if err != nil {
		return err
	}

	_, err = wt.WriteTo(w)
	return err
}
