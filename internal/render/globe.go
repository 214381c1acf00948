// Package render turns projection grids into images and plots.
package render

import (
	"errors"

	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/ortho"
)

// Cell is the per-pixel value of a rendered globe.
type Cell struct {
	Hits    uint32
	Surface bool
}

// Stats summarises a Paint call.
type Stats struct {
	Visible int    `json:"visible"`
	Hidden  int    `json:"hidden"`
	Clipped int    `json:"clipped"`
	MaxHits uint32 `json:"max_hits"`
}

// NewGlobe returns a grid with the visible disc marked as surface.
func NewGlobe(size int, lat, lon float64) *ortho.Grid[Cell] {
	return ortho.NewWithBackground(size, lat, lon, Cell{}, Cell{Surface: true})
}

// Paint counts every visible sample into the pixel under it. Samples on the
// far side are counted as hidden, samples projecting off the grid as clipped.
func Paint(g *ortho.Grid[Cell], samples []geo.Sample) Stats {
	var st Stats

	for _, s := range samples {
		c, err := g.Get(s.Lat, s.Lon)
		switch {
		case errors.Is(err, ortho.ErrNotVisible):
			st.Hidden++
			continue
		case err != nil:
			st.Clipped++
			continue
		}

		c.Hits++
		if err := g.Set(s.Lat, s.Lon, c); err != nil {
			st.Clipped++
			continue
		}

		st.Visible++
		if c.Hits > st.MaxHits {
			st.MaxHits = c.Hits
		}
	}

	return st
}
