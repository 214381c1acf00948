// Package ortho implements an orthographic projection of the globe onto a
// square pixel grid holding arbitrary per-pixel values.
//
// A grid is not safe for concurrent use. Callers sharing a grid between
// goroutines must serialise writers themselves.
package ortho

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
)

var (
	// ErrOutOfBounds is returned for pixel coordinates outside the grid.
	ErrOutOfBounds = errors.New("pixel out of bounds")

	// ErrNotVisible is returned when reading a point on the far side of the
	// globe. It wraps ErrOutOfBounds.
	ErrNotVisible = fmt.Errorf("%w: point is on the far side of the globe", ErrOutOfBounds)
)

// Cloner is implemented by cell values that must not share state between
// cells, such as slices or maps. Fill operations clone them once per cell.
type Cloner[T any] interface {
	Clone() T
}

// Grid is a size x size buffer of values of type T laid over an
// orthographic view of the globe.
type Grid[T any] struct {
	cells []T
	proj  Orthographic
	size  int
}

// New creates a grid of size x size pixels centred on lat/lon (degrees) with
// every cell set to def. A negative size is treated as 0, which yields an
// empty grid on which every pixel access fails.
func New[T any](size int, lat, lon float64, def T) *Grid[T] {
	if size < 0 {
		size = 0
	}

	g := &Grid[T]{
		cells: make([]T, size*size),
		proj:  NewOrthographic(s2.LatLngFromDegrees(lat, lon)),
		size:  size,
	}
	g.Fill(def)

	return g
}

// NewWithBackground creates a grid filled with bg and paints the disc of the
// visible hemisphere with surface. The disc is a pixel circle of radius
// size/2 around (size/2, size/2), edge included.
func NewWithBackground[T any](size int, lat, lon float64, bg, surface T) *Grid[T] {
	g := New(size, lat, lon, bg)

	c := g.size / 2
	rr := c * c

	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= rr {
				g.cells[g.at(x, y)] = cloneOf(surface)
			}
		}
	}

	return g
}

// Size returns the side length of the grid in pixels.
func (g *Grid[T]) Size() int {
	return g.size
}

// PositionToPixel returns the pixel that lat/lon (degrees) falls on, or
// ok == false when the point is on the far side of the globe. The result is
// not clamped to the grid: points on the limb may land one pixel outside.
func (g *Grid[T]) PositionToPixel(lat, lon float64) (x, y int, ok bool) {
	return PositionToPixel(g.proj, g.size, lat, lon)
}

// PositionToPixel projects lat/lon (degrees) with proj onto a size x size
// grid without allocating one.
func PositionToPixel(proj Orthographic, size int, lat, lon float64) (x, y int, ok bool) {
	ll := s2.LatLngFromDegrees(lat, lon)
	if !proj.Visible(ll) {
		return 0, 0, false
	}

	p := proj.FromLatLng(ll)
	r := float64(size / 2)

	// north up, origin in the top-left corner
	return truncate(p.X*r + r), truncate(-(p.Y * r) + r), true
}

// PixelToPosition returns the location under the top-left corner of pixel
// x/y on a size x size grid. ok is false outside the grid or outside the
// globe disc.
func PixelToPosition(proj Orthographic, size, x, y int) (lat, lon float64, ok bool) {
	if x < 0 || y < 0 || x >= size || y >= size {
		return 0, 0, false
	}

	r := float64(size / 2)
	if r == 0 {
		return 0, 0, false
	}

	p := r2.Point{X: (float64(x) - r) / r, Y: -(float64(y) - r) / r}
	if p.Norm() > 1 {
		return 0, 0, false
	}

	ll := proj.ToLatLng(p)
	return ll.Lat.Degrees(), ll.Lng.Degrees(), true
}

// Set stores v in the pixel under lat/lon. Points on the far side of the
// globe are silently ignored.
func (g *Grid[T]) Set(lat, lon float64, v T) error {
	x, y, ok := g.PositionToPixel(lat, lon)
	if !ok {
		return nil
	}

	return g.SetPixel(x, y, v)
}

// Get returns the value stored in the pixel under lat/lon. It resolves the
// same pixel Set writes to.
func (g *Grid[T]) Get(lat, lon float64) (T, error) {
	x, y, ok := g.PositionToPixel(lat, lon)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %.6f,%.6f", ErrNotVisible, lat, lon)
	}

	return g.Pixel(x, y)
}

// Pixel returns the value of pixel x/y.
func (g *Grid[T]) Pixel(x, y int) (T, error) {
	i, err := g.index(x, y)
	if err != nil {
		var zero T
		return zero, err
	}

	return g.cells[i], nil
}

// SetPixel stores v in pixel x/y.
func (g *Grid[T]) SetPixel(x, y int, v T) error {
	i, err := g.index(x, y)
	if err != nil {
		return err
	}

	g.cells[i] = v
	return nil
}

// Fill sets every cell to v.
func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = cloneOf(v)
	}
}

// Each calls fn for every pixel, x outer and y inner.
func (g *Grid[T]) Each(fn func(x, y int, v T)) {
	for x := 0; x < g.size; x++ {
		for y := 0; y < g.size; y++ {
			fn(x, y, g.cells[g.at(x, y)])
		}
	}
}

// index maps pixel x/y onto the cell buffer. x is the outer stride.
func (g *Grid[T]) index(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return 0, fmt.Errorf("%w: (%d,%d) on %dx%d grid", ErrOutOfBounds, x, y, g.size, g.size)
	}

	return g.at(x, y), nil
}

// at is index for coordinates already known to be inside the grid.
func (g *Grid[T]) at(x, y int) int {
	return x*g.size + y
}

// truncate rounds toward zero, saturating negatives and NaN at 0.
func truncate(v float64) int {
	if !(v > 0) {
		return 0
	}

	return int(v)
}

func cloneOf[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}

	return v
}
