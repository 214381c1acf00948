package ortho

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// Orthographic is the orthographic projection of the unit sphere as seen from
// an infinite distance above Center. It maps s2.LatLng to r2.Point and back.
// Projected points lie in the unit disc, X grows eastwards and Y grows
// northwards.
type Orthographic struct {
	center  s2.LatLng
	sinLat0 float64
	cosLat0 float64
}

// NewOrthographic returns the projection centred on the given point.
func NewOrthographic(center s2.LatLng) Orthographic {
	lat0 := center.Lat.Radians()
	return Orthographic{
		center:  center,
		sinLat0: math.Sin(lat0),
		cosLat0: math.Cos(lat0),
	}
}

// Center returns the point projected to the origin.
func (o Orthographic) Center() s2.LatLng {
	return o.center
}

// CosC returns the cosine of the angular distance between ll and the centre.
func (o Orthographic) CosC(ll s2.LatLng) float64 {
	lat := ll.Lat.Radians()
	dLon := ll.Lng.Radians() - o.center.Lng.Radians()
	return o.sinLat0*math.Sin(lat) + o.cosLat0*math.Cos(lat)*math.Cos(dLon)
}

// Visible reports whether ll lies on the hemisphere facing the viewer.
// Points exactly on the limb are visible.
func (o Orthographic) Visible(ll s2.LatLng) bool {
	return o.CosC(ll) >= 0
}

// FromLatLng returns the planar coordinates of ll. Far side points are
// mirrored onto the disc, use Visible to tell them apart.
func (o Orthographic) FromLatLng(ll s2.LatLng) r2.Point {
	lat := ll.Lat.Radians()
	dLon := ll.Lng.Radians() - o.center.Lng.Radians()
	return r2.Point{
		X: math.Cos(lat) * math.Sin(dLon),
		Y: o.cosLat0*math.Sin(lat) - o.sinLat0*math.Cos(lat)*math.Cos(dLon),
	}
}

// ToLatLng returns the visible point that projects to p. Points outside the
// unit disc are pulled onto the limb.
func (o Orthographic) ToLatLng(p r2.Point) s2.LatLng {
	rho := p.Norm()
	if rho == 0 {
		return o.center
	}
	if rho > 1 {
		p = p.Mul(1 / rho)
		rho = 1
	}

	c := math.Asin(rho)
	sinC, cosC := math.Sin(c), math.Cos(c)

	lat := math.Asin(clampUnit(cosC*o.sinLat0 + p.Y*sinC*o.cosLat0/rho))
	lon := o.center.Lng.Radians() + math.Atan2(p.X*sinC, rho*cosC*o.cosLat0-p.Y*sinC*o.sinLat0)

	return s2.LatLng{Lat: s1.Angle(lat), Lng: s1.Angle(lon)}.Normalized()
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
