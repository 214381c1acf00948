package ortho

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/assert"
)

func TestOrthographicRoundTrip(t *testing.T) {
	proj := NewOrthographic(s2.LatLngFromDegrees(41.89889, 12.47337))

	points := []s2.LatLng{
		s2.LatLngFromDegrees(51.50791, -0.12786),
		s2.LatLngFromDegrees(41.89889, 12.47337),
		s2.LatLngFromDegrees(0, 30),
		s2.LatLngFromDegrees(70, 60),
		s2.LatLngFromDegrees(10, -20),
	}

	for _, ll := range points {
		if !proj.Visible(ll) {
			t.Fatalf("%v should be visible", ll)
		}

		p := proj.FromLatLng(ll)
		if p.Norm() > 1+1e-12 {
			t.Errorf("%v projected outside the unit disc: %v", ll, p)
		}

		got := proj.ToLatLng(p)
		if d := got.Distance(ll).Degrees(); d > 1e-9 {
			t.Errorf("round trip of %v returned %v (%g° off)", ll, got, d)
		}
	}
}

func TestOrthographicVisibility(t *testing.T) {
	proj := NewOrthographic(s2.LatLngFromDegrees(0, 0))

	tests := []struct {
		ll      s2.LatLng
		visible bool
	}{
		{s2.LatLngFromDegrees(0, 0), true},
		{s2.LatLngFromDegrees(0, 90), true},
		{s2.LatLngFromDegrees(90, 0), true},
		{s2.LatLngFromDegrees(0, 180), false},
		{s2.LatLngFromDegrees(0, 91), false},
		{s2.LatLngFromDegrees(-45, -135), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.visible, proj.Visible(tt.ll), "%v", tt.ll)
	}

	assert.InDelta(t, -1, proj.CosC(s2.LatLngFromDegrees(0, 180)), 1e-12)
	assert.InDelta(t, 1, proj.CosC(s2.LatLngFromDegrees(0, 0)), 1e-12)
}

func TestOrthographicToLatLngOutsideDisc(t *testing.T) {
	proj := NewOrthographic(s2.LatLngFromDegrees(0, 0))

	ll := proj.ToLatLng(r2.Point{X: 2, Y: 0})
	assert.InDelta(t, 0, ll.Lat.Degrees(), 1e-9)
	assert.InDelta(t, 90, ll.Lng.Degrees(), 1e-9)

	ll = proj.ToLatLng(r2.Point{X: 0, Y: 1})
	assert.InDelta(t, 90, ll.Lat.Degrees(), 1e-9)
}
