package processor

import (
	"encoding/json"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/orthomap/internal/geo"
)

// Internal structures for JSON parsing
type marker struct {
	Name string  `json:"nameEN"`
	Type string  `json:"type"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// decodeMarkers parses a flat JSON array of iZurvive style markers.
func decodeMarkers(r io.Reader) ([]geo.Sample, error) {
	var markers []marker
	if err := json.NewDecoder(r).Decode(&markers); err != nil {
		return nil, err
	}

	samples := make([]geo.Sample, 0, len(markers))
	for _, m := range markers {
		if geo.ValidLatLon(m.Lat, m.Lng) != nil {
			continue
		}

		s := geo.Sample{Lat: m.Lat, Lon: m.Lng}
		if m.Type != "" {
			s.Kind, _ = utf8.DecodeRuneInString(strings.ToUpper(m.Type))
		}
		samples = append(samples, s)
	}

	return samples, nil
}

// decodeGeoJSON reads the Point features of a FeatureCollection.
func decodeGeoJSON(r io.Reader) ([]geo.Sample, error) {
	var fc geo.GeoJSONFeatureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, err
	}

	samples := make([]geo.Sample, 0, len(fc.Features))
	for _, f := range fc.Features {
		s, ok := f.Sample()
		if !ok || geo.ValidLatLon(s.Lat, s.Lon) != nil {
			continue
		}
		samples = append(samples, s)
	}

	return samples, nil
}
