// Package geo handles geographic data structures and coordinate conversions.
package geo

// GeoJSONFeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type" yaml:"type"`
	Features []GeoJSONFeature `json:"features" yaml:"features"`
}

// GeoJSONFeature represents a single geographic feature with geometry and properties.
type GeoJSONFeature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   GeoJSONGeometry        `json:"geometry" yaml:"geometry"`
}

// GeoJSONGeometry represents the geometry of a feature (Point, Polygon, etc.).
type GeoJSONGeometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"` // [Lon, Lat]
}

// Sample is a single lat/lon tagged observation.
type Sample struct {
	Lat  float64 `json:"lat" yaml:"lat"`
	Lon  float64 `json:"lon" yaml:"lon"`
	Kind rune    `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// NewFeatureCollection returns an empty collection ready for appending.
func NewFeatureCollection(capacity int) GeoJSONFeatureCollection {
	return GeoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]GeoJSONFeature, 0, capacity),
	}
}

// FeatureFromSample builds a Point feature for s.
func FeatureFromSample(s Sample) GeoJSONFeature {
	props := map[string]interface{}{}
	if s.Kind != 0 {
		props["type"] = string(s.Kind)
	}

	return GeoJSONFeature{
		Type: "Feature",
		Geometry: GeoJSONGeometry{
			Type:        "Point",
			Coordinates: []float64{s.Lon, s.Lat},
		},
		Properties: props,
	}
}

// Sample converts a Point feature to a Sample. The kind is taken from the
// first rune of the "type" property. ok is false for other geometries.
func (f GeoJSONFeature) Sample() (Sample, bool) {
	if f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return Sample{}, false
	}

	s := Sample{
		Lon: f.Geometry.Coordinates[0],
		Lat: f.Geometry.Coordinates[1],
	}

	if kind, ok := f.Properties["type"].(string); ok {
		for _, r := range kind {
			s.Kind = r
			break
		}
	}

	return s, true
}
