package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
globe:
  lat: 41.89889
  lon: 12.47337
  size: 300
  attribution: "© flights"
palette:
  surface: "#123"
output:
  path: out.webp
  format: webp
sources:
  - source: data/positions.csv
    multi_type: true
  - name: remote
    source: https://example.com/markers.json?v=2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Globe.Size)
	assert.InDelta(t, 41.89889, cfg.Globe.Lat, 1e-9)
	assert.Equal(t, "© flights", cfg.Globe.Attribution)
	assert.Equal(t, "#123", cfg.Palette.Surface)
	assert.Equal(t, "#00000000", cfg.Palette.Background)
	assert.Equal(t, "webp", cfg.Output.Format)
	assert.Equal(t, DefaultQuality, cfg.Output.Quality)
	assert.Equal(t, DefaultCacheSize, cfg.Server.CacheSize)

	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "positions.csv", cfg.Sources[0].Name)
	assert.Equal(t, FormatCSV, cfg.Sources[0].Format)
	assert.True(t, cfg.Sources[0].MultiType)
	assert.Equal(t, "remote", cfg.Sources[1].Name)
	assert.Equal(t, FormatJSON, cfg.Sources[1].Format)
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"bad latitude":  "globe: {lat: 91}",
		"bad colour":    "palette: {surface: '#zzz'}",
		"bad format":    "output: {format: gif}",
		"bad quality":   "output: {quality: 101}",
		"source format": "sources: [{source: a.txt, format: xml}]",
		"empty source":  "sources: [{name: nothing}]",
		"not yaml":      "globe: [",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultSize, cfg.Globe.Size)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
	assert.Equal(t, DefaultMaxSize, cfg.Server.MaxSize)
	assert.NoError(t, cfg.Validate())
}

func TestInferFormat(t *testing.T) {
	assert.Equal(t, FormatGeoJSON, InferFormat("maps/points.GeoJSON"))
	assert.Equal(t, FormatJSON, InferFormat("https://example.com/a.json?x=1"))
	assert.Equal(t, FormatCSV, InferFormat("positions.csv"))
	assert.Equal(t, FormatCSV, InferFormat("positions"))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}},
		{"#002f5d", color.NRGBA{0, 0x2f, 0x5d, 255}},
		{"00a0e2c0", color.NRGBA{0, 0xa0, 0xe2, 0xc0}},
		{" #00000000 ", color.NRGBA{}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "#12", "#12345", "#gggggg"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
