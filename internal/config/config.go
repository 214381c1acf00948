// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/orthomap/internal/geo"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Load and Default.
const (
	DefaultSize      = 512
	DefaultQuality   = 85
	DefaultCacheSize = 64
	DefaultMaxSize   = 2048
	DefaultFormat    = "png"
)

// Sample source formats.
const (
	FormatCSV     = "csv"
	FormatGeoJSON = "geojson"
	FormatJSON    = "json"
)

// Config represents the root configuration file structure.
type Config struct {
	Palette Palette  `yaml:"palette" json:"palette"`
	Output  Output   `yaml:"output" json:"output"`
	Sources []Source `yaml:"sources,omitempty" json:"sources"`
	Globe   Globe    `yaml:"globe" json:"globe"`
	Server  Server   `yaml:"server,omitempty" json:"-"`
}

// Globe describes the projection centre and grid size.
type Globe struct {
	Attribution string  `yaml:"attribution,omitempty" json:"attribution,omitempty"`
	Lat         float64 `yaml:"lat" json:"lat"`
	Lon         float64 `yaml:"lon" json:"lon"`
	Size        int     `yaml:"size,omitempty" json:"size"`
}

// Palette holds hex colours (#rgb, #rrggbb or #rrggbbaa) used for rendering.
type Palette struct {
	Background string `yaml:"background,omitempty" json:"background"`
	Surface    string `yaml:"surface,omitempty" json:"surface"`
	PointLow   string `yaml:"point_low,omitempty" json:"point_low"`
	PointHigh  string `yaml:"point_high,omitempty" json:"point_high"`
}

// Source is a single sample feed, either a local file or an http(s) URL.
type Source struct {
	Name      string `yaml:"name" json:"name"`
	Location  string `yaml:"source" json:"-"`
	Format    string `yaml:"format,omitempty" json:"format"`
	MultiType bool   `yaml:"multi_type,omitempty" json:"multi_type,omitempty"`
}

// Output describes where the rendered globe is written.
type Output struct {
	Path    string `yaml:"path,omitempty" json:"-"`
	Format  string `yaml:"format,omitempty" json:"format"`
	Quality int    `yaml:"quality,omitempty" json:"quality,omitempty"`
}

// Server holds HTTP server limits.
type Server struct {
	CacheSize int `yaml:"cache_size,omitempty"`
	MaxSize   int `yaml:"max_size,omitempty"`
}

// Default returns a configuration with every default applied and no sources.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Globe.Size <= 0 {
		c.Globe.Size = DefaultSize
	}

	if c.Palette.Background == "" {
		c.Palette.Background = "#00000000"
	}
	if c.Palette.Surface == "" {
		c.Palette.Surface = "#0b2a4a"
	}
	if c.Palette.PointLow == "" {
		c.Palette.PointLow = "#002f5d40"
	}
	if c.Palette.PointHigh == "" {
		c.Palette.PointHigh = "#00a0e2c0"
	}

	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Output.Quality <= 0 {
		c.Output.Quality = DefaultQuality
	}

	if c.Server.CacheSize <= 0 {
		c.Server.CacheSize = DefaultCacheSize
	}
	if c.Server.MaxSize <= 0 {
		c.Server.MaxSize = DefaultMaxSize
	}

	for i := range c.Sources {
		src := &c.Sources[i]
		if src.Format == "" {
			src.Format = InferFormat(src.Location)
		}
		if src.Name == "" {
			src.Name = filepath.Base(src.Location)
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := geo.ValidLatLon(c.Globe.Lat, c.Globe.Lon); err != nil {
		return fmt.Errorf("globe: %w", err)
	}
	if c.Globe.Size <= 0 {
		return fmt.Errorf("globe: size must be > 0")
	}

	for name, hex := range map[string]string{
		"background": c.Palette.Background,
		"surface":    c.Palette.Surface,
		"point_low":  c.Palette.PointLow,
		"point_high": c.Palette.PointHigh,
	} {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("palette %s: %w", name, err)
		}
	}

	switch c.Output.Format {
	case "png", "webp":
	default:
		return fmt.Errorf("output: unsupported format %q", c.Output.Format)
	}
	if c.Output.Quality > 100 {
		return fmt.Errorf("output: quality must be <= 100")
	}

	for _, src := range c.Sources {
		if src.Location == "" {
			return fmt.Errorf("source %q: empty source", src.Name)
		}
		switch src.Format {
		case FormatCSV, FormatGeoJSON, FormatJSON:
		default:
			return fmt.Errorf("source %q: unsupported format %q", src.Name, src.Format)
		}
	}

	return nil
}

// InferFormat guesses a sample format from the file extension, defaulting to CSV.
func InferFormat(location string) string {
	// drop query strings from URLs
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		location = location[:i]
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".geojson":
		return FormatGeoJSON
	case ".json":
		return FormatJSON
	default:
		return FormatCSV
	}
}
