package main

import (
	"crypto/tls"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/logger"
	"github.com/woozymasta/orthomap/internal/processor"
	"github.com/woozymasta/orthomap/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Output      string   `short:"o" long:"output"      env:"OUTPUT"      description:"Output image path (overrides output.path)"`
	Format      string   `short:"f" long:"format"      env:"FORMAT"      description:"Output image format (overrides output.format)" choice:"png" choice:"webp"`
	Kinds       string   `short:"k" long:"kinds"       env:"KINDS"       description:"Render only samples of these kinds, e.g. AP"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES" description:"Limit rendering to specific source names"`
	Lat         *float64 `long:"lat"                   description:"Projection centre latitude (overrides globe.lat)"`
	Lon         *float64 `long:"lon"                   description:"Projection centre longitude (overrides globe.lon)"`
	Size        int      `short:"s" long:"size"        env:"SIZE"        description:"Grid size in pixels (overrides globe.size)"`
	Thumb       int      `short:"t" long:"thumb"       env:"THUMB"       description:"Scale the result down to this size"`
	Quality     int      `short:"q" long:"quality"     env:"QUALITY"     description:"WebP quality 1..100 (overrides output.quality)"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency" default:"4"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := loadConfig(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "globe." + cfg.Output.Format
	}

	pal, err := render.NewPalette(cfg.Palette)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid palette")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
		},
		Timeout: 30 * time.Second,
	}

	sources := limitSources(cfg.Sources, opts.Limit)

	log.Info().
		Int("sources_total", len(cfg.Sources)).
		Int("sources_queued", len(sources)).
		Float64("lat", cfg.Globe.Lat).
		Float64("lon", cfg.Globe.Lon).
		Int("size", cfg.Globe.Size).
		Msg("Starting render")

	samples := geo.FilterKinds(processor.LoadAll(client, sources, opts.Concurrency), opts.Kinds)

	img, st := render.Draw(samples, pal, render.Options{
		Attribution: cfg.Globe.Attribution,
		Lat:         cfg.Globe.Lat,
		Lon:         cfg.Globe.Lon,
		Size:        cfg.Globe.Size,
		Thumb:       opts.Thumb,
	})

	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create output file")
	}

	if err := render.Encode(f, img, cfg.Output.Format, cfg.Output.Quality); err != nil {
		_ = f.Close()
		log.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("Failed to encode globe")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Str("path", cfg.Output.Path).Msg("Failed to write globe")
	}

	log.Info().
		Str("path", cfg.Output.Path).
		Int("samples", len(samples)).
		Int("visible", st.Visible).
		Int("hidden", st.Hidden).
		Int("clipped", st.Clipped).
		Uint32("max_hits", st.MaxHits).
		Msg("Render finished successfully")
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Configuration file not found, using defaults")
		return config.Default(), nil
	}

	return cfg, err
}

func (o *Options) apply(cfg *config.Config) {
	if o.Lat != nil {
		cfg.Globe.Lat = *o.Lat
	}
	if o.Lon != nil {
		cfg.Globe.Lon = geo.NormalizeLon(*o.Lon)
	}
	if o.Size > 0 {
		cfg.Globe.Size = o.Size
	}
	if o.Output != "" {
		cfg.Output.Path = o.Output
	}
	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	if o.Quality > 0 {
		cfg.Output.Quality = o.Quality
	}
}

func limitSources(sources []config.Source, names []string) []config.Source {
	if len(names) == 0 {
		return sources
	}

	available := make(map[string]config.Source, len(sources))
	for _, src := range sources {
		available[src.Name] = src
	}

	out := make([]config.Source, 0, len(names))
	seen := make(map[string]bool)

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		if src, ok := available[name]; ok {
			out = append(out, src)
		} else {
			log.Error().
				Str("name", name).
				Msg("Source specified in --limit not found in configuration")
		}
	}

	return out
}
