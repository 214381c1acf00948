// Package processor handles the downloading and decoding of sample feeds.
package processor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"

	"github.com/rs/zerolog/log"
)

// LoadSamples reads every sample from src. Sources starting with "http" are
// downloaded with client, anything else is read from disk.
func LoadSamples(client *http.Client, src config.Source) ([]geo.Sample, error) {
	rc, err := openSource(client, src.Location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	samples, err := Decode(rc, src.Format, src.MultiType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", src.Name, err)
	}

	log.Debug().
		Str("source", src.Name).
		Str("format", src.Format).
		Int("samples", len(samples)).
		Msg("Source decoded")

	return samples, nil
}

// Decode reads samples of the given format from r.
func Decode(r io.Reader, format string, multiType bool) ([]geo.Sample, error) {
	switch format {
	case config.FormatCSV:
		return decodeCSV(r, multiType)
	case config.FormatGeoJSON:
		return decodeGeoJSON(r)
	case config.FormatJSON:
		return decodeMarkers(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func openSource(client *http.Client, location string) (io.ReadCloser, error) {
	if !strings.HasPrefix(location, "http") {
		return os.Open(location)
	}

	log.Info().Str("url", location).Msg("Downloading samples...")
	resp, err := client.Get(location)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
