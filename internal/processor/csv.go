package processor

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/woozymasta/orthomap/internal/geo"

	"github.com/rs/zerolog/log"
)

// decodeCSV reads "lat,lon[,kind]" rows. Rows that are short or fail to
// parse (headers included) are skipped.
func decodeCSV(r io.Reader, multiType bool) ([]geo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true

	minFields := 2
	if multiType {
		minFields = 3
	}

	var samples []geo.Sample
	line := 0
	skipped := 0

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Trace().Err(err).Int("line", line).Msg("Skipping malformed row")
				skipped++
				continue
			}
			return nil, err
		}

		if len(record) < minFields {
			log.Trace().Int("line", line).Msg("Skipping row due to insufficient items")
			skipped++
			continue
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			log.Trace().Int("line", line).Msg("Skipping row due to parse error on latitude")
			skipped++
			continue
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			log.Trace().Int("line", line).Msg("Skipping row due to parse error on longitude")
			skipped++
			continue
		}

		if err := geo.ValidLatLon(lat, lon); err != nil {
			log.Trace().Err(err).Int("line", line).Msg("Skipping row with invalid position")
			skipped++
			continue
		}

		s := geo.Sample{Lat: lat, Lon: lon}
		if multiType {
			if kind := strings.TrimSpace(record[2]); kind != "" {
				s.Kind, _ = utf8.DecodeRuneInString(kind)
			}
		}
		samples = append(samples, s)
	}

	if skipped > 0 {
		log.Debug().Int("rows", line).Int("skipped", skipped).Msg("CSV rows skipped")
	}

	return samples, nil
}
