// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/ortho"
	"github.com/woozymasta/orthomap/internal/render"

	"github.com/golang/geo/s2"
	"github.com/rs/zerolog/log"
)

const etagCap = 64

type configResponse struct {
	Sources []config.Source `json:"sources"`
	Palette config.Palette  `json:"palette"`
	Output  config.Output   `json:"output"`
	Globe   config.Globe    `json:"globe"`
	Samples int             `json:"samples"`
}

type positionResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Size    int     `json:"size"`
	OnGlobe bool    `json:"on_globe"`
}

type pixelResponse struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Size    int  `json:"size"`
	Visible bool `json:"visible"`
	Inside  bool `json:"inside"`
}

// HandleConfig serves the JSON view of the active configuration.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(configResponse{
		Globe:   s.Config.Globe,
		Palette: s.Config.Palette,
		Output:  s.Config.Output,
		Sources: s.Config.Sources,
		Samples: len(s.Samples),
	})
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	if match := r.Header.Get("If-None-Match"); match == s.indexETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", s.indexETag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleGlobe serves a rendered globe.
// Path: /globe/{lat}/{lon}.{png|webp}?size=N&thumb=N&kinds=AB
func (s *ServerContext) HandleGlobe(w http.ResponseWriter, r *http.Request) {
	lat, lon, format, ok := s.parseCenter(w, r, "png", "webp")
	if !ok {
		return
	}

	q := r.URL.Query()
	size, err := s.querySize(q.Get("size"), s.Config.Globe.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	thumb, err := s.querySize(q.Get("thumb"), 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kinds := q.Get("kinds")

	key := fmt.Sprintf("%s/%.6f/%.6f/%d/%d/%s", format, lat, lon, size, thumb, kinds)

	img, ok := s.cacheGet(key)
	if !ok {
		v, err := s.group.Do(key, func() (interface{}, error) {
			return s.renderGlobe(format, kinds, render.Options{
				Attribution: s.Config.Globe.Attribution,
				Lat:         lat,
				Lon:         lon,
				Size:        size,
				Thumb:       thumb,
			})
		})
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to render globe")
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		img = v.(cachedImage)
		s.cacheAdd(key, img)
	}

	if match := r.Header.Get("If-None-Match"); match == img.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("ETag", img.ETag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(img.Data)
}

// HandlePlot serves a vector plot of the visible samples.
// Path: /plot/{lat}/{lon}.{svg|pdf|png}?kinds=AB
func (s *ServerContext) HandlePlot(w http.ResponseWriter, r *http.Request) {
	lat, lon, format, ok := s.parseCenter(w, r, "svg", "pdf", "png")
	if !ok {
		return
	}

	samples := geo.FilterKinds(s.Samples, r.URL.Query().Get("kinds"))

	proj := ortho.NewOrthographic(s2.LatLngFromDegrees(lat, lon))
	p, err := render.Plot(proj, samples, "")
	if err != nil {
		log.Error().Err(err).Msg("Failed to build plot")
		http.Error(w, "plot failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := render.WritePlot(&buf, p, format); err != nil {
		log.Error().Err(err).Msg("Failed to write plot")
		http.Error(w, "plot failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(buf.Bytes())
}

// HandlePixel serves the forward projection of a point.
// Path: /api/pixel/{lat}/{lon}?size=N&center_lat=..&center_lon=..
func (s *ServerContext) HandlePixel(w http.ResponseWriter, r *http.Request) {
	// parts: api, pixel, lat, lon
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	lat, lon, err := parseLatLon(parts[2], parts[3])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	size, err := s.querySize(q.Get("size"), s.Config.Globe.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cLat, cLon, ok := s.queryCenter(w, q)
	if !ok {
		return
	}

	proj := ortho.NewOrthographic(s2.LatLngFromDegrees(cLat, cLon))
	x, y, visible := ortho.PositionToPixel(proj, size, lat, lon)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pixelResponse{
		X:       x,
		Y:       y,
		Size:    size,
		Visible: visible,
		Inside:  visible && x < size && y < size,
	})
}

// HandlePosition serves the inverse projection of a pixel.
// Path: /api/position/{x}/{y}?size=N&center_lat=..&center_lon=..
func (s *ServerContext) HandlePosition(w http.ResponseWriter, r *http.Request) {
	// parts: api, position, x, y
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 {
		http.NotFound(w, r)
		return
	}

	x, errX := strconv.Atoi(parts[2])
	y, errY := strconv.Atoi(parts[3])
	if errX != nil || errY != nil {
		http.Error(w, "invalid pixel coordinates", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	size, err := s.querySize(q.Get("size"), s.Config.Globe.Size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cLat, cLon, ok := s.queryCenter(w, q)
	if !ok {
		return
	}

	proj := ortho.NewOrthographic(s2.LatLngFromDegrees(cLat, cLon))
	lat, lon, onGlobe := ortho.PixelToPosition(proj, size, x, y)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(positionResponse{
		Lat:     lat,
		Lon:     lon,
		Size:    size,
		OnGlobe: onGlobe,
	})
}

func (s *ServerContext) renderGlobe(format, kinds string, opt render.Options) (cachedImage, error) {
	samples := geo.FilterKinds(s.Samples, kinds)
	img, st := render.Draw(samples, s.Palette, opt)

	log.Debug().
		Float64("lat", opt.Lat).
		Float64("lon", opt.Lon).
		Int("size", opt.Size).
		Int("visible", st.Visible).
		Int("hidden", st.Hidden).
		Int("clipped", st.Clipped).
		Msg("Globe rendered")

	var buf bytes.Buffer
	if err := render.Encode(&buf, img, format, s.Config.Output.Quality); err != nil {
		return cachedImage{}, err
	}

	return cachedImage{Data: buf.Bytes(), ETag: etagOf(buf.Bytes())}, nil
}

// etagOf returns a strong ETag for data.
func etagOf(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)

	etag := make([]byte, 0, etagCap)
	etag = append(etag, '"')
	etag = strconv.AppendUint(etag, h.Sum64(), 16)
	etag = append(etag, '"')

	return string(etag)
}

// parseCenter reads /{prefix}/{lat}/{lon}.{ext}. It writes the error response
// itself and returns ok == false on failure.
func (s *ServerContext) parseCenter(w http.ResponseWriter, r *http.Request, formats ...string) (lat, lon float64, format string, ok bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return 0, 0, "", false
	}

	ext := path.Ext(parts[2])
	format = strings.TrimPrefix(ext, ".")

	if !slices.Contains(formats, format) {
		http.NotFound(w, r)
		return 0, 0, "", false
	}

	lat, lon, err := parseLatLon(parts[1], strings.TrimSuffix(parts[2], ext))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, 0, "", false
	}

	return lat, lon, format, true
}

// queryCenter returns the projection centre from center_lat/center_lon,
// defaulting to the configured globe. It writes the error response itself.
func (s *ServerContext) queryCenter(w http.ResponseWriter, q url.Values) (lat, lon float64, ok bool) {
	if !q.Has("center_lat") && !q.Has("center_lon") {
		return s.Config.Globe.Lat, s.Config.Globe.Lon, true
	}

	lat, lon, err := parseLatLon(q.Get("center_lat"), q.Get("center_lon"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return 0, 0, false
	}

	return lat, lon, true
}

// querySize parses an optional pixel size limited by server.max_size.
func (s *ServerContext) querySize(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}

	size, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", v)
	}
	if size <= 0 || size > s.Config.Server.MaxSize {
		return 0, fmt.Errorf("size must be within 1..%d", s.Config.Server.MaxSize)
	}

	return size, nil
}

func parseLatLon(latStr, lonStr string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", lonStr)
	}

	lon = geo.NormalizeLon(lon)
	if err := geo.ValidLatLon(lat, lon); err != nil {
		return 0, 0, err
	}

	return lat, lon, nil
}
