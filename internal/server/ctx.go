package server

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/woozymasta/orthomap/assets"
	"github.com/woozymasta/orthomap/internal/config"
	"github.com/woozymasta/orthomap/internal/geo"
	"github.com/woozymasta/orthomap/internal/render"

	"github.com/golang/groupcache/lru"
	"github.com/golang/groupcache/singleflight"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Palette   render.Palette
	Samples   []geo.Sample
	IndexHTML []byte

	indexETag string

	cacheMu sync.Mutex
	cache   *lru.Cache
	group   singleflight.Group
}

type pageData struct {
	CSS string
	JS  string
}

// NewServerContext validates the palette, minifies the index page and sets
// up the image cache.
func NewServerContext(cfg *config.Config, samples []geo.Sample) (*ServerContext, error) {
	log.Info().
		Int("sources", len(cfg.Sources)).
		Int("samples", len(samples)).
		Msg("Initializing server context")

	pal, err := render.NewPalette(cfg.Palette)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex()
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("index_bytes", len(index)).
		Int("cache_size", cfg.Server.CacheSize).
		Int("max_size", cfg.Server.MaxSize).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:    cfg,
		Palette:   pal,
		Samples:   samples,
		IndexHTML: index,
		indexETag: etagOf(index),
		cache:     lru.New(cfg.Server.CacheSize),
	}, nil
}

// buildIndex renders the page template with minified CSS and JS inlined.
func buildIndex() ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)

	cssMin, err := m.String("text/css", assets.StyleCSS)
	if err != nil {
		return nil, err
	}
	jsMin, err := m.String("text/javascript", assets.ScriptJS)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New("index").Parse(assets.IndexTemplate)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, pageData{CSS: cssMin, JS: jsMin}); err != nil {
		return nil, err
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, err
	}

	return out, nil
}

type cachedImage struct {
	Data []byte
	ETag string
}

func (s *ServerContext) cacheGet(key string) (cachedImage, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	v, ok := s.cache.Get(key)
	if !ok {
		return cachedImage{}, false
	}

	return v.(cachedImage), true
}

func (s *ServerContext) cacheAdd(key string, img cachedImage) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache.Add(key, img)
}
