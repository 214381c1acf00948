package server

import "net/http"

// Handler returns every route wrapped in RequestLogger.
func (s *ServerContext) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", s.HandleConfig)
	mux.HandleFunc("/api/pixel/", s.HandlePixel)
	mux.HandleFunc("/api/position/", s.HandlePosition)
	mux.HandleFunc("/globe/", s.HandleGlobe)
	mux.HandleFunc("/plot/", s.HandlePlot)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}
