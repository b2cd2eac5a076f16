// Package server implements the two HTTP operations and the capability
// fallback orchestration behind them.
//
// Each operation is a straight-line chain of capability providers tried in
// priority order: the first usable provider that succeeds short-circuits the
// chain, an unavailable capability advances it, and terminal failures are
// shaped by policy (error envelope for metadata, redirect for streaming
// downloads, caption fallback for transcription).
package server

import (
	"context"
	"net/http"

	"ytbridge/config"
	"ytbridge/provider"
)

// Server wires the capability providers to the HTTP surface. No state is
// shared across requests.
type Server struct {
	cfg         *config.Config
	extractor   provider.MediaExtractor
	transcriber provider.Transcriber
	captions    provider.CaptionSource
	lookup      provider.Lookup
}

// New creates a server over the given providers.
func New(cfg *config.Config, extractor provider.MediaExtractor, transcriber provider.Transcriber, captions provider.CaptionSource, lookup provider.Lookup) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		cfg:         cfg,
		extractor:   extractor,
		transcriber: transcriber,
		captions:    captions,
		lookup:      lookup,
	}
}

// Handler returns the HTTP handler for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/transcribe", s.handleTranscribe)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resolvePrimary runs the primary extraction tier and classifies the result
// as a tagged outcome for the orchestrators.
func (s *Server) resolvePrimary(ctx context.Context, videoID string) (*provider.VideoDetails, provider.Outcome) {
	if s.extractor == nil || !s.extractor.Probe() {
		return nil, provider.Unavailable("media extraction capability not available")
	}
	details, err := s.extractor.Resolve(ctx, videoID)
	if err != nil {
		return nil, provider.Failure(err)
	}
	return details, provider.Success()
}
