package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"ytbridge/provider"
	"ytbridge/youtube"
)

// downloadRequest is the POST /download body.
type downloadRequest struct {
	URL string `json:"url"`
}

// handleDownload serves both download modes: POST returns the metadata
// envelope, GET streams the selected variant.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleMetadata(w, r)
	case http.MethodGet:
		s.handleStream(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleMetadata runs the metadata chain: primary extraction, then the
// lightweight lookup when the capability is absent, then a terminal error.
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid url")
		return
	}

	ref, err := youtube.ParseVideoURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "not a valid YouTube URL")
		return
	}

	details, outcome := s.resolvePrimary(r.Context(), ref.ID)
	switch outcome.Kind {
	case provider.OutcomeSuccess:
		writeJSON(w, http.StatusOK, MetadataEnvelope{
			Success: true,
			Video:   newVideoPayload(ref, details),
		})

	case provider.OutcomeUnavailable:
		// Degraded tier: title/author/thumbnail only, empty format list.
		log.Printf("server: %s for %s, using lightweight lookup", outcome.Reason, ref.ID)
		looked, err := s.lookup.Lookup(r.Context(), ref.URL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("metadata lookup failed: %v", err))
			return
		}
		payload := newVideoPayload(ref, looked)
		payload.Formats = []FormatPayload{}
		writeJSON(w, http.StatusOK, MetadataEnvelope{
			Success: true,
			Video:   payload,
			Note:    "full format information requires the media extraction capability",
		})

	case provider.OutcomeFailure:
		// Provider message passes through for diagnostic value.
		writeError(w, http.StatusInternalServerError, outcome.Err.Error())
	}
}

// handleStream streams one selected variant as an attachment. Terminal
// extraction failures redirect to the configured third-party tool instead of
// dead-ending the user.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rawURL := q.Get("url")
	format := q.Get("format")
	quality := q.Get("quality")
	if format == "" {
		format = "mp4"
	}

	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}
	ref, err := youtube.ParseVideoURL(rawURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "not a valid YouTube URL")
		return
	}

	details, outcome := s.resolvePrimary(r.Context(), ref.ID)
	if outcome.Kind != provider.OutcomeSuccess {
		if outcome.Kind == provider.OutcomeFailure {
			log.Printf("server: extraction failed for %s: %v", ref.ID, outcome.Err)
		}
		s.redirectToFallbackTool(w, r, ref.URL)
		return
	}

	variant, err := youtube.SelectVariant(details.Variants, format, quality)
	if err != nil {
		if errors.Is(err, youtube.ErrNoSuitableFormat) {
			writeError(w, http.StatusNotFound,
				"no downloadable format matches the request; try a different quality or format")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stream, size, err := s.extractor.Stream(r.Context(), ref.ID, variant)
	if err != nil {
		log.Printf("server: open stream for %s: %v", ref.ID, err)
		s.redirectToFallbackTool(w, r, ref.URL)
		return
	}
	defer stream.Close()

	ext := format
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", sanitizeFilename(details.Title)+"."+ext))
	w.Header().Set("Cache-Control", "no-store")
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	if _, err := io.Copy(w, stream); err != nil {
		// Headers are already sent; all we can do is log.
		log.Printf("server: stream %s interrupted: %v", ref.ID, err)
	}
}

// redirectToFallbackTool sends the caller to the third-party downloader with
// the original link embedded.
func (s *Server) redirectToFallbackTool(w http.ResponseWriter, r *http.Request, videoURL string) {
	target := s.cfg.FallbackToolURL + "?u=" + url.QueryEscape(videoURL)
	http.Redirect(w, r, target, http.StatusFound)
}
