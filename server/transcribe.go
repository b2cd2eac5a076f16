package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"ytbridge/provider"
	"ytbridge/youtube"
)

// transcribeRequest is the POST /transcribe body. Language "auto" (or
// empty) means provider auto-detection; any other value is passed through as
// a hint.
type transcribeRequest struct {
	URL      string `json:"url"`
	Language string `json:"language"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleTranscribeInfo(w, r)
	case http.MethodPost:
		s.handleTranscribeRun(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleTranscribeInfo describes the two transcription modes and their
// activation conditions. No external calls are made.
func (s *Server) handleTranscribeInfo(w http.ResponseWriter, _ *http.Request) {
	type mode struct {
		Name        string `json:"name"`
		Active      bool   `json:"active"`
		Requires    string `json:"requires,omitempty"`
		Description string `json:"description"`
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Modes   []mode `json:"modes"`
	}{
		Success: true,
		Modes: []mode{
			{
				Name:        SourceWhisper,
				Active:      s.transcriber != nil && s.transcriber.Probe(),
				Requires:    "OPENAI_API_KEY",
				Description: "downloads the audio track and transcribes it with timed segments",
			},
			{
				Name:        SourceCaptions,
				Active:      true,
				Description: "fetches the video's own caption track; used when the credentialed path is unavailable",
			},
		},
	})
}

// handleTranscribeRun orchestrates the transcription chain:
// credential check, primary download-and-transcribe, caption lookup
// fallback, terminal error.
func (s *Server) handleTranscribeRun(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid url")
		return
	}

	language := req.Language
	if language == "auto" {
		language = ""
	}

	ref, err := youtube.ParseVideoURL(req.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "not a valid YouTube URL")
		return
	}

	// Uncredentialed: skip directly to caption lookup.
	if s.transcriber == nil || !s.transcriber.Probe() {
		s.transcribeFromCaptions(w, r, ref, nil)
		return
	}

	details, outcome := s.resolvePrimary(r.Context(), ref.ID)
	switch outcome.Kind {
	case provider.OutcomeUnavailable:
		log.Printf("server: %s for %s, using captions", outcome.Reason, ref.ID)
		s.transcribeFromCaptions(w, r, ref, nil)
		return
	case provider.OutcomeFailure:
		writeError(w, http.StatusInternalServerError, outcome.Err.Error())
		return
	}

	// Cost-avoidance guard: reject before spending time on the download.
	if err := youtube.CheckDuration(details.Duration, s.cfg.MaxTranscribeDuration); err != nil {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("video is %.0f seconds long; transcription is limited to %.0f seconds",
				details.Duration.Seconds(), s.cfg.MaxTranscribeDuration.Seconds()))
		return
	}

	variant, err := youtube.SelectAudioVariant(details.Variants)
	if err != nil {
		// No usable audio variant: caption lookup is the next tier.
		log.Printf("server: no audio variant for %s, using captions", ref.ID)
		s.transcribeFromCaptions(w, r, ref, details)
		return
	}

	audio := newTempAudio(s.cfg.TempDir, ref.ID)
	defer audio.Remove()

	stream, _, err := s.extractor.Stream(r.Context(), ref.ID, variant)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("download audio: %v", err))
		return
	}
	err = audio.write(stream)
	stream.Close()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	transcript, err := s.transcriber.Transcribe(r.Context(), audio.path, language)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("transcription failed: %v", err))
		return
	}

	lang := transcript.Language
	if lang == "" {
		lang = req.Language
	}
	duration := transcript.Duration
	if duration == 0 {
		duration = details.Duration.Seconds()
	}
	writeJSON(w, http.StatusOK,
		newTranscriptEnvelope(details.Title, transcript.Segments, lang, duration, SourceWhisper))
}

// transcribeFromCaptions is the caption-lookup tier. details may be nil when
// the extractor never ran; tracks discovered during extraction are preferred
// over a fresh listing.
func (s *Server) transcribeFromCaptions(w http.ResponseWriter, r *http.Request, ref *youtube.VideoReference, details *provider.VideoDetails) {
	ctx := r.Context()

	var tracks []provider.CaptionTrack
	if details != nil && len(details.CaptionTracks) > 0 {
		tracks = details.CaptionTracks
	} else {
		var err error
		tracks, err = s.captions.Tracks(ctx, ref.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("list captions: %v", err))
			return
		}
	}

	track, ok := youtube.PreferTrack(tracks)
	if !ok {
		writeError(w, http.StatusNotFound,
			"no captions available for this video; configure OPENAI_API_KEY for audio transcription")
		return
	}

	segments, err := s.captions.Fetch(ctx, ref.ID, track)
	if err != nil || len(segments) == 0 {
		if err != nil {
			log.Printf("server: caption fetch for %s: %v", ref.ID, err)
		}
		writeError(w, http.StatusNotFound,
			"no captions available for this video; configure OPENAI_API_KEY for audio transcription")
		return
	}

	title := s.captionTitle(ctx, ref, details)

	duration := 0.0
	if details != nil {
		duration = details.Duration.Seconds()
	} else if n := len(segments); n > 0 {
		duration = segments[n-1].End
	}

	lang := track.LanguageCode
	if lang == "" {
		lang = "en"
	}

	writeJSON(w, http.StatusOK,
		newTranscriptEnvelope(title, segments, lang, duration, SourceCaptions))
}

// captionTitle finds a display title for the caption path. When extraction
// never ran, the lightweight lookup is tried best-effort; a missing title is
// not worth failing an otherwise good transcript.
func (s *Server) captionTitle(ctx context.Context, ref *youtube.VideoReference, details *provider.VideoDetails) string {
	if details != nil && details.Title != "" {
		return details.Title
	}
	if s.lookup != nil {
		if looked, err := s.lookup.Lookup(ctx, ref.URL); err == nil && looked.Title != "" {
			return looked.Title
		}
	}
	return ref.ID
}
