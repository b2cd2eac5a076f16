package server

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"
	"strings"

	"ytbridge/provider"
	"ytbridge/youtube"
)

// FormatPayload is one variant in the metadata envelope.
type FormatPayload struct {
	Itag      int    `json:"itag"`
	Container string `json:"container"`
	Quality   string `json:"quality"`
	HasVideo  bool   `json:"hasVideo"`
	HasAudio  bool   `json:"hasAudio"`
	Size      int64  `json:"size,omitempty"`
}

// VideoPayload is the normalized video description.
type VideoPayload struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Channel   string          `json:"channel"`
	Duration  int             `json:"duration"`
	Views     int64           `json:"views"`
	Thumbnail string          `json:"thumbnail"`
	Formats   []FormatPayload `json:"formats"`
}

// MetadataEnvelope is the /download metadata response.
type MetadataEnvelope struct {
	Success bool         `json:"success"`
	Video   VideoPayload `json:"video"`
	// Note is set on degraded responses from the lightweight lookup tier.
	Note string `json:"note,omitempty"`
}

// TranscriptEnvelope is the /transcribe response.
type TranscriptEnvelope struct {
	Success    bool                         `json:"success"`
	Title      string                       `json:"title"`
	Transcript string                       `json:"transcript"`
	Segments   []provider.TranscriptSegment `json:"segments"`
	Language   string                       `json:"language"`
	Duration   float64                      `json:"duration"`
	WordCount  int                          `json:"wordCount"`
	Source     string                       `json:"source"`
}

// Transcript sources.
const (
	SourceWhisper  = "whisper"
	SourceCaptions = "youtube-captions"
)

// ErrorEnvelope is the error response shape for all endpoints.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// newVideoPayload normalizes provider details into the stable payload.
// The thumbnail falls back to a constructed URL when the provider supplies
// none.
func newVideoPayload(ref *youtube.VideoReference, details *provider.VideoDetails) VideoPayload {
	p := VideoPayload{
		ID:        ref.ID,
		Title:     details.Title,
		Channel:   details.Channel,
		Duration:  int(details.Duration.Seconds()),
		Views:     details.Views,
		Thumbnail: details.Thumbnail,
		Formats:   make([]FormatPayload, 0, len(details.Variants)),
	}
	if p.Thumbnail == "" {
		p.Thumbnail = youtube.DefaultThumbnail(ref.ID)
	}
	for _, v := range details.Variants {
		p.Formats = append(p.Formats, FormatPayload{
			Itag:      v.Itag,
			Container: v.Container,
			Quality:   v.QualityLabel,
			HasVideo:  v.HasVideo,
			HasAudio:  v.HasAudio,
			Size:      v.Size,
		})
	}
	return p
}

// newTranscriptEnvelope assembles the transcript response. The transcript
// text is the space-joined segment texts in order; the word count is the
// whitespace-delimited token count.
func newTranscriptEnvelope(title string, segments []provider.TranscriptSegment, language string, duration float64, source string) TranscriptEnvelope {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	transcript := strings.Join(texts, " ")

	return TranscriptEnvelope{
		Success:    true,
		Title:      title,
		Transcript: transcript,
		Segments:   segments,
		Language:   language,
		Duration:   duration,
		WordCount:  len(strings.Fields(transcript)),
		Source:     source,
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: write response: %v", err)
	}
}

// writeError writes an error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorEnvelope{Success: false, Error: message})
}

var filenamePattern = regexp.MustCompile(`[^\w\s-]`)

// sanitizeFilename strips everything outside word characters, whitespace and
// hyphens, trims, and truncates to 60 characters for use in
// Content-Disposition.
func sanitizeFilename(title string) string {
	s := filenamePattern.ReplaceAllString(title, "")
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		s = strings.TrimSpace(s[:60])
	}
	if s == "" {
		s = "video"
	}
	return s
}

// contentTypeFor maps a requested output format to its MIME type.
func contentTypeFor(format string) string {
	switch format {
	case "mp3":
		return "audio/mpeg"
	case "webm":
		return "video/webm"
	default:
		return "video/mp4"
	}
}
