// Package provider defines the capability-provider contracts the request
// orchestration depends on, and the tagged outcome type used to drive
// fallback decisions.
//
// Each external capability (media extraction, speech transcription, caption
// lookup, lightweight metadata lookup) is modeled as an interface with an
// explicit availability probe. The orchestrator selects a strategy from the
// probes instead of reacting to load failures at call time.
package provider

import (
	"context"
	"io"
	"log"
	"strings"
	"time"
)

// OutcomeKind classifies the result of invoking one capability provider.
type OutcomeKind int

const (
	// OutcomeSuccess means the provider produced a usable payload.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeUnavailable means the capability cannot serve this request at
	// all (missing credential, missing dependency, no data). It is never
	// surfaced to the caller; it always advances the fallback chain.
	OutcomeUnavailable
	// OutcomeFailure means the provider was available but the call failed.
	OutcomeFailure
)

// Outcome is the tagged result of one provider invocation. Exactly one of
// Reason or Err is meaningful, depending on Kind.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // set when Kind == OutcomeUnavailable
	Err    error  // set when Kind == OutcomeFailure
}

// Success returns a success outcome.
func Success() Outcome {
	return Outcome{Kind: OutcomeSuccess}
}

// Unavailable returns an outcome that advances the fallback chain.
func Unavailable(reason string) Outcome {
	return Outcome{Kind: OutcomeUnavailable, Reason: reason}
}

// Failure returns a terminal failure outcome.
func Failure(err error) Outcome {
	return Outcome{Kind: OutcomeFailure, Err: err}
}

// VideoDetails is the provider-reported description of a video, including
// the full list of downloadable variants when the provider enumerates them.
type VideoDetails struct {
	ID        string
	Title     string
	Channel   string
	Duration  time.Duration
	Views     int64
	Thumbnail string
	Variants  []MediaVariant
	// CaptionTracks lists caption tracks discovered alongside the metadata,
	// when the provider exposes them. May be empty.
	CaptionTracks []CaptionTrack
}

// MediaVariant is one downloadable encoding of a video. Read-only, sourced
// from a provider response.
type MediaVariant struct {
	// Itag is the provider's numeric variant identifier.
	Itag int
	// Container is the container format, e.g. "mp4" or "webm".
	Container string
	// QualityLabel is the nominal resolution ("1080p") or empty for
	// audio-only variants.
	QualityLabel string
	// HasVideo reports whether the variant carries a video track.
	HasVideo bool
	// HasAudio reports whether the variant carries an audio track.
	HasAudio bool
	// Bitrate in bits per second, as reported by the provider.
	Bitrate int
	// Size is the byte size when the provider reports one, else 0.
	Size int64
	// MimeType is the full provider MIME string, kept for diagnostics.
	MimeType string
}

// CaptionTrack is a language-tagged caption track reference.
type CaptionTrack struct {
	// BaseURL fetches the track content, when known.
	BaseURL string
	// LanguageCode is the BCP-47 code, e.g. "en" or "en-US".
	LanguageCode string
	// Name is the human-readable track name.
	Name string
	// AutoGenerated reports whether the track was machine generated.
	AutoGenerated bool
}

// TranscriptSegment is a time-bounded span of spoken text.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is an ordered sequence of segments with provider metadata.
type Transcript struct {
	Segments []TranscriptSegment
	Language string
	Duration float64
}

// MediaExtractor is the primary metadata/download capability.
type MediaExtractor interface {
	// Probe reports whether the extraction capability is usable at all.
	Probe() bool

	// Resolve fetches metadata and enumerates variants for a video.
	Resolve(ctx context.Context, videoID string) (*VideoDetails, error)

	// Stream opens the content stream for one variant of a previously
	// resolved video. The returned size is the content length when known,
	// else 0. The caller owns the ReadCloser.
	Stream(ctx context.Context, videoID string, variant MediaVariant) (io.ReadCloser, int64, error)
}

// Transcriber is the speech-transcription capability.
type Transcriber interface {
	// Probe reports whether the transcription credential is configured.
	Probe() bool

	// Transcribe sends the audio file at path and returns timed segments.
	// language is a hint; empty means provider auto-detection.
	Transcribe(ctx context.Context, path string, language string) (*Transcript, error)
}

// CaptionSource fetches provider-hosted caption tracks.
type CaptionSource interface {
	// Tracks lists available caption tracks for a video. An empty list is
	// not an error.
	Tracks(ctx context.Context, videoID string) ([]CaptionTrack, error)

	// Fetch retrieves the timed segments of one track.
	Fetch(ctx context.Context, videoID string, track CaptionTrack) ([]TranscriptSegment, error)
}

// Lookup is the lightweight metadata fallback used when the extractor is
// unavailable. It returns title/author/thumbnail only, with no variants.
type Lookup interface {
	Lookup(ctx context.Context, videoURL string) (*VideoDetails, error)
}

// SanitizeSegments clamps malformed provider segments instead of failing:
// negative starts are clamped to zero, ends are forced past their starts,
// and empty-text segments are dropped. Order is preserved.
func SanitizeSegments(segs []TranscriptSegment) []TranscriptSegment {
	out := make([]TranscriptSegment, 0, len(segs))
	for _, s := range segs {
		if s.Start < 0 {
			log.Printf("provider: clamping negative segment start %.3f", s.Start)
			s.Start = 0
		}
		if s.End <= s.Start {
			log.Printf("provider: clamping segment end %.3f <= start %.3f", s.End, s.Start)
			s.End = s.Start
		}
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
