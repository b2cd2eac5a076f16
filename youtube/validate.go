package youtube

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Sentinel errors for URL validation and format selection.
var (
	// ErrInvalidURL indicates the input is not a recognized YouTube URL.
	ErrInvalidURL = errors.New("youtube: invalid URL")
	// ErrIDExtraction indicates a URL passed validation but no identifier
	// could be extracted. Validation and extraction share one pattern, so
	// this is not expected to occur; it is kept as a distinct signal rather
	// than a panic.
	ErrIDExtraction = errors.New("youtube: could not extract video ID")
	// ErrNoSuitableFormat indicates no variant satisfied the request.
	ErrNoSuitableFormat = errors.New("youtube: no suitable format")
	// ErrNoCaptions indicates the video has no usable caption tracks.
	ErrNoCaptions = errors.New("youtube: no captions available")
	// ErrTooLong indicates the video exceeds the transcription duration
	// ceiling.
	ErrTooLong = errors.New("youtube: video too long to transcribe")
)

// VideoReference identifies one video: the extracted identifier plus the
// canonical watch URL. Immutable once constructed.
type VideoReference struct {
	ID  string
	URL string
}

// videoURLPattern accepts the canonical YouTube URL shapes and captures the
// video identifier. One pattern serves both acceptance and extraction so the
// two can never disagree.
var videoURLPattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.|m\.)?` +
		`(?:youtube\.com/(?:watch\?(?:[^#]*&)?v=|shorts/|embed/)|youtu\.be/)` +
		`([A-Za-z0-9_-]{6,})`)

// ParseVideoURL validates raw as a YouTube video URL and extracts the video
// identifier. It accepts watch, shorts, embed and youtu.be short-link shapes
// with an identifier of at least 6 word characters.
func ParseVideoURL(raw string) (*VideoReference, error) {
	m := videoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	if len(m) < 2 || m[1] == "" {
		return nil, ErrIDExtraction
	}
	return &VideoReference{
		ID:  m[1],
		URL: "https://www.youtube.com/watch?v=" + m[1],
	}, nil
}

// CheckDuration enforces the transcription duration ceiling. max <= 0 means
// no ceiling.
func CheckDuration(d, max time.Duration) error {
	if max > 0 && d > max {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrTooLong, d, max)
	}
	return nil
}

// DefaultThumbnail returns the deterministic thumbnail URL used when a
// provider supplies none.
func DefaultThumbnail(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}
