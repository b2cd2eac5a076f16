package youtube

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"

	"ytbridge/provider"
)

// Extractor is the primary media-extraction provider, backed by the player
// client. It performs full metadata and format enumeration and opens content
// streams. No retries are performed here: a failed extraction advances the
// orchestrator's fallback chain instead.
type Extractor struct {
	client  *ytdl.Client
	enabled bool
}

// NewExtractor creates the primary extractor. enabled=false models the
// capability-absent degraded mode: every Probe reports unavailable and the
// orchestrator goes straight to the lightweight lookup tier.
func NewExtractor(enabled bool) *Extractor {
	return &Extractor{
		client:  &ytdl.Client{},
		enabled: enabled,
	}
}

// Probe reports whether the extraction capability is usable.
func (e *Extractor) Probe() bool {
	return e.enabled && e.client != nil
}

// Resolve fetches metadata and the variant list for a video.
func (e *Extractor) Resolve(ctx context.Context, videoID string) (*provider.VideoDetails, error) {
	video, err := e.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("resolve video %s: %w", videoID, err)
	}
	return videoDetails(videoID, video), nil
}

// Stream opens the content stream for one variant. The variant must come
// from a prior Resolve of the same video.
func (e *Extractor) Stream(ctx context.Context, videoID string, variant provider.MediaVariant) (io.ReadCloser, int64, error) {
	video, err := e.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve video %s: %w", videoID, err)
	}
	matches := video.Formats.Itag(variant.Itag)
	if len(matches) == 0 {
		return nil, 0, fmt.Errorf("%w: itag %d no longer offered", ErrNoSuitableFormat, variant.Itag)
	}
	format := &matches[0]
	stream, size, err := e.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, 0, fmt.Errorf("open stream for %s: %w", videoID, err)
	}
	return stream, size, nil
}

// videoDetails maps the player response onto the provider model.
func videoDetails(videoID string, video *ytdl.Video) *provider.VideoDetails {
	details := &provider.VideoDetails{
		ID:       videoID,
		Title:    video.Title,
		Channel:  video.Author,
		Duration: video.Duration,
		Views:    int64(video.Views),
	}

	// Largest thumbnail wins; the normalizer constructs a fallback URL when
	// none is reported.
	var best uint
	for _, t := range video.Thumbnails {
		if t.Width >= best {
			best = t.Width
			details.Thumbnail = t.URL
		}
	}

	details.Variants = make([]provider.MediaVariant, 0, len(video.Formats))
	for _, f := range video.Formats {
		details.Variants = append(details.Variants, mediaVariant(f))
	}

	for _, track := range video.CaptionTracks {
		details.CaptionTracks = append(details.CaptionTracks, provider.CaptionTrack{
			BaseURL:       track.BaseURL,
			LanguageCode:  track.LanguageCode,
			Name:          track.Name.SimpleText,
			AutoGenerated: track.Kind == "asr",
		})
	}

	return details
}

// mediaVariant maps one player format onto the provider model. Track
// presence is derived from the MIME type and the reported audio channels:
// muxed progressive formats carry both, adaptive formats carry one.
func mediaVariant(f ytdl.Format) provider.MediaVariant {
	mediaType, _, err := mime.ParseMediaType(f.MimeType)
	if err != nil {
		mediaType = f.MimeType
	}

	v := provider.MediaVariant{
		Itag:         f.ItagNo,
		QualityLabel: f.QualityLabel,
		Bitrate:      f.Bitrate,
		Size:         f.ContentLength,
		MimeType:     f.MimeType,
	}

	switch {
	case strings.HasPrefix(mediaType, "video/"):
		v.HasVideo = true
		v.HasAudio = f.AudioChannels > 0
	case strings.HasPrefix(mediaType, "audio/"):
		v.HasAudio = true
	}

	if idx := strings.Index(mediaType, "/"); idx >= 0 {
		v.Container = mediaType[idx+1:]
	}

	return v
}
