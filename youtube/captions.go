package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"

	"ytbridge/httpclient"
	"ytbridge/provider"
)

// TrackLister discovers caption tracks for a video when the player response
// did not supply any. Implementations may be unavailable (no credential);
// they signal that by returning ok=false from Available.
type TrackLister interface {
	Available() bool
	ListTracks(ctx context.Context, videoID string) ([]provider.CaptionTrack, error)
}

// CaptionClient fetches caption tracks from YouTube's timedtext endpoint.
// It implements provider.CaptionSource.
type CaptionClient struct {
	httpClient *httpclient.Client
	baseURL    string
	lister     TrackLister
}

// NewCaptionClient creates a caption client. lister is optional; when nil,
// track discovery falls back to a direct English timedtext probe.
func NewCaptionClient(hc *httpclient.Client, lister TrackLister) *CaptionClient {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &CaptionClient{
		httpClient: hc,
		baseURL:    "https://www.youtube.com/api/timedtext",
		lister:     lister,
	}
}

// Tracks lists available caption tracks. Preference source order: the
// configured track lister when available, else a synthetic "en" track that
// Fetch resolves against the timedtext endpoint directly.
func (cc *CaptionClient) Tracks(ctx context.Context, videoID string) ([]provider.CaptionTrack, error) {
	if cc.lister != nil && cc.lister.Available() {
		tracks, err := cc.lister.ListTracks(ctx, videoID)
		if err == nil && len(tracks) > 0 {
			return tracks, nil
		}
		if err != nil {
			// Discovery failure is not terminal; fall through to the probe.
			log.Printf("youtube: caption track listing failed for %s: %v", videoID, err)
		}
	}
	return []provider.CaptionTrack{{LanguageCode: "en", Name: "English"}}, nil
}

// Fetch retrieves the timed segments of one track in JSON3 form.
func (cc *CaptionClient) Fetch(ctx context.Context, videoID string, track provider.CaptionTrack) ([]provider.TranscriptSegment, error) {
	captionURL := track.BaseURL
	if captionURL == "" {
		params := url.Values{}
		params.Set("v", videoID)
		params.Set("lang", track.LanguageCode)
		captionURL = fmt.Sprintf("%s?%s", cc.baseURL, params.Encode())
	}
	if !strings.Contains(captionURL, "fmt=") {
		sep := "?"
		if strings.Contains(captionURL, "?") {
			sep = "&"
		}
		captionURL += sep + "fmt=json3"
	}

	resp, err := cc.httpClient.Get(ctx, captionURL)
	if err != nil {
		return nil, fmt.Errorf("fetch captions for %s: %w", videoID, err)
	}

	segments, err := parseJSON3(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse captions for %s: %w", videoID, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s has no timed text for %q", ErrNoCaptions, videoID, track.LanguageCode)
	}
	return segments, nil
}

// PreferTrack picks one track from the available list: an exact "en" track,
// else the first track whose language code starts with "en", else the first
// track in list order.
func PreferTrack(tracks []provider.CaptionTrack) (provider.CaptionTrack, bool) {
	if len(tracks) == 0 {
		return provider.CaptionTrack{}, false
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t, true
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return tracks[0], true
}

// json3Response is the timedtext JSON3 payload shape.
type json3Response struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	TStartMs    int64      `json:"tStartMs"`
	DDurationMs int64      `json:"dDurationMs"`
	Segs        []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// parseJSON3 converts timedtext events to transcript segments. Events
// without text segments (styling windows, music cues) are skipped.
func parseJSON3(data []byte) ([]provider.TranscriptSegment, error) {
	var resp json3Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal timedtext JSON: %w", err)
	}

	var segments []provider.TranscriptSegment
	for _, event := range resp.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		start := float64(event.TStartMs) / 1000.0
		segments = append(segments, provider.TranscriptSegment{
			Start: start,
			End:   start + float64(event.DDurationMs)/1000.0,
			Text:  strings.TrimSpace(text.String()),
		})
	}
	return provider.SanitizeSegments(segments), nil
}
