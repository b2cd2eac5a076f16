package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"ytbridge/provider"
)

// DataAPITrackLister discovers caption tracks through the YouTube Data API
// v3. It is an optional tier: it activates only when an API key is
// configured, and marks itself unavailable for the rest of the process once
// the daily quota is exhausted so the caption client falls back to a direct
// timedtext probe.
type DataAPITrackLister struct {
	service *ytapi.Service

	mu        sync.Mutex
	exhausted bool
}

// NewDataAPITrackLister creates a Data API track lister.
func NewDataAPITrackLister(apiKey string) (*DataAPITrackLister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	service, err := ytapi.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	return &DataAPITrackLister{service: service}, nil
}

// Available reports whether the lister can serve requests.
func (l *DataAPITrackLister) Available() bool {
	if l == nil || l.service == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.exhausted
}

// ListTracks lists caption tracks for a video. Captions listed here carry no
// BaseURL: the content itself is still fetched from the timedtext endpoint
// by language code.
func (l *DataAPITrackLister) ListTracks(ctx context.Context, videoID string) ([]provider.CaptionTrack, error) {
	resp, err := l.service.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		if isQuotaError(err) {
			l.mu.Lock()
			l.exhausted = true
			l.mu.Unlock()
			log.Printf("youtube: Data API quota exhausted, disabling track listing")
		}
		return nil, fmt.Errorf("list caption tracks for %s: %w", videoID, err)
	}

	tracks := make([]provider.CaptionTrack, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		tracks = append(tracks, provider.CaptionTrack{
			LanguageCode:  item.Snippet.Language,
			Name:          item.Snippet.Name,
			AutoGenerated: item.Snippet.TrackKind == "asr" || item.Snippet.TrackKind == "ASR",
		})
	}
	return tracks, nil
}

// isQuotaError detects the Data API's quota-exhaustion responses.
func isQuotaError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code != 403 {
		return false
	}
	for _, e := range apiErr.Errors {
		if e.Reason == "quotaExceeded" || e.Reason == "dailyLimitExceeded" {
			return true
		}
	}
	return false
}
