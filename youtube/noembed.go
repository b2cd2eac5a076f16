package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"ytbridge/httpclient"
	"ytbridge/provider"
)

// NoembedClient is the lightweight lookup tier used when the primary
// extractor is unavailable. It returns title, author and thumbnail only,
// with an empty variant list. Implements provider.Lookup.
type NoembedClient struct {
	httpClient *httpclient.Client
	baseURL    string
}

// NewNoembedClient creates a noembed lookup client.
func NewNoembedClient(hc *httpclient.Client) *NoembedClient {
	if hc == nil {
		hc = httpclient.New(nil)
	}
	return &NoembedClient{
		httpClient: hc,
		baseURL:    "https://noembed.com/embed",
	}
}

// noembedResponse is the subset of the noembed payload we consume.
type noembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Error        string `json:"error"`
}

// Lookup fetches basic metadata for a video URL.
func (nc *NoembedClient) Lookup(ctx context.Context, videoURL string) (*provider.VideoDetails, error) {
	params := url.Values{}
	params.Set("url", videoURL)

	resp, err := nc.httpClient.Get(ctx, fmt.Sprintf("%s?%s", nc.baseURL, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("noembed lookup: %w", err)
	}

	var payload noembedResponse
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("parse noembed response: %w", err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("noembed lookup: %s", payload.Error)
	}

	return &provider.VideoDetails{
		Title:     payload.Title,
		Channel:   payload.AuthorName,
		Thumbnail: payload.ThumbnailURL,
	}, nil
}
