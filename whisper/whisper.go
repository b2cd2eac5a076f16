// Package whisper implements the speech-transcription provider backed by
// the OpenAI audio transcription API.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"ytbridge/provider"
)

const defaultBaseURL = "https://api.openai.com/v1/audio/transcriptions"

// Client transcribes audio files through the OpenAI API. The credential
// gates the whole capability: an empty key means Probe reports false and the
// orchestrator uses the caption tier instead.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// New creates a transcription client. model defaults to "whisper-1".
func New(apiKey, model string) *Client {
	if model == "" {
		model = "whisper-1"
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		// Transcription of long audio is slow; the request timeout is
		// deliberately generous and cancellation rides on the context.
		httpClient: &http.Client{Timeout: 15 * time.Minute},
	}
}

// Probe reports whether the transcription credential is configured.
func (c *Client) Probe() bool {
	return c != nil && c.apiKey != ""
}

// verboseResponse is the verbose_json transcription payload.
type verboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe uploads the audio file at path and returns timed segments.
// language is passed through as a hint; empty means provider auto-detection.
func (c *Client) Transcribe(ctx context.Context, path string, language string) (*provider.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.model); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
	}

	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription API status %d: %s", resp.StatusCode, string(b))
	}

	var vr verboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode transcription response: %w", err)
	}

	segments := make([]provider.TranscriptSegment, 0, len(vr.Segments))
	for _, s := range vr.Segments {
		segments = append(segments, provider.TranscriptSegment{
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}
	segments = provider.SanitizeSegments(segments)

	// Some responses omit segment timings; degrade to a single span so the
	// transcript text is never lost.
	if len(segments) == 0 && vr.Text != "" {
		segments = []provider.TranscriptSegment{{Start: 0, End: vr.Duration, Text: vr.Text}}
	}

	return &provider.Transcript{
		Segments: segments,
		Language: vr.Language,
		Duration: vr.Duration,
	}, nil
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}
