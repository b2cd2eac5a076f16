package server

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"ytbridge/config"
	"ytbridge/provider"
)

// fakeExtractor is a scriptable primary extraction provider.
type fakeExtractor struct {
	probe      bool
	details    *provider.VideoDetails
	resolveErr error
	streamBody string
	streamErr  error

	resolveCalls int
	streamCalls  int
}

func (f *fakeExtractor) Probe() bool { return f.probe }

func (f *fakeExtractor) Resolve(ctx context.Context, videoID string) (*provider.VideoDetails, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.details, nil
}

func (f *fakeExtractor) Stream(ctx context.Context, videoID string, variant provider.MediaVariant) (io.ReadCloser, int64, error) {
	f.streamCalls++
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	return io.NopCloser(strings.NewReader(f.streamBody)), int64(len(f.streamBody)), nil
}

// fakeTranscriber records the audio path it was handed and whether the file
// existed at call time.
type fakeTranscriber struct {
	probe      bool
	transcript *provider.Transcript
	err        error

	calls       int
	sawPath     string
	pathExisted bool
}

func (f *fakeTranscriber) Probe() bool { return f.probe }

func (f *fakeTranscriber) Transcribe(ctx context.Context, path string, language string) (*provider.Transcript, error) {
	f.calls++
	f.sawPath = path
	if _, err := os.Stat(path); err == nil {
		f.pathExisted = true
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.transcript, nil
}

type fakeCaptions struct {
	tracks    []provider.CaptionTrack
	tracksErr error
	segments  []provider.TranscriptSegment
	fetchErr  error

	trackCalls int
	fetchCalls int
	fetched    provider.CaptionTrack
}

func (f *fakeCaptions) Tracks(ctx context.Context, videoID string) ([]provider.CaptionTrack, error) {
	f.trackCalls++
	return f.tracks, f.tracksErr
}

func (f *fakeCaptions) Fetch(ctx context.Context, videoID string, track provider.CaptionTrack) ([]provider.TranscriptSegment, error) {
	f.fetchCalls++
	f.fetched = track
	return f.segments, f.fetchErr
}

type fakeLookup struct {
	details *provider.VideoDetails
	err     error
	calls   int
}

func (f *fakeLookup) Lookup(ctx context.Context, videoURL string) (*provider.VideoDetails, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

// testDetails is a resolved video with muxed, video-only and audio-only
// variants.
func testDetails() *provider.VideoDetails {
	return &provider.VideoDetails{
		ID:       "abc123xyz",
		Title:    "Test Video",
		Channel:  "Test Channel",
		Duration: 120 * time.Second,
		Views:    4200,
		Variants: []provider.MediaVariant{
			{Itag: 22, Container: "mp4", QualityLabel: "720p", HasVideo: true, HasAudio: true, Bitrate: 1_500_000, Size: 1024},
			{Itag: 137, Container: "mp4", QualityLabel: "1080p", HasVideo: true, Bitrate: 4_000_000},
			{Itag: 140, Container: "m4a", HasAudio: true, Bitrate: 128_000, Size: 512},
		},
	}
}

func testConfig(tempDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.FallbackToolURL = "https://tool.example"
	if tempDir != "" {
		cfg.TempDir = tempDir
	}
	return cfg
}
