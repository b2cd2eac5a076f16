// Package ytbridge provides a thin HTTP bridge over YouTube content:
// a metadata/download operation and a transcription operation, both backed
// by external capability providers with graceful fallback between them.
//
// Overview
//
// The service exposes two endpoints, each with two modes:
//
//   - POST /download: normalized metadata and format list for a video
//   - GET /download: stream one selected variant as an attachment
//   - POST /transcribe: timed transcript via Whisper or YouTube captions
//   - GET /transcribe: describe the transcription modes and their status
//
// Each operation is a fallback chain. Metadata prefers full extraction and
// degrades to a lightweight lookup (title/author/thumbnail only) when the
// extraction capability is absent. Transcription prefers the credentialed
// Whisper path and degrades to the video's own caption track; the streaming
// download redirects to a third-party tool rather than dead-ending.
//
// Configuration
//
// Settings load from defaults, an optional .env file, an optional
// ytbridge.json, and YTBRIDGE_* environment variables, in increasing
// priority. The single credential of note is OPENAI_API_KEY: without it the
// transcription operation still works, sourced from captions.
//
// Error Handling
//
// Sentinel errors support the standard patterns:
//
//	if errors.Is(err, ytbridge.ErrInvalidURL) {
//		// reject the input
//	}
//
// Sub-packages:
//
//   - server: HTTP handlers and fallback orchestration
//   - provider: capability-provider contracts and outcome tagging
//   - youtube: URL validation, format selection, captions, lookups
//   - whisper: OpenAI transcription client
//   - httpclient: resilient outbound HTTP (retry, rate limit, breaker)
//   - config: configuration management
package ytbridge
