package ytbridge

import (
	"ytbridge/youtube"
)

// Sentinel errors re-exported from sub-packages for library users.
var (
	// ErrInvalidURL indicates the input is not a recognized YouTube URL.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrIDExtraction indicates a URL passed validation but no identifier
	// could be extracted.
	ErrIDExtraction = youtube.ErrIDExtraction
	// ErrNoSuitableFormat indicates no variant satisfied the request.
	ErrNoSuitableFormat = youtube.ErrNoSuitableFormat
	// ErrNoCaptions indicates the video has no usable caption tracks.
	ErrNoCaptions = youtube.ErrNoCaptions
	// ErrTooLong indicates the video exceeds the transcription ceiling.
	ErrTooLong = youtube.ErrTooLong
)
