package youtube

import (
	"errors"
	"testing"
	"time"
)

func TestParseVideoURLAccepted(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch no scheme", "youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch extra params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://youtube.com/shorts/abc123xyz", "abc123xyz"},
		{"embed", "https://www.youtube.com/embed/abc123xyz", "abc123xyz"},
		{"short link", "https://youtu.be/abc123xyz", "abc123xyz"},
		{"mobile", "https://m.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"id with dash and underscore", "https://youtu.be/a-b_c12", "a-b_c12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseVideoURL(tt.url)
			if err != nil {
				t.Fatalf("ParseVideoURL(%q) failed: %v", tt.url, err)
			}
			if ref.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", ref.ID, tt.wantID)
			}
			if len(ref.ID) < 6 {
				t.Errorf("extracted ID %q shorter than 6 characters", ref.ID)
			}
			if ref.URL != "https://www.youtube.com/watch?v="+tt.wantID {
				t.Errorf("canonical URL = %q", ref.URL)
			}
		})
	}
}

func TestParseVideoURLRejected(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"plain text", "not a url"},
		{"other host", "https://vimeo.com/watch?v=abc123xyz"},
		{"channel url", "https://www.youtube.com/channel/UCabc123"},
		{"id too short", "https://youtu.be/abc12"},
		{"missing id", "https://www.youtube.com/watch?v="},
		{"lookalike host", "https://notyoutube.com/watch?v=abc123xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVideoURL(tt.url)
			if !errors.Is(err, ErrInvalidURL) {
				t.Errorf("ParseVideoURL(%q) = %v, want ErrInvalidURL", tt.url, err)
			}
		})
	}
}

// Validation and extraction share one pattern, so any accepted URL must
// yield an identifier.
func TestParseVideoURLNeverAcceptsWithoutID(t *testing.T) {
	urls := []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/abc123xyz",
		"https://www.youtube.com/embed/abc123xyz",
		"https://youtube.com/shorts/abc123xyz",
	}
	for _, u := range urls {
		ref, err := ParseVideoURL(u)
		if err != nil {
			t.Fatalf("ParseVideoURL(%q) failed: %v", u, err)
		}
		if ref.ID == "" {
			t.Errorf("ParseVideoURL(%q) accepted but extracted empty ID", u)
		}
	}
}

func TestCheckDuration(t *testing.T) {
	if err := CheckDuration(1800*time.Second, 1800*time.Second); err != nil {
		t.Errorf("exactly at the limit should pass: %v", err)
	}
	if err := CheckDuration(1801*time.Second, 1800*time.Second); !errors.Is(err, ErrTooLong) {
		t.Errorf("err = %v, want ErrTooLong", err)
	}
	if err := CheckDuration(10*time.Hour, 0); err != nil {
		t.Errorf("zero ceiling should disable the check: %v", err)
	}
}

func TestDefaultThumbnail(t *testing.T) {
	got := DefaultThumbnail("abc123xyz")
	want := "https://img.youtube.com/vi/abc123xyz/hqdefault.jpg"
	if got != want {
		t.Errorf("DefaultThumbnail = %q, want %q", got, want)
	}
}
