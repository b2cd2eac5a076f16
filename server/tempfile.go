package server

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// tempAudio is the per-request temporary audio file. Names are unique per
// request (video ID plus a UUID), so no cross-request locking is needed.
// Remove is best-effort and must be deferred on every acquisition: cleanup
// runs on every exit path, success or not, and never masks the primary
// result.
type tempAudio struct {
	path string
}

// newTempAudio reserves a unique path under dir for the request's audio.
func newTempAudio(dir, videoID string) *tempAudio {
	name := fmt.Sprintf("ytbridge-%s-%s.m4a", videoID, uuid.NewString())
	return &tempAudio{path: filepath.Join(dir, name)}
}

// write copies the audio stream to the temp file.
func (t *tempAudio) write(r io.Reader) error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("create temp audio file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write temp audio file: %w", err)
	}
	return nil
}

// Remove deletes the temp file. Failures are logged, never propagated.
func (t *tempAudio) Remove() {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		log.Printf("server: remove temp audio %s: %v", t.path, err)
	}
}
