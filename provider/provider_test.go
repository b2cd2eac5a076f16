package provider

import (
	"errors"
	"testing"
)

func TestOutcomeConstructors(t *testing.T) {
	if o := Success(); o.Kind != OutcomeSuccess || o.Err != nil || o.Reason != "" {
		t.Errorf("Success() = %+v", o)
	}

	o := Unavailable("no credential")
	if o.Kind != OutcomeUnavailable || o.Reason != "no credential" {
		t.Errorf("Unavailable() = %+v", o)
	}

	err := errors.New("boom")
	o = Failure(err)
	if o.Kind != OutcomeFailure || o.Err != err {
		t.Errorf("Failure() = %+v", o)
	}
}

func TestSanitizeSegments(t *testing.T) {
	in := []TranscriptSegment{
		{Start: -1.5, End: 2, Text: "clamped start"},
		{Start: 3, End: 2, Text: "clamped end"},
		{Start: 4, End: 5, Text: "   "},
		{Start: 5, End: 6, Text: "kept"},
	}

	out := SanitizeSegments(in)
	if len(out) != 3 {
		t.Fatalf("got %d segments, want 3 (blank dropped)", len(out))
	}
	if out[0].Start != 0 {
		t.Errorf("negative start not clamped: %v", out[0].Start)
	}
	if out[1].End < out[1].Start {
		t.Errorf("end %v still before start %v", out[1].End, out[1].Start)
	}
	if out[2].Text != "kept" {
		t.Errorf("order not preserved: %+v", out)
	}
}

func TestSanitizeSegmentsEmpty(t *testing.T) {
	if out := SanitizeSegments(nil); len(out) != 0 {
		t.Errorf("SanitizeSegments(nil) = %+v", out)
	}
}
