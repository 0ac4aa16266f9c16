// Package captions fetches raw timed caption fragments for YouTube videos.
// It only produces raw segments; normalization into the canonical transcript
// lives in the transcript package.
package captions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoCaptions is returned when a video exposes no caption track the
// pipeline can use.
var ErrNoCaptions = errors.New("no captions available for video")

// ErrInvalidURL is returned for URLs that are not YouTube watch links.
var ErrInvalidURL = errors.New("invalid YouTube video URL")

// Source supplies raw caption fragments and metadata for a video.
type Source interface {
	Fetch(ctx context.Context, videoID string) ([]RawSegment, error)
	Title(ctx context.Context, videoURL string) (string, error)
}

// RawSegment is a single caption fragment before normalization. Two wire
// shapes occur: the legacy scraper emits seconds-based {offset, duration,
// text}, while the innertube transcript API emits millisecond-based
// {start_ms, end_ms, snippet.text}. A segment carries one shape or the
// other, never both.
type RawSegment struct {
	Offset   float64 `json:"offset,omitempty"`
	Duration float64 `json:"duration,omitempty"`
	Text     string  `json:"text,omitempty"`

	StartMs Millis   `json:"start_ms,omitempty"`
	EndMs   Millis   `json:"end_ms,omitempty"`
	Snippet *Snippet `json:"snippet,omitempty"`
}

// Snippet wraps the text of a millisecond-shaped fragment.
type Snippet struct {
	Text string `json:"text"`
}

// IsMilliShape reports whether the segment uses the millisecond wire shape.
func (s RawSegment) IsMilliShape() bool {
	return s.Snippet != nil || s.StartMs != 0 || s.EndMs != 0
}

// Millis is a millisecond timestamp that tolerates both string and numeric
// JSON encodings; the innertube API is inconsistent about which it sends.
type Millis int64

func (m *Millis) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse millisecond timestamp %q: %w", s, err)
	}
	*m = Millis(f)
	return nil
}

func (m Millis) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(m), 10)), nil
}

// Seconds converts the timestamp to whole seconds, flooring.
func (m Millis) Seconds() int {
	if m < 0 {
		// floor, not truncation toward zero
		return int((m - 999) / 1000)
	}
	return int(m / 1000)
}
