package transcript

import (
	"errors"
	"fmt"
)

// ErrChapterRange is returned when a model-produced chapter references
// transcript ids outside the transcript's bounds. Ranges are never clamped;
// a broken range fails the whole mapping.
var ErrChapterRange = errors.New("chapter range outside transcript bounds")

// ChapterDescriptor is the model's raw output unit: a chapter identified by
// title, summary, and an inclusive transcript id range.
type ChapterDescriptor struct {
	Chapter           string `json:"chapter"`
	Summary           string `json:"summary"`
	TranscriptStartID int    `json:"transcript_start_id"`
	TranscriptEndID   int    `json:"transcript_end_id"`
}

// Chapter is a resolved entry of a video's content table, holding the
// literal transcript slice it covers.
type Chapter struct {
	Chapter    string `json:"chapter"`
	Summary    string `json:"summary"`
	Transcript []Item `json:"transcript"`
}

// MapChapters resolves each descriptor's id range into the concrete
// transcript slice, preserving the model's chapter order. The end id is
// inclusive. Out-of-range or inverted ranges return ErrChapterRange.
func MapChapters(items []Item, descriptors []ChapterDescriptor) ([]Chapter, error) {
	chapters := make([]Chapter, 0, len(descriptors))
	for _, d := range descriptors {
		if d.TranscriptStartID < 0 || d.TranscriptEndID >= len(items) || d.TranscriptStartID > d.TranscriptEndID {
			return nil, fmt.Errorf("%w: chapter %q has range [%d, %d] over %d items",
				ErrChapterRange, d.Chapter, d.TranscriptStartID, d.TranscriptEndID, len(items))
		}
		slice := make([]Item, d.TranscriptEndID-d.TranscriptStartID+1)
		copy(slice, items[d.TranscriptStartID:d.TranscriptEndID+1])
		chapters = append(chapters, Chapter{
			Chapter:    d.Chapter,
			Summary:    d.Summary,
			Transcript: slice,
		})
	}
	return chapters, nil
}
