package transcript

import (
	"errors"
	"reflect"
	"testing"
)

func tenItems() []Item {
	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{ID: i, Start: i * 10, End: i*10 + 9, Text: "seg"}
	}
	return items
}

func TestMapChaptersInclusiveSlice(t *testing.T) {
	items := tenItems()
	descriptors := []ChapterDescriptor{
		{Chapter: "Intro", Summary: "opening", TranscriptStartID: 2, TranscriptEndID: 4},
	}

	chapters, err := MapChapters(items, descriptors)
	if err != nil {
		t.Fatalf("MapChapters() error: %v", err)
	}
	if len(chapters) != 1 {
		t.Fatalf("got %d chapters, want 1", len(chapters))
	}
	if !reflect.DeepEqual(chapters[0].Transcript, items[2:5]) {
		t.Fatalf("chapter transcript = %+v, want items 2..4 inclusive", chapters[0].Transcript)
	}
}

func TestMapChaptersPreservesOrder(t *testing.T) {
	items := tenItems()
	descriptors := []ChapterDescriptor{
		{Chapter: "Second half", TranscriptStartID: 5, TranscriptEndID: 9},
		{Chapter: "First half", TranscriptStartID: 0, TranscriptEndID: 4},
	}

	chapters, err := MapChapters(items, descriptors)
	if err != nil {
		t.Fatalf("MapChapters() error: %v", err)
	}
	if chapters[0].Chapter != "Second half" || chapters[1].Chapter != "First half" {
		t.Fatalf("chapter order changed: %+v", chapters)
	}
}

func TestMapChaptersRangeErrors(t *testing.T) {
	items := tenItems()
	tests := map[string]ChapterDescriptor{
		"negative start": {Chapter: "x", TranscriptStartID: -1, TranscriptEndID: 3},
		"end past bound": {Chapter: "x", TranscriptStartID: 0, TranscriptEndID: 10},
		"inverted range": {Chapter: "x", TranscriptStartID: 5, TranscriptEndID: 2},
	}

	for name, desc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := MapChapters(items, []ChapterDescriptor{desc})
			if !errors.Is(err, ErrChapterRange) {
				t.Fatalf("want ErrChapterRange, got %v", err)
			}
		})
	}
}

func TestMapChaptersSliceIsCopy(t *testing.T) {
	items := tenItems()
	chapters, err := MapChapters(items, []ChapterDescriptor{
		{Chapter: "c", TranscriptStartID: 0, TranscriptEndID: 1},
	})
	if err != nil {
		t.Fatalf("MapChapters() error: %v", err)
	}

	chapters[0].Transcript[0].Text = "mutated"
	if items[0].Text == "mutated" {
		t.Fatal("chapter slice aliases the transcript backing array")
	}
}

func TestMapChaptersEmptyDescriptors(t *testing.T) {
	chapters, err := MapChapters(tenItems(), nil)
	if err != nil {
		t.Fatalf("MapChapters() error: %v", err)
	}
	if len(chapters) != 0 {
		t.Fatalf("got %d chapters, want 0", len(chapters))
	}
}
