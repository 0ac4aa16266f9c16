// Package transcript holds the pure transformations between raw caption
// fragments, the canonical time-coded transcript, and the chapter table
// built from model output. Everything here is deterministic and free of
// I/O so handlers can be tested against it directly.
package transcript

import (
	"math"

	"donsflow/api-gateway/internal/captions"
)

// Item is one entry of a video's canonical transcript. Start and End are
// whole seconds (floored); ID is the zero-based position in the canonical
// transcript array and is stable once persisted — chapter ranges reference
// it as a foreign key.
type Item struct {
	ID    int    `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Normalize converts raw caption fragments into canonical transcript items.
// Both raw shapes are supported: seconds-based {offset, duration, text} and
// millisecond-based {start_ms, end_ms, snippet.text}. Timestamps are
// floored to whole seconds. Input order is preserved and assumed
// time-ordered; IDs are assigned positionally.
func Normalize(raw []captions.RawSegment) []Item {
	items := make([]Item, 0, len(raw))
	for i, seg := range raw {
		item := Item{ID: i}
		if seg.IsMilliShape() {
			item.Start = seg.StartMs.Seconds()
			item.End = seg.EndMs.Seconds()
			if seg.Snippet != nil {
				item.Text = seg.Snippet.Text
			}
		} else {
			item.Start = int(math.Floor(seg.Offset))
			item.End = int(math.Floor(seg.Offset + seg.Duration))
			item.Text = seg.Text
		}
		items = append(items, item)
	}
	return items
}

// Merge collapses temporally overlapping items into single items,
// concatenating their text with a single space and extending the end time.
// The overlap test is strict: segments that merely touch (next.Start ==
// prev.End) stay separate. IDs are reassigned positionally so the result is
// again a canonical transcript.
func Merge(items []Item) []Item {
	if len(items) == 0 {
		return []Item{}
	}

	merged := make([]Item, 1, len(items))
	merged[0] = items[0]

	for _, cur := range items[1:] {
		last := &merged[len(merged)-1]
		if cur.Start < last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			last.Text = last.Text + " " + cur.Text
		} else {
			merged = append(merged, cur)
		}
	}

	for i := range merged {
		merged[i].ID = i
	}
	return merged
}

// SelectSegment returns every item overlapping the [start, end] window,
// inclusive on both boundaries.
func SelectSegment(items []Item, start, end int) []Item {
	selected := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Start <= end && item.End >= start {
			selected = append(selected, item)
		}
	}
	return selected
}
