package models

import (
	"time"

	"github.com/google/uuid"

	"donsflow/api-gateway/internal/transcript"
)

// Video is a processed YouTube video as stored in the database. URL is
// unique; the transcript and content table are JSONB columns and are
// immutable after creation.
type Video struct {
	ID           uuid.UUID            `json:"id"`
	URL          string               `json:"url"`
	Title        string               `json:"title"`
	Transcript   []transcript.Item    `json:"transcript"`
	ContentTable []transcript.Chapter `json:"content_table"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// VideoSummary is the listing projection of a video, without the heavy
// JSONB columns.
type VideoSummary struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}
