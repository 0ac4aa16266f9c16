package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"donsflow/api-gateway/models"
)

const videosTable = "videos"

// VideoStore reads and writes the videos table.
type VideoStore struct {
	db *supa.Client
}

// NewVideoStore wraps a Supabase client.
func NewVideoStore(db *supa.Client) *VideoStore {
	return &VideoStore{db: db}
}

// GetByURL returns the video with the given URL, or ErrNotFound.
func (s *VideoStore) GetByURL(ctx context.Context, url string) (*models.Video, error) {
	body, _, err := s.db.From(videosTable).
		Select("*", "", false).
		Eq("url", url).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query video by url: %w", err)
	}
	return unmarshalOne(body)
}

// GetByID returns the video with the given id, or ErrNotFound.
func (s *VideoStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	body, _, err := s.db.From(videosTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query video by id: %w", err)
	}
	return unmarshalOne(body)
}

// ListByIDs returns lightweight summaries for the given video ids, newest
// first. Unknown ids are simply absent from the result.
func (s *VideoStore) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.VideoSummary, error) {
	if len(ids) == 0 {
		return []models.VideoSummary{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	body, _, err := s.db.From(videosTable).
		Select("id, url, title, created_at", "", false).
		In("id", idStrings).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	var summaries []models.VideoSummary
	if err := json.Unmarshal(body, &summaries); err != nil {
		return nil, fmt.Errorf("unmarshal video summaries: %w", err)
	}
	return summaries, nil
}

// Create inserts a new video. A URL collision, including one lost to a
// concurrent request, surfaces as ErrDuplicateURL so the caller can re-read
// the winning row.
func (s *VideoStore) Create(ctx context.Context, video models.Video) (*models.Video, error) {
	now := time.Now()
	record := map[string]interface{}{
		"id":            video.ID,
		"url":           video.URL,
		"title":         video.Title,
		"transcript":    video.Transcript,
		"content_table": video.ContentTable,
		"created_at":    now,
		"updated_at":    now,
	}

	body, _, err := s.db.From(videosTable).
		Insert(record, false, "", "representation", "").
		Execute()
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateURL, video.URL)
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return unmarshalOne(body)
}

func unmarshalOne(body []byte) (*models.Video, error) {
	var videos []models.Video
	if err := json.Unmarshal(body, &videos); err != nil {
		return nil, fmt.Errorf("unmarshal video rows: %w", err)
	}
	if len(videos) == 0 {
		return nil, ErrNotFound
	}
	return &videos[0], nil
}
