package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account created on first magic-link sign-in. UserVideos is a
// JSONB column holding the user's per-video notes and flashcards.
type User struct {
	ID         uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	UserVideos []UserVideo `json:"user_videos"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// UserVideo associates a user with a processed video and owns the notes and
// flashcards the user took against it.
type UserVideo struct {
	VideoID    uuid.UUID   `json:"video_id"`
	Notes      []Note      `json:"notes"`
	Flashcards []Flashcard `json:"flashcards"`
}

// Note is a timestamped annotation; Moment references a second offset in
// the video's canonical transcript.
type Note struct {
	ID     uuid.UUID `json:"id"`
	Moment int       `json:"moment"`
	Text   string    `json:"text"`
}

// Flashcard is a front/back study card owned by a user-video association.
type Flashcard struct {
	ID    uuid.UUID `json:"id"`
	Front string    `json:"front"`
	Back  string    `json:"back"`
}

// FindVideo returns the user's association for a video, or nil.
func (u *User) FindVideo(videoID uuid.UUID) *UserVideo {
	for i := range u.UserVideos {
		if u.UserVideos[i].VideoID == videoID {
			return &u.UserVideos[i]
		}
	}
	return nil
}
