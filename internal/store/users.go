package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"donsflow/api-gateway/models"
)

const usersTable = "users"

// UserStore reads and writes the users table.
type UserStore struct {
	db *supa.Client
}

// NewUserStore wraps a Supabase client.
func NewUserStore(db *supa.Client) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	body, _, err := s.db.From(usersTable).
		Select("*", "", false).
		Eq("email", email).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("unmarshal user rows: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return &users[0], nil
}

// Create inserts a new user with no video associations yet.
func (s *UserStore) Create(ctx context.Context, email string) (*models.User, error) {
	now := time.Now()
	record := map[string]interface{}{
		"id":          uuid.New(),
		"email":       email,
		"user_videos": []models.UserVideo{},
		"created_at":  now,
		"updated_at":  now,
	}

	body, _, err := s.db.From(usersTable).
		Insert(record, false, "", "representation", "").
		Execute()
	if err != nil {
		// Lost a race with another sign-in for the same address: the
		// email column is unique, so re-read the existing row.
		if isUniqueViolation(err) {
			return s.FindByEmail(ctx, email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	var users []models.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("unmarshal created user: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no row returned after user insert")
	}
	return &users[0], nil
}

// SaveVideos replaces the user's video associations (including notes and
// flashcards) with the given document.
func (s *UserStore) SaveVideos(ctx context.Context, userID uuid.UUID, videos []models.UserVideo) error {
	updates := map[string]interface{}{
		"user_videos": videos,
		"updated_at":  time.Now(),
	}

	_, count, err := s.db.From(usersTable).
		Update(updates, "", "exact").
		Eq("id", userID.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("update user videos: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
