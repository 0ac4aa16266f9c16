// Package store persists videos and users in Supabase. The transcript and
// content table live as JSONB columns on the video row; a user's notes and
// flashcards live as a JSONB column on the user row, mirroring the
// document-per-owner shape the API works with.
package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a queried record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateURL is returned when inserting a video whose URL is already
// taken. The videos table has a unique constraint on url, so two requests
// racing to process the same new URL converge on one row.
var ErrDuplicateURL = errors.New("video url already exists")

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key")
}
