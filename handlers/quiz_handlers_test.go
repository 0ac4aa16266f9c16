package handlers

import (
	"testing"

	"github.com/google/uuid"

	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/models"
)

func quizFixture() (*ApplicationHandler, *fakeAI, *models.User, *models.Video) {
	video := &models.Video{
		ID:    uuid.New(),
		URL:   "https://youtu.be/dQw4w9WgXcQ",
		Title: "Lecture",
		Transcript: []transcript.Item{
			{ID: 0, Start: 0, End: 200, Text: "part one"},
			{ID: 1, Start: 200, End: 400, Text: "part two"},
			{ID: 2, Start: 700, End: 900, Text: "outside"},
		},
	}
	videos := &fakeVideos{byID: map[uuid.UUID]*models.Video{video.ID: video}}
	ai := &fakeAI{
		quiz: []models.QuizQuestion{{
			Question:    "What is covered first?",
			Options:     []string{"part one", "part two"},
			Answer:      "part one",
			Explanation: "The opening segment covers part one.",
		}},
	}
	user := &models.User{
		ID:    uuid.New(),
		Email: "dev@example.com",
		UserVideos: []models.UserVideo{
			{VideoID: video.ID, Notes: []models.Note{}, Flashcards: []models.Flashcard{}},
		},
	}
	h := NewApplicationHandler(ai, &fakeCaptions{}, &fakeAuth{}, videos, &fakeUsers{}, quietLogger(), "test-key", false)
	return h, ai, user, video
}

func TestCreateQuizMultiple(t *testing.T) {
	h, ai, user, video := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz", map[string]interface{}{
		"start": 0,
		"end":   400,
		"type":  "multiple",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ai.quizType != "multiple" {
		t.Errorf("quiz type passed to model = %q, want %q", ai.quizType, "multiple")
	}

	var body struct {
		Data struct {
			Type string                `json:"type"`
			Quiz []models.QuizQuestion `json:"quiz"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	if body.Data.Type != "multiple" {
		t.Errorf("type = %q, want %q", body.Data.Type, "multiple")
	}
	if len(body.Data.Quiz) != 1 {
		t.Fatalf("quiz length = %d, want 1", len(body.Data.Quiz))
	}
}

func TestCreateQuizWindowTooShort(t *testing.T) {
	h, _, user, video := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz", map[string]interface{}{
		"start": 0,
		"end":   299,
		"type":  "multiple",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, resp, &body)
	if body.Message != "Segment must be at least 5 minutes long" {
		t.Errorf("message = %q", body.Message)
	}
}

func TestCreateQuizZeroStartAccepted(t *testing.T) {
	h, _, user, video := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz", map[string]interface{}{
		"start": 0,
		"end":   300,
		"type":  "open",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestCreateQuizRejectsUnknownType(t *testing.T) {
	h, _, user, video := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz", map[string]interface{}{
		"start": 0,
		"end":   400,
		"type":  "essay",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCreateQuizUnknownVideo(t *testing.T) {
	h, _, user, _ := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+uuid.New().String()+"/quiz", map[string]interface{}{
		"start": 0,
		"end":   400,
		"type":  "multiple",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestValidateAnswer(t *testing.T) {
	h, ai, user, video := quizFixture()
	ai.check = models.AnswerCheck{Correct: true, Explanation: "Matches the reference answer."}
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz/validate", map[string]string{
		"question":   "What is covered first?",
		"answer":     "part one",
		"userAnswer": "part one",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Data models.AnswerCheck `json:"data"`
	}
	decodeBody(t, resp, &body)
	if !body.Data.Correct {
		t.Errorf("correct = false, want true")
	}
	if body.Data.Explanation == "" {
		t.Errorf("explanation is empty")
	}
}

func TestValidateAnswerMissingFields(t *testing.T) {
	h, _, user, video := quizFixture()
	app := newTestApp(h, user)

	req := jsonRequest(t, "POST", "/api/video/"+video.ID.String()+"/quiz/validate", map[string]string{
		"question": "What is covered first?",
	})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
