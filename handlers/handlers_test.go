package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"donsflow/api-gateway/internal/captions"
	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/models"
)

type fakeAI struct {
	chapters    []transcript.ChapterDescriptor
	chaptersErr error

	quiz     []models.QuizQuestion
	quizType string
	quizErr  error

	check    models.AnswerCheck
	checkErr error
}

func (f *fakeAI) GenerateChapters(_ context.Context, _ []transcript.Item) ([]transcript.ChapterDescriptor, error) {
	return f.chapters, f.chaptersErr
}

func (f *fakeAI) GenerateQuiz(_ context.Context, _ []transcript.Item, quizType string) ([]models.QuizQuestion, error) {
	f.quizType = quizType
	return f.quiz, f.quizErr
}

func (f *fakeAI) CheckAnswer(_ context.Context, _, _, _ string) (models.AnswerCheck, error) {
	return f.check, f.checkErr
}

type fakeCaptions struct {
	raw      []captions.RawSegment
	fetchErr error
	title    string
	titleErr error
}

func (f *fakeCaptions) Fetch(_ context.Context, _ string) ([]captions.RawSegment, error) {
	return f.raw, f.fetchErr
}

func (f *fakeCaptions) Title(_ context.Context, _ string) (string, error) {
	return f.title, f.titleErr
}

type fakeVideos struct {
	byURL map[string]*models.Video
	byID  map[uuid.UUID]*models.Video

	created   []models.Video
	createErr error
}

func (f *fakeVideos) GetByURL(_ context.Context, url string) (*models.Video, error) {
	if v, ok := f.byURL[url]; ok {
		return v, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeVideos) GetByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeVideos) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.VideoSummary, error) {
	var out []models.VideoSummary
	for _, id := range ids {
		if v, ok := f.byID[id]; ok {
			out = append(out, models.VideoSummary{ID: v.ID, URL: v.URL, Title: v.Title})
		}
	}
	return out, nil
}

func (f *fakeVideos) Create(_ context.Context, video models.Video) (*models.Video, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, video)
	if f.byURL == nil {
		f.byURL = map[string]*models.Video{}
	}
	if f.byID == nil {
		f.byID = map[uuid.UUID]*models.Video{}
	}
	f.byURL[video.URL] = &video
	f.byID[video.ID] = &video
	return &video, nil
}

type fakeUsers struct {
	byEmail map[string]*models.User

	saved     [][]models.UserVideo
	saveErr   error
	createErr error
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, email string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u := &models.User{ID: uuid.New(), Email: email, UserVideos: []models.UserVideo{}}
	if f.byEmail == nil {
		f.byEmail = map[string]*models.User{}
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) SaveVideos(_ context.Context, _ uuid.UUID, videos []models.UserVideo) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, videos)
	return nil
}

type fakeAuth struct {
	email    string
	loginErr error
	authErr  error
}

func (f *fakeAuth) LoginOrCreate(_ context.Context, _ string) error {
	return f.loginErr
}

func (f *fakeAuth) Authenticate(_ context.Context, _ string) (string, error) {
	return f.email, f.authErr
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newTestApp registers the handler routes behind a stub that injects the
// given user, standing in for the session middleware.
func newTestApp(h *ApplicationHandler, user *models.User) *fiber.App {
	app := fiber.New()
	if user != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", user)
			return c.Next()
		})
	}

	app.Post("/api/auth/login", h.Login)
	app.Get("/api/auth/auth", h.Authenticate)
	app.Post("/api/auth/logout", h.Logout)
	app.Get("/api/auth/status", h.Status)

	app.Get("/api/user/videos", h.ListUserVideos)

	app.Post("/api/video/process", h.ProcessVideo)
	app.Get("/api/video/:videoID", h.GetVideoPage)
	app.Post("/api/video/:videoID/quiz", h.CreateQuiz)
	app.Post("/api/video/:videoID/quiz/validate", h.ValidateAnswer)
	app.Get("/api/video/:videoID/notes", h.ListNotes)
	app.Post("/api/video/:videoID/notes", h.CreateNote)
	app.Patch("/api/video/:videoID/notes/update/:id", h.UpdateNote)
	app.Get("/api/video/:videoID/flashcards", h.ListFlashcards)
	app.Get("/api/video/:videoID/flashcards/:id", h.GetFlashcard)
	app.Post("/api/video/:videoID/flashcards", h.CreateFlashcard)
	app.Patch("/api/video/:videoID/flashcards/update/:id", h.UpdateFlashcard)

	return app
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("decoding response %s: %v", data, err)
	}
}
