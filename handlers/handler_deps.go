package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"donsflow/api-gateway/internal/captions"
	"donsflow/api-gateway/internal/magiclink"
	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/models"
)

// AIClient defines the model operations handlers expect. The concrete
// implementation is aiclient.Client over Gemini; tests substitute a fake.
type AIClient interface {
	GenerateChapters(ctx context.Context, items []transcript.Item) ([]transcript.ChapterDescriptor, error)
	GenerateQuiz(ctx context.Context, segment []transcript.Item, quizType string) ([]models.QuizQuestion, error)
	CheckAnswer(ctx context.Context, question, answer, userAnswer string) (models.AnswerCheck, error)
}

// VideoStore is the persistence contract for videos.
type VideoStore interface {
	GetByURL(ctx context.Context, url string) (*models.Video, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.VideoSummary, error)
	Create(ctx context.Context, video models.Video) (*models.Video, error)
}

// UserStore is the persistence contract for users and their per-video
// documents.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, email string) (*models.User, error)
	SaveVideos(ctx context.Context, userID uuid.UUID, videos []models.UserVideo) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	AI       AIClient
	Captions captions.Source
	Auth     magiclink.Provider
	Videos   VideoStore
	Users    UserStore
	Logger   *logrus.Logger

	TokenKey      string
	SecureCookies bool
}

// NewApplicationHandler creates an ApplicationHandler with the given
// dependencies.
func NewApplicationHandler(
	ai AIClient,
	caps captions.Source,
	auth magiclink.Provider,
	videos VideoStore,
	users UserStore,
	logger *logrus.Logger,
	tokenKey string,
	secureCookies bool,
) *ApplicationHandler {
	return &ApplicationHandler{
		AI:            ai,
		Captions:      caps,
		Auth:          auth,
		Videos:        videos,
		Users:         users,
		Logger:        logger,
		TokenKey:      tokenKey,
		SecureCookies: secureCookies,
	}
}

var validate = validator.New()
