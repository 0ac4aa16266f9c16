package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"donsflow/api-gateway/internal/aiclient"
	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/middleware"
	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

// minQuizWindow is the smallest transcript window, in seconds, a quiz may
// cover.
const minQuizWindow = 300

// CreateQuizPayload defines the transcript window and question style for a
// generated quiz. Start and End are whole seconds from the beginning of the
// video.
type CreateQuizPayload struct {
	Start *int   `json:"start" validate:"required,gte=0"`
	End   *int   `json:"end" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=multiple open"`
}

// CreateQuiz generates quiz questions from the transcript segments that
// overlap the requested window.
// POST /api/video/:videoID/quiz
func (h *ApplicationHandler) CreateQuiz(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	videoID, err := uuid.Parse(c.Params("videoID"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	var payload CreateQuizPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}
	if *payload.End-*payload.Start < minQuizWindow {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Segment must be at least 5 minutes long")
	}

	if user.FindVideo(videoID) == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	video, err := h.Videos.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		h.Logger.WithError(err).WithField("video_id", videoID).Error("video lookup failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not generate quiz")
	}

	segment := transcript.SelectSegment(video.Transcript, *payload.Start, *payload.End)
	if len(segment) == 0 {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "No transcript in the selected window")
	}

	questions, err := h.AI.GenerateQuiz(c.Context(), segment, payload.Type)
	if err != nil {
		if errors.Is(err, aiclient.ErrInvalidResponse) {
			h.Logger.WithError(err).WithField("video_id", videoID).Error("model returned malformed quiz")
		} else {
			h.Logger.WithError(err).WithField("video_id", videoID).Error("quiz generation failed")
		}
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not generate quiz")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"type": payload.Type,
		"quiz": questions,
	})
}

// ValidateAnswerPayload carries an answered question back for grading.
type ValidateAnswerPayload struct {
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
	UserAnswer string `json:"userAnswer" validate:"required"`
}

// ValidateAnswer grades a user's answer against the reference answer and
// returns a verdict with an explanation.
// POST /api/video/:videoID/quiz/validate
func (h *ApplicationHandler) ValidateAnswer(c *fiber.Ctx) error {
	var payload ValidateAnswerPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}

	check, err := h.AI.CheckAnswer(c.Context(), payload.Question, payload.Answer, payload.UserAnswer)
	if err != nil {
		h.Logger.WithError(err).Error("answer validation failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not validate answer")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, models.AnswerCheck{
		Correct:     check.Correct,
		Explanation: check.Explanation,
	})
}
