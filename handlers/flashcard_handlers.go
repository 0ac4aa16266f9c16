package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

// FlashcardPayload is the flashcard body sent by the client.
type FlashcardPayload struct {
	Front string `json:"front" validate:"required"`
	Back  string `json:"back" validate:"required"`
}

// CreateFlashcardPayload wraps the flashcard body the way the frontend
// sends it.
type CreateFlashcardPayload struct {
	Flashcard FlashcardPayload `json:"flashcard"`
}

// UpdateFlashcardPayload defines the structure for a partial flashcard
// update.
type UpdateFlashcardPayload struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

// ListFlashcards returns the user's flashcards for a video.
// GET /api/video/:videoID/flashcards
func (h *ApplicationHandler) ListFlashcards(c *fiber.Ctx) error {
	_, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, userVideo.Flashcards)
}

// GetFlashcard returns a single flashcard by ID.
// GET /api/video/:videoID/flashcards/:id
func (h *ApplicationHandler) GetFlashcard(c *fiber.Ctx) error {
	_, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid flashcard ID format")
	}

	for _, card := range userVideo.Flashcards {
		if card.ID == cardID {
			return utils.RespondWithJSON(c, fiber.StatusOK, card)
		}
	}
	return utils.RespondWithError(c, fiber.StatusNotFound, "Flashcard not found")
}

// CreateFlashcard adds a flashcard to the user's video and returns the
// updated list.
// POST /api/video/:videoID/flashcards
func (h *ApplicationHandler) CreateFlashcard(c *fiber.Ctx) error {
	user, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}

	var payload CreateFlashcardPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}

	userVideo.Flashcards = append(userVideo.Flashcards, models.Flashcard{
		ID:    uuid.New(),
		Front: payload.Flashcard.Front,
		Back:  payload.Flashcard.Back,
	})

	if err := h.Users.SaveVideos(c.Context(), user.ID, user.UserVideos); err != nil {
		h.Logger.WithError(err).Error("could not save flashcards")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save flashcard")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, userVideo.Flashcards)
}

// UpdateFlashcard modifies an existing flashcard's front or back text.
// PATCH /api/video/:videoID/flashcards/update/:id
func (h *ApplicationHandler) UpdateFlashcard(c *fiber.Ctx) error {
	user, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}

	cardID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid flashcard ID format")
	}

	var payload UpdateFlashcardPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if payload.Front == nil && payload.Back == nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	var card *models.Flashcard
	for i := range userVideo.Flashcards {
		if userVideo.Flashcards[i].ID == cardID {
			card = &userVideo.Flashcards[i]
			break
		}
	}
	if card == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Flashcard not found")
	}

	if payload.Front != nil {
		card.Front = *payload.Front
	}
	if payload.Back != nil {
		card.Back = *payload.Back
	}

	if err := h.Users.SaveVideos(c.Context(), user.ID, user.UserVideos); err != nil {
		h.Logger.WithError(err).Error("could not save flashcards")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save flashcard")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, *card)
}
