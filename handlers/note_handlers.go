package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"donsflow/api-gateway/middleware"
	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

// NotePayload is the note body sent by the client. Moment is the
// transcript timestamp, in whole seconds, the note is attached to.
type NotePayload struct {
	Moment *int   `json:"moment" validate:"required,gte=0"`
	Text   string `json:"text" validate:"required"`
}

// CreateNotePayload wraps the note body the way the frontend sends it.
type CreateNotePayload struct {
	Note NotePayload `json:"note"`
}

// UpdateNotePayload defines the structure for a partial note update.
type UpdateNotePayload struct {
	Moment *int    `json:"moment,omitempty" validate:"omitempty,gte=0"`
	Text   *string `json:"text,omitempty"`
}

// userVideoFromParams resolves the :videoID param against the current
// user's library.
func userVideoFromParams(c *fiber.Ctx) (*models.User, *models.UserVideo, error) {
	user := middleware.CurrentUser(c)

	videoID, err := uuid.Parse(c.Params("videoID"))
	if err != nil {
		return nil, nil, utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	userVideo := user.FindVideo(videoID)
	if userVideo == nil {
		return nil, nil, utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}
	return user, userVideo, nil
}

// ListNotes returns the user's notes for a video.
// GET /api/video/:videoID/notes
func (h *ApplicationHandler) ListNotes(c *fiber.Ctx) error {
	_, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}
	return utils.RespondWithJSON(c, fiber.StatusOK, userVideo.Notes)
}

// CreateNote adds a note to the user's video and returns the updated list.
// POST /api/video/:videoID/notes
func (h *ApplicationHandler) CreateNote(c *fiber.Ctx) error {
	user, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}

	var payload CreateNotePayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}

	userVideo.Notes = append(userVideo.Notes, models.Note{
		ID:     uuid.New(),
		Moment: *payload.Note.Moment,
		Text:   payload.Note.Text,
	})

	if err := h.Users.SaveVideos(c.Context(), user.ID, user.UserVideos); err != nil {
		h.Logger.WithError(err).Error("could not save notes")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save note")
	}

	return utils.RespondWithJSON(c, fiber.StatusCreated, userVideo.Notes)
}

// UpdateNote modifies an existing note's moment or text.
// PATCH /api/video/:videoID/notes/update/:id
func (h *ApplicationHandler) UpdateNote(c *fiber.Ctx) error {
	user, userVideo, err := userVideoFromParams(c)
	if userVideo == nil {
		return err
	}

	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid note ID format")
	}

	var payload UpdateNotePayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}
	if payload.Moment == nil && payload.Text == nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	var note *models.Note
	for i := range userVideo.Notes {
		if userVideo.Notes[i].ID == noteID {
			note = &userVideo.Notes[i]
			break
		}
	}
	if note == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Note not found")
	}

	if payload.Moment != nil {
		note.Moment = *payload.Moment
	}
	if payload.Text != nil {
		note.Text = *payload.Text
	}

	if err := h.Users.SaveVideos(c.Context(), user.ID, user.UserVideos); err != nil {
		h.Logger.WithError(err).Error("could not save notes")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save note")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, *note)
}
