package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"donsflow/api-gateway/internal/captions"
	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/internal/transcript"
	"donsflow/api-gateway/middleware"
	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

// processTimeout bounds the full caption-fetch plus chaptering pipeline.
const processTimeout = 120 * time.Second

// ProcessVideoPayload defines the structure for submitting a video. URL
// shape is checked by captions.ExtractVideoID, which accepts scheme-less
// watch links the generic url validator would reject.
type ProcessVideoPayload struct {
	VideoURL string `json:"videoUrl" validate:"required"`
}

// ProcessVideo runs the ingestion pipeline for a YouTube URL: fetch the
// captions, normalize and merge them into a transcript, chapter the
// transcript with the model, persist the result, and associate the video
// with the requesting user. Submitting a URL that was already processed
// returns the stored video without re-running the pipeline.
// POST /api/video/process
func (h *ApplicationHandler) ProcessVideo(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var payload ProcessVideoPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}
	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}

	videoID, err := captions.ExtractVideoID(payload.VideoURL)
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid YouTube video URL")
	}

	ctx, cancel := context.WithTimeout(c.Context(), processTimeout)
	defer cancel()

	existing, err := h.Videos.GetByURL(ctx, payload.VideoURL)
	if err == nil {
		if err := h.associateVideo(ctx, user, existing.ID); err != nil {
			h.Logger.WithError(err).Error("could not associate existing video")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save video for user")
		}
		return utils.RespondWithJSON(c, fiber.StatusOK, existing)
	}
	if !errors.Is(err, store.ErrNotFound) {
		h.Logger.WithError(err).Error("video lookup failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process video")
	}

	video, err := h.buildVideo(ctx, payload.VideoURL, videoID)
	if err != nil {
		switch {
		case errors.Is(err, captions.ErrNoCaptions):
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "No captions are available for this video")
		default:
			h.Logger.WithError(err).WithField("video_id", videoID).Error("video processing failed")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not process video")
		}
	}

	created, err := h.Videos.Create(ctx, *video)
	if errors.Is(err, store.ErrDuplicateURL) {
		// Another request processed the same URL first. Converge on the
		// stored row.
		created, err = h.Videos.GetByURL(ctx, payload.VideoURL)
	}
	if err != nil {
		h.Logger.WithError(err).Error("could not persist video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save video")
	}

	if err := h.associateVideo(ctx, user, created.ID); err != nil {
		h.Logger.WithError(err).Error("could not associate video")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not save video for user")
	}

	h.Logger.WithFields(logrus.Fields{
		"video_id": created.ID,
		"url":      created.URL,
		"segments": len(created.Transcript),
		"chapters": len(created.ContentTable),
	}).Info("video processed")

	return utils.RespondWithJSON(c, fiber.StatusCreated, created)
}

// buildVideo fetches captions and produces a fully chaptered Video record.
func (h *ApplicationHandler) buildVideo(ctx context.Context, videoURL, videoID string) (*models.Video, error) {
	raw, err := h.Captions.Fetch(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("fetching captions: %w", err)
	}

	items := transcript.Merge(transcript.Normalize(raw))
	if len(items) == 0 {
		return nil, captions.ErrNoCaptions
	}

	title, err := h.Captions.Title(ctx, videoURL)
	if err != nil {
		h.Logger.WithError(err).WithField("video_id", videoID).Warn("could not resolve video title")
		title = videoURL
	}

	descriptors, err := h.AI.GenerateChapters(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("generating chapters: %w", err)
	}

	chapters, err := transcript.MapChapters(items, descriptors)
	if err != nil {
		return nil, fmt.Errorf("mapping chapters: %w", err)
	}

	now := time.Now()
	return &models.Video{
		ID:           uuid.New(),
		URL:          videoURL,
		Title:        title,
		Transcript:   items,
		ContentTable: chapters,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// associateVideo links a video to the user's library if it is not already
// there, seeding empty notes and flashcards.
func (h *ApplicationHandler) associateVideo(ctx context.Context, user *models.User, videoID uuid.UUID) error {
	if user.FindVideo(videoID) != nil {
		return nil
	}
	user.UserVideos = append(user.UserVideos, models.UserVideo{
		VideoID:    videoID,
		Notes:      []models.Note{},
		Flashcards: []models.Flashcard{},
	})
	return h.Users.SaveVideos(ctx, user.ID, user.UserVideos)
}

// GetVideoPage returns the stored video together with the requesting
// user's notes and flashcards for it.
// GET /api/video/:videoID
func (h *ApplicationHandler) GetVideoPage(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	videoID, err := uuid.Parse(c.Params("videoID"))
	if err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid video ID format")
	}

	userVideo := user.FindVideo(videoID)
	if userVideo == nil {
		return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
	}

	video, err := h.Videos.GetByID(c.Context(), videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.RespondWithError(c, fiber.StatusNotFound, "Video not found")
		}
		h.Logger.WithError(err).WithField("video_id", videoID).Error("video lookup failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve video")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"video":      video,
		"notes":      userVideo.Notes,
		"flashcards": userVideo.Flashcards,
	})
}

// ListUserVideos returns summaries of every video in the user's library,
// newest first.
// GET /api/user/videos
func (h *ApplicationHandler) ListUserVideos(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	ids := make([]uuid.UUID, 0, len(user.UserVideos))
	for _, uv := range user.UserVideos {
		ids = append(ids, uv.VideoID)
	}

	if len(ids) == 0 {
		return utils.RespondWithJSON(c, fiber.StatusOK, []models.VideoSummary{})
	}

	summaries, err := h.Videos.ListByIDs(c.Context(), ids)
	if err != nil {
		h.Logger.WithError(err).Error("video list failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not retrieve videos")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, summaries)
}
