package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"donsflow/api-gateway/config"
	"donsflow/api-gateway/handlers"
	"donsflow/api-gateway/internal/aiclient"
	"donsflow/api-gateway/internal/captions"
	"donsflow/api-gateway/internal/magiclink"
	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel)

	db, err := config.NewSupabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Supabase")
	}

	gemini, err := aiclient.NewGemini(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize Gemini")
	}
	defer gemini.Close()

	videos := store.NewVideoStore(db)
	users := store.NewUserStore(db)
	auth := magiclink.NewClient(cfg.StytchBaseURL, cfg.StytchProjectID, cfg.StytchSecret)

	h := handlers.NewApplicationHandler(
		aiclient.New(gemini),
		captions.NewClient(),
		auth,
		videos,
		users,
		logger,
		cfg.TokenKey,
		cfg.IsProduction(),
	)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger(logger))

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "API Gateway is healthy",
		})
	})

	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Login)
	authGroup.Get("/auth", h.Authenticate)
	authGroup.Post("/logout", h.Logout)
	authGroup.Get("/status", h.Status)

	requireUser := middleware.RequireUser(logger, users, cfg.TokenKey)

	userGroup := api.Group("/user", requireUser)
	userGroup.Get("/videos", h.ListUserVideos)

	videoGroup := api.Group("/video", requireUser)
	videoGroup.Post("/process", h.ProcessVideo)
	videoGroup.Get("/:videoID", h.GetVideoPage)

	videoGroup.Post("/:videoID/quiz", h.CreateQuiz)
	videoGroup.Post("/:videoID/quiz/validate", h.ValidateAnswer)

	videoGroup.Get("/:videoID/notes", h.ListNotes)
	videoGroup.Post("/:videoID/notes", h.CreateNote)
	videoGroup.Patch("/:videoID/notes/update/:id", h.UpdateNote)

	videoGroup.Get("/:videoID/flashcards", h.ListFlashcards)
	videoGroup.Get("/:videoID/flashcards/:id", h.GetFlashcard)
	videoGroup.Post("/:videoID/flashcards", h.CreateFlashcard)
	videoGroup.Patch("/:videoID/flashcards/update/:id", h.UpdateFlashcard)

	logger.Infof("Starting API Gateway on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server stopped")
	}
}
