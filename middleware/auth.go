package middleware

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/models"
	"donsflow/api-gateway/utils"
)

// SessionCookie is the name of the session cookie issued on sign-in.
const SessionCookie = "session_token"

// UserFinder is the slice of the user store the auth middleware needs.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RequireUser authenticates the session cookie and loads the current user
// into c.Locals("user"). Requests without a valid session get a 401.
func RequireUser(log *logrus.Logger, users UserFinder, tokenKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(SessionCookie)
		if token == "" {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication is required to access this resource")
		}

		email, ok := utils.DecodeToken(token, tokenKey)
		if !ok {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication is required to access this resource")
		}

		user, err := users.FindByEmail(c.Context(), email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return utils.RespondWithError(c, fiber.StatusUnauthorized, "Authentication is required to access this resource")
			}
			log.WithError(err).Error("Failed to load user for session")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Internal server error")
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser returns the user loaded by RequireUser.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
