package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"donsflow/api-gateway/internal/magiclink"
	"donsflow/api-gateway/internal/store"
	"donsflow/api-gateway/middleware"
	"donsflow/api-gateway/utils"
)

// LoginPayload defines the structure for requesting a magic link.
type LoginPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// Login sends a magic link to the given email address.
// POST /api/auth/login
func (h *ApplicationHandler) Login(c *fiber.Ctx) error {
	var payload LoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.RespondWithError(c, fiber.StatusBadRequest, fmt.Sprintf("Cannot parse JSON: %v", err))
	}

	if err := validate.Struct(payload); err != nil {
		errs := utils.FormatValidationErrors(err)
		return utils.RespondWithError(c, fiber.StatusBadRequest, strings.Join(errs, ", "))
	}

	if err := h.Auth.LoginOrCreate(c.Context(), payload.Email); err != nil {
		h.Logger.WithError(err).WithField("email", payload.Email).Error("magic link request failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not send login email")
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"message": "Magic link sent",
	})
}

// Authenticate completes the magic link flow. The provider redirects here
// with a one-time token in the query string; a successful exchange sets the
// session cookie.
// GET /api/auth/auth
func (h *ApplicationHandler) Authenticate(c *fiber.Ctx) error {
	token := c.Query("token")
	tokenType := c.Query("stytch_token_type")
	if token == "" || tokenType != "magic_links" {
		return utils.RespondWithError(c, fiber.StatusBadRequest, "Invalid authentication request")
	}

	email, err := h.Auth.Authenticate(c.Context(), token)
	if err != nil {
		if errors.Is(err, magiclink.ErrAuthFailed) {
			return utils.RespondWithError(c, fiber.StatusUnauthorized, "Magic link is invalid or expired")
		}
		h.Logger.WithError(err).Error("magic link authentication failed")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not authenticate")
	}

	user, err := h.Users.FindByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			user, err = h.Users.Create(c.Context(), email)
		}
		if err != nil {
			h.Logger.WithError(err).WithField("email", email).Error("could not load user after authentication")
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not authenticate")
		}
	}

	session, err := utils.CreateToken(user.Email, h.TokenKey)
	if err != nil {
		h.Logger.WithError(err).Error("could not sign session token")
		return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not authenticate")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session,
		Expires:  time.Now().Add(utils.SessionDuration),
		HTTPOnly: true,
		Secure:   h.SecureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})

	h.Logger.WithFields(logrus.Fields{"email": user.Email}).Info("user authenticated")
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"authenticated": true,
		"email":         user.Email,
	})
}

// Logout clears the session cookie.
// POST /api/auth/logout
func (h *ApplicationHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.SecureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"message": "Logged out",
	})
}

// Status reports whether the request carries a valid session.
// GET /api/auth/status
func (h *ApplicationHandler) Status(c *fiber.Ctx) error {
	cookie := c.Cookies(middleware.SessionCookie)
	if cookie == "" {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"authenticated": false})
	}

	email, ok := utils.DecodeToken(cookie, h.TokenKey)
	if !ok {
		return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"authenticated": false})
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{
		"authenticated": true,
		"email":         email,
	})
}
