package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// StartSession stores user in a new session and sets the session cookie.
func StartSession(c *fiber.Ctx, cfg *config.Config, user models.User) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	userSession := &session.Data{
		User: user,
	}

	if err = userSession.Write(sessionID, cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// EndSession deletes the session of the request and expires the cookie.
func EndSession(c *fiber.Ctx, cfg *config.Config) {
	if sessionID := c.Cookies(session.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Now().Add(-time.Hour),
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
