// Package app holds what the signed-in configuration pages share.
package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	setupcontroller "github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// MessageSetupFirst is flashed when a page needs the setup of the shop.
const MessageSetupFirst = "Please complete the setup first"

// RequireSetup sends users of shops without setup to the setup page.
func RequireSetup(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := setupcontroller.Exists(db, handler.ShopName(c))
		if err != nil {
			log.Error().Err(err).Msg("failed to check setup")

			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load setup")
		}

		if !ok {
			handler.Flash(c, cfg, session.FlashError, MessageSetupFirst)

			return c.Redirect(setup.Path)
		}

		return c.Next()
	}
}
