package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/navigation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// LocalsUser is the fiber.Locals key of the signed-in user.
const LocalsUser = "CurrentUser"

// CurrentUser returns the user the session middleware stored for this request.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals(LocalsUser).(models.User)

	return u, ok && u.ID > 0
}

// Page adds what the base layout needs to data: title, navigation, user and pending flashes.
func Page(c *fiber.Ctx, cfg *config.Config, nav *navigation.Context, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	data["Title"] = cfg.Title
	data["Navigation"] = nav
	data["Flashes"] = session.PopFlashes(c, cfg.Webserver.Session.ExpiryTime)

	if u, ok := CurrentUser(c); ok {
		data[LocalsUser] = u
		data["ShopName"] = u.ShopName
	}

	return data
}

// Flash queues a toast for the next page. Storage errors are dropped.
func Flash(c *fiber.Ctx, cfg *config.Config, kind, message string) {
	_ = session.AddFlash(c, cfg.Webserver.Session.ExpiryTime, kind, message)
}

// ShopName returns the shop of the signed-in user, empty without one.
func ShopName(c *fiber.Ctx) string {
	u, _ := CurrentUser(c)

	return u.ShopName
}
