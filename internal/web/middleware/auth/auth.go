// Package auth guards the admin pages with the session cookie.
//
// Requests without a readable session or with a user without a shop are redirected to the
// login page. Valid sessions put the user into fiber.Locals for handlers and templates.
//
// Usage:
//
//	app.Group(handler.AppPath, authmiddleware.Middleware)
package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// Middleware is a Fiber middleware that checks for user authentication.
func Middleware(c *fiber.Ctx) error {
	sessData, _, err := session.FromContext(c)
	if err != nil || sessData.User.ID == 0 || sessData.User.ShopName == "" {
		return c.Redirect(handler.LoginPath)
	}

	c.Locals(handler.LocalsUser, sessData.User)

	return c.Next()
}

// IsSignedIn reports whether the request carries a valid session.
func IsSignedIn(c *fiber.Ctx) bool {
	sessData, _, err := session.FromContext(c)

	return err == nil && sessData.User.ID > 0
}
