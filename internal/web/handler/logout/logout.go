// Package logout ends admin sessions.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
)

// Path is the logout path.
const Path = handler.LogoutPath

// Service is the logout handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ *gorm.DB) error {
	if router == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	// logout route (outside auth middleware protection)
	router.Get(Path, s.Logout)
	router.Post(Path, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	handler.EndSession(c, s.cfg)

	return c.Redirect(handler.LoginPath)
}
