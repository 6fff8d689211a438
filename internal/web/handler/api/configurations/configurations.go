// Package configurations serves the merged configuration of a shop to the mobile app.
package configurations

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/configuration"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api"
)

const (
	// Route is the path below the api group.
	Route = "/configurations"

	// Path is the full path of the endpoint.
	Path = handler.APIPath + Route
)

// Service is the configurations handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the configurations handler.
var Handler = Service{}

// Init registers the endpoint on the key-guarded api router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	router.Get(Route, s.Get)
	router.Post(Route, s.MethodNotAllowed)

	return nil
}

// Get answers the merged configuration for the shopName query parameter.
func (s *Service) Get(c *fiber.Ctx) error {
	shopName := c.Query("shopName")
	if shopName == "" {
		return api.Error(c, fiber.StatusBadRequest, "shopName parameter is required")
	}

	merged, err := configuration.Get(s.db, shopName)
	if errors.Is(err, configuration.ErrNotFound) {
		return api.Error(c, fiber.StatusNotFound, "No configuration found for the given shopName")
	}

	if err != nil {
		return api.Unexpected(c, s.cfg.DevMode, "configuration api", err)
	}

	log.Debug().Str("shop", shopName).Msg("configuration served")

	return c.JSON(merged)
}

// MethodNotAllowed answers writes to the read endpoint.
func (s *Service) MethodNotAllowed(c *fiber.Ctx) error {
	return api.Error(c, fiber.StatusMethodNotAllowed, "Method not allowed")
}
