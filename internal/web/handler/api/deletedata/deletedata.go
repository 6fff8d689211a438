// Package deletedata lets the mobile backend remove stored configuration of a shop.
package deletedata

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
	Route = "/deleteData"

	// Path is the full path of the endpoint.
	Path = handler.APIPath + Route

	// MessageAll is the answer to a successful deleteAll.
	MessageAll = "All configurations deleted successfully"
	// MessageSelected is the answer to a successful selective delete.
	MessageSelected = "Selected configurations deleted successfully"
	// MessageConflict is the answer when the setup was asked to go while a child stays.
	MessageConflict = "Cannot delete customer setup while keeping other configurations"
	// MessageNotFound is the answer for a shop without setup.
	MessageNotFound = "No configuration found for the given shopName"
)

// Request is the body of a delete call.
type Request struct {
	ShopName      string                      `json:"shopName"`
	DeleteOptions configuration.DeleteOptions `json:"deleteOptions"`
}

// Service is the deleteData handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the deleteData handler.
var Handler = Service{}

// Init registers the endpoint on the key-guarded api router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	router.Post(Route, s.Post)

	return nil
}

// Post runs the deletion orchestrator for the posted shop.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := api.ParseJSON(c, req); err != nil {
		return api.Unexpected(c, s.cfg.DevMode, "delete api", err)
	}

	if req.ShopName == "" {
		return api.Error(c, fiber.StatusBadRequest, "shopName is required")
	}

	result, err := configuration.Delete(s.db, req.ShopName, req.DeleteOptions)

	switch {
	case errors.Is(err, configuration.ErrNotFound):
		return api.Error(c, fiber.StatusNotFound, MessageNotFound)
	case errors.Is(err, configuration.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   MessageConflict,
			"results": result,
		})
	case err != nil:
		return api.Unexpected(c, s.cfg.DevMode, "delete api", err)
	}

	log.Info().
		Str("shop", req.ShopName).
		Bool("home_page", result.HomePageConfiguration).
		Bool("theme", result.ThemeConfigurations).
		Bool("setup", result.CustomerSetup).
		Msg("configuration deleted")

	message := MessageSelected
	if req.DeleteOptions.DeleteAll {
		message = MessageAll
	}

	return c.JSON(fiber.Map{
		"message": message,
		"results": result,
	})
}
