package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
)

// Service registers its routes on router. The router is the app or one of its
// groups, so middleware of the group (session or API key) applies to them.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error
}
