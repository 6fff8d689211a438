// Package theme renders and saves the theme page.
package theme

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	controller "github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/theme"
	"github.com/mobile-app-connector/mobile-app-connector/internal/validation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/navigation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

const (
	// Route is the path below the app group.
	Route = "/theme"

	// Path is the path to the theme page.
	Path = handler.AppPath + Route

	// TemplateName is the name of the theme template.
	TemplateName = "app/theme"

	// MessageSaved is flashed after the first save.
	MessageSaved = "Theme configuration saved successfully!"
	// MessageUpdated is flashed after later saves.
	MessageUpdated = "Theme configuration updated successfully!"
)

// Themes offered by the theme code select.
var Themes = []string{"light", "dark"} //nolint:gochecknoglobals

// Service is the theme page handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the theme page handler.
var Handler = Service{}

// Init registers the page on the session-guarded app router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validation.New()

	requireSetup := app.RequireSetup(cfg, db)

	router.Get(Route, requireSetup, s.Get)
	router.Post(Route, requireSetup, s.Post)

	return nil
}

func (s *Service) page(c *fiber.Ctx, data fiber.Map) fiber.Map {
	data["Themes"] = Themes

	return handler.Page(c, s.cfg, navigation.ForPage("Theme", navigation.PageTheme, Path), data)
}

// Get renders the stored theme, or the defaults before the first save.
func (s *Service) Get(c *fiber.Ctx) error {
	form := controller.Default()

	if err := form.Load(s.db, handler.ShopName(c)); err != nil && !errors.Is(err, record.ErrNotFound) {
		log.Error().Err(err).Msg("failed to load theme")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load theme")
	}

	return c.Render(TemplateName, s.page(c, fiber.Map{"Form": &form}), handler.BaseLayout)
}

// Post handles the theme form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	form := &controller.Form{}
	if err := c.BodyParser(form); err != nil {
		log.Error().Err(err).Msg("failed to parse theme form")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, s.page(c, fiber.Map{
			"Form":  form,
			"Error": "Invalid form data",
		}), handler.BaseLayout)
	}

	if err := s.validator.Struct(form); err != nil {
		log.Debug().Err(err).Msg("validation failed for theme")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, s.page(c, fiber.Map{
			"Form":        form,
			"FieldErrors": validation.FieldErrors(err),
			"Error":       "Please fix the highlighted fields",
		}), handler.BaseLayout)
	}

	shopName := handler.ShopName(c)

	created, err := form.Save(s.db, shopName)
	if err != nil {
		log.Error().Err(err).Str("shop", shopName).Msg("failed to save theme")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, s.page(c, fiber.Map{
			"Form":  form,
			"Error": "Failed to save theme configuration",
		}), handler.BaseLayout)
	}

	log.Info().Str("shop", shopName).Str("theme", form.ThemeCode).Bool("created", created).Msg("theme saved")

	message := MessageUpdated
	if created {
		message = MessageSaved
	}

	handler.Flash(c, s.cfg, session.FlashSuccess, message)

	return c.Redirect(Path)
}
