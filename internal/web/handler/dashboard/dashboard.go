// Package dashboard provides the overview page of a shop and its delete form.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/configuration"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/navigation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

const (
	// Path is the path to the overview page.
	Path = handler.AppPath

	// DeleteRoute is the delete form target below the app group.
	DeleteRoute = "/data/delete"

	// DeletePath is the full delete form target.
	DeletePath = Path + DeleteRoute

	// TemplateName is the name of the overview template.
	TemplateName = "app/overview"
)

// Flash texts of the delete form.
const (
	MessageDeletedAll      = "All configurations deleted successfully"
	MessageDeletedSelected = "Selected configurations deleted successfully"
	MessageNothingDeleted  = "No configuration found for this shop"
	MessageDeleteConflict  = "Cannot delete customer setup while keeping other configurations"
)

// Status is the completion state of the three records of a shop.
type Status struct {
	Setup    bool
	Theme    bool
	HomePage bool
}

// Complete reports whether the mobile app has everything it reads.
func (s Status) Complete() bool {
	return s.Setup && s.Theme && s.HomePage
}

// DeleteForm is the delete form. Checkboxes post "true".
type DeleteForm struct {
	DeleteAll                   bool `form:"deleteAll"`
	DeleteHomePageConfiguration bool `form:"deleteHomePageConfiguration"`
	DeleteThemeConfigurations   bool `form:"deleteThemeConfigurations"`
	DeleteCustomerSetup         bool `form:"deleteCustomerSetup"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init registers the overview on the session-guarded app router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	router.Get(handler.RootPath, s.Get)
	router.Post(DeleteRoute, s.Delete)

	return nil
}

// Load returns the completion state of shopName.
func Load(db *gorm.DB, shopName string) (Status, error) {
	var (
		st  Status
		err error
	)

	if st.Setup, err = record.Exists[models.Setup](db, shopName); err != nil {
		return st, err
	}

	if st.Theme, err = record.Exists[models.ThemeConfiguration](db, shopName); err != nil {
		return st, err
	}

	st.HomePage, err = record.Exists[models.HomePageConfiguration](db, shopName)

	return st, err
}

// Get handles the overview page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.ForPage("Overview", navigation.PageOverview, Path)

	status, err := Load(s.db, handler.ShopName(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration status")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load configuration status")
	}

	return c.Render(TemplateName, handler.Page(c, s.cfg, nav, fiber.Map{
		"Status":     status,
		"DeletePath": DeletePath,
	}), handler.BaseLayout)
}

// Delete runs the deletion orchestrator for the signed-in shop and flashes the outcome.
func (s *Service) Delete(c *fiber.Ctx) error {
	form := new(DeleteForm)
	if err := c.BodyParser(form); err != nil {
		handler.Flash(c, s.cfg, session.FlashError, "Invalid form data")

		return c.Redirect(Path)
	}

	shopName := handler.ShopName(c)

	result, err := configuration.Delete(s.db, shopName, configuration.DeleteOptions(*form))

	switch {
	case errors.Is(err, configuration.ErrNotFound):
		handler.Flash(c, s.cfg, session.FlashInfo, MessageNothingDeleted)
	case errors.Is(err, configuration.ErrConflict):
		handler.Flash(c, s.cfg, session.FlashError, MessageDeleteConflict)
	case err != nil:
		log.Error().Err(err).Str("shop", shopName).Msg("failed to delete configuration")
		handler.Flash(c, s.cfg, session.FlashError, "Failed to delete configuration")
	case form.DeleteAll:
		handler.Flash(c, s.cfg, session.FlashSuccess, MessageDeletedAll)
	default:
		handler.Flash(c, s.cfg, session.FlashSuccess, MessageDeletedSelected)
	}

	if result != nil {
		log.Info().
			Str("shop", shopName).
			Bool("home_page", result.HomePageConfiguration).
			Bool("theme", result.ThemeConfigurations).
			Bool("setup", result.CustomerSetup).
			Msg("configuration deleted from overview")
	}

	return c.Redirect(Path)
}
