// Package home renders and saves the home page configuration page.
package home

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	controller "github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/homepage"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/record"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/shopify"
	"github.com/mobile-app-connector/mobile-app-connector/internal/validation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/navigation"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

const (
	// Route is the path below the app group.
	Route = "/home"

	// Path is the path to the home page configuration page.
	Path = handler.AppPath + Route

	// TemplateName is the name of the home page template.
	TemplateName = "app/home"

	// FilesField carries uploaded banner images.
	FilesField = "heroBannerFiles"

	// MessageSaved is flashed after the first save.
	MessageSaved = "Home page configuration saved successfully!"
	// MessageUpdated is flashed after later saves.
	MessageUpdated = "Home page configuration updated successfully!"
)

// Catalog is the part of the shop the page reads collections from and uploads banners to.
type Catalog interface {
	Collections(ctx context.Context) ([]shopify.Collection, error)
	Upload(ctx context.Context, filename, mimeType string, r io.Reader) (string, error)
}

// Service is the home page handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
	catalog   Catalog
}

// Handler is the home page handler.
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

// SetCatalog sets the shop client. Without one the page offers no collections and skips uploads.
func (s *Service) SetCatalog(catalog Catalog) {
	s.catalog = catalog
}

func (s *Service) page(c *fiber.Ctx, data fiber.Map) fiber.Map {
	collections, err := s.collections(c.UserContext())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load collections")

		data["CollectionsError"] = "Collections could not be loaded from the shop"
	}

	data["Collections"] = collections
	data["SortKeys"] = controller.SortKeys
	data["MaxHeroBanners"] = controller.MaxHeroBanners
	data["MaxTopCollections"] = controller.MaxTopCollections

	return handler.Page(c, s.cfg, navigation.ForPage("Home page", navigation.PageHome, Path), data)
}

func (s *Service) collections(ctx context.Context) ([]shopify.Collection, error) {
	if s.catalog == nil {
		return []shopify.Collection{}, nil
	}

	return s.catalog.Collections(ctx)
}

// Get handles the home page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	form := &controller.Form{
		HeroBanners:                 []string{},
		TopCollections:              []string{},
		PrimaryProductListSortKey:   models.SortKeyBestSelling,
		SecondaryProductListSortKey: models.SortKeyBestSelling,
	}

	if err := form.Load(s.db, handler.ShopName(c)); err != nil && !errors.Is(err, record.ErrNotFound) {
		log.Error().Err(err).Msg("failed to load home page")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load home page configuration")
	}

	return c.Render(TemplateName, s.page(c, fiber.Map{"Form": form}), handler.BaseLayout)
}

// Post saves the form. Uploaded files are appended to the posted banners.
// Without any banner the stored ones are kept.
func (s *Service) Post(c *fiber.Ctx) error {
	shopName := handler.ShopName(c)

	form := &controller.Form{}
	if err := c.BodyParser(form); err != nil {
		log.Error().Err(err).Msg("failed to parse home page form")

		return c.Status(fiber.StatusBadRequest).Render(TemplateName, s.page(c, fiber.Map{
			"Form":  form,
			"Error": "Invalid form data",
		}), handler.BaseLayout)
	}

	files := bannerFiles(c)
	form.HeroBanners = compact(form.HeroBanners)
	form.TopCollections = compact(form.TopCollections)

	// nothing is uploaded for a form that is rejected anyway
	if err := s.validator.Struct(form); err != nil {
		log.Debug().Err(err).Msg("validation failed for home page")

		return s.invalid(c, form, validation.FieldErrors(err))
	}

	if len(form.HeroBanners)+len(files) > controller.MaxHeroBanners {
		return s.invalid(c, form, map[string]string{
			"heroBanners": fmt.Sprintf("At most %d entries are allowed", controller.MaxHeroBanners),
		})
	}

	form.HeroBanners = append(form.HeroBanners, s.upload(c.UserContext(), files)...)

	if len(form.HeroBanners) == 0 {
		stored, err := controller.StoredHeroBanners(s.db, shopName)
		if err != nil {
			log.Error().Err(err).Str("shop", shopName).Msg("failed to load stored hero banners")

			return c.Status(fiber.StatusInternalServerError).SendString("Failed to load home page configuration")
		}

		form.HeroBanners = stored
	}

	created, err := form.Save(s.db, shopName)
	if err != nil {
		log.Error().Err(err).Str("shop", shopName).Msg("failed to save home page")

		return c.Status(fiber.StatusInternalServerError).Render(TemplateName, s.page(c, fiber.Map{
			"Form":  form,
			"Error": "Failed to save home page configuration",
		}), handler.BaseLayout)
	}

	log.Info().
		Str("shop", shopName).
		Int("hero_banners", len(form.HeroBanners)).
		Int("top_collections", len(form.TopCollections)).
		Bool("created", created).
		Msg("home page saved")

	message := MessageUpdated
	if created {
		message = MessageSaved
	}

	handler.Flash(c, s.cfg, session.FlashSuccess, message)

	return c.Redirect(Path)
}

func (s *Service) invalid(c *fiber.Ctx, form *controller.Form, fieldErrors map[string]string) error {
	return c.Status(fiber.StatusBadRequest).Render(TemplateName, s.page(c, fiber.Map{
		"Form":        form,
		"FieldErrors": fieldErrors,
		"Error":       "Please fix the highlighted fields",
	}), handler.BaseLayout)
}

// bannerFiles returns the banner files of a multipart post.
func bannerFiles(c *fiber.Ctx) []*multipart.FileHeader {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return nil
	}

	mf, err := c.MultipartForm()
	if err != nil {
		log.Warn().Err(err).Msg("failed to read multipart form")
		return nil
	}

	return mf.File[FilesField]
}

// upload stores files and returns their URLs. Failed files are skipped.
func (s *Service) upload(ctx context.Context, files []*multipart.FileHeader) []string {
	if len(files) == 0 {
		return nil
	}

	if s.catalog == nil {
		log.Warn().Int("files", len(files)).Msg("no shop client configured, banner uploads skipped")
		return nil
	}

	urls := make([]string, 0, len(files))

	for _, fh := range files {
		u, err := s.uploadOne(ctx, fh)
		if err != nil {
			log.Error().Err(err).Str("file", fh.Filename).Msg("failed to upload hero banner")
			continue
		}

		urls = append(urls, u)
	}

	return urls
}

func (s *Service) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	mimeType := fh.Header.Get(fiber.HeaderContentType)
	if fh.Filename == "" || mimeType == "" {
		return "", errors.New("file without name or type")
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.catalog.Upload(ctx, fh.Filename, mimeType, f)
}

// compact drops blank entries, selects post an empty option.
func compact(in []string) []string {
	out := make([]string, 0, len(in))

	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}

	return out
}
