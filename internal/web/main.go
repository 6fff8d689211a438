package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/apikey"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	fiberlogger "github.com/mobile-app-connector/mobile-app-connector/internal/logger/adapter/fiber"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api/configurations"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api/deletedata"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api/graphql"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app/home"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/app/theme"
	oidchandler "github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/auth/oidc"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/dashboard"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/login"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/logout"
	authmiddleware "github.com/mobile-app-connector/mobile-app-connector/internal/web/middleware/auth"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/middleware/metrics"
)

const (
	// HealthPath answers 200 while the service takes traffic and 503 while draining.
	HealthPath = "/healthz"

	// MetricsPath exposes the prometheus registry.
	MetricsPath = "/metrics"

	// StaticPath serves the embedded assets.
	StaticPath = "/static"

	appName = "mobile-app-connector"
)

// Options carries the collaborators New cannot build from the config alone.
type Options struct {
	// Guard checks the API key of /api requests. Required.
	Guard apikey.Guard

	// Storefront answers the GraphQL proxy. Optional, the proxy answers 500 without it.
	Storefront graphql.Querier

	// Catalog lists collections and stores banner uploads. Optional.
	Catalog home.Catalog
}

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and stops the server gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so the health check returns 503.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the health check answers 200.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// Health is the liveness handler.
func (s *Service) Health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// ErrorHandler answers JSON below /api and plain text elsewhere.
func ErrorHandler(devMode bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		if strings.HasPrefix(c.Path(), handler.APIPath) {
			if code == fiber.StatusInternalServerError {
				return api.Unexpected(c, devMode, "request", err)
			}

			return api.Error(c, code, err.Error())
		}

		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		}

		return c.Status(code).SendString(err.Error())
	}
}

func templateEngine(cfg *config.Config) *html.Engine {
	engine := html.NewFileSystem(http.FS(templateEmbedFS{embeddedTemplates}), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	engine.AddFunc("at", func(list []string, i int) string {
		if i < 0 || i >= len(list) {
			return ""
		}

		return list[i]
	})
	engine.AddFunc("contains", func(list []string, v string) bool {
		return slices.Contains(list, v)
	})
	engine.AddFunc("fieldError", func(errs map[string]string, field string) string {
		return errs[field]
	})

	return engine
}

// New creates the web service with all routes registered.
func New(cfg *config.Config, db *gorm.DB, opts Options) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	if opts.Guard == nil {
		return nil, errors.New("api key guard cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine(cfg),
			ErrorHandler:   ErrorHandler(cfg.DevMode),
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: fiberlogger.RequestIDLocal,
	}))

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	app.Use(metrics.New(appName, func(c *fiber.Ctx) bool {
		return c.Path() == MetricsPath || c.Path() == HealthPath
	}))

	app.Get(HealthPath, service.Health)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(StaticPath,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
			},
		),
	)

	if err := login.Handler.Init(app, cfg, db); err != nil {
		return nil, err
	}

	if err := logout.Handler.Init(app, cfg, db); err != nil {
		return nil, err
	}

	if err := oidchandler.Handler.Init(app, cfg, db); err != nil {
		return nil, err
	}

	// mobile app API
	apiRouter := app.Group(handler.APIPath, apikey.Middleware(opts.Guard))

	graphql.Handler.SetStorefront(opts.Storefront)

	for _, h := range []handler.Service{&configurations.Handler, &deletedata.Handler, &graphql.Handler} {
		if err := h.Init(apiRouter, cfg, db); err != nil {
			return nil, err
		}
	}

	// admin pages
	appRouter := app.Group(handler.AppPath, authmiddleware.Middleware)

	home.Handler.SetCatalog(opts.Catalog)

	for _, h := range []handler.Service{&dashboard.Handler, &setup.Handler, &theme.Handler, &home.Handler} {
		if err := h.Init(appRouter, cfg, db); err != nil {
			return nil, err
		}
	}

	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(handler.AppPath)
	})

	return service, nil
}
