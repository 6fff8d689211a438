// Package daemon wires storage, sessions and the web service into the running process.
package daemon

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/apikey"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/dsn"
	"github.com/mobile-app-connector/mobile-app-connector/internal/shopify"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// sessionTable stores the admin sessions next to the configuration tables.
const sessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start runs the web service and blocks until it is shut down by a signal.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New connects the database, seeds it and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gormDB, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(gormDB); err != nil {
		return nil, err
	}

	if err = Seed(cfg, gormDB); err != nil {
		return nil, err
	}

	session.Init(SessionStorage(cfg))

	guard, err := apikey.New(cfg, gormDB)
	if err != nil {
		return nil, err
	}

	opts := web.Options{Guard: guard}

	client, err := shopify.New(cfg.Shopify)
	if err != nil {
		log.Warn().Err(err).Msg("shop client disabled: graphql proxy answers 500, home page has no collections")
	} else {
		opts.Storefront = client
		opts.Catalog = client
	}

	webService, err := web.New(cfg, gormDB, opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Str("key_source", cfg.API.KeySource).
		Bool("oidc", cfg.Auth.OIDC.Enabled).
		Msg("daemon ready")

	return &Daemon{
		cfg:        cfg,
		db:         gormDB,
		webService: webService,
	}, nil
}

// SessionStorage returns the session backend for the configured engine, nil selects fiber's memory store.
func SessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL, "":
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         sessionTable,
		})
	default:
		log.Warn().Str("engine", cfg.DB.GormEngine).Msg("sessions are kept in memory and lost on restart")

		return nil
	}
}
