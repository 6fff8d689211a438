// Package oidc signs admin users in through an OpenID Connect provider.
package oidc

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/auth"
	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
)

const (
	// LoginPath is the path to initiate OIDC login.
	LoginPath = handler.RootPath + "auth/oidc/login"

	// CallbackPath is the path for OIDC callback.
	CallbackPath = handler.RootPath + "auth/oidc/callback"

	// LogoutPath is the path for OIDC logout.
	LogoutPath = handler.RootPath + "auth/oidc/logout"

	stateTTL = 5 * time.Minute
)

// Provider is the part of auth.OIDCProvider the handler uses.
type Provider interface {
	GetAuthURL(state string) string
	HandleCallback(ctx context.Context, code string) (*models.User, error)
	GetLogoutURL(idToken, postLogoutRedirectURI string) string
}

// StateStore remembers issued state tokens until they are used or expire.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
}

// NewStateStore returns an empty store.
func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]time.Time)}
}

// Add remembers state until now + ttl.
func (s *StateStore) Add(state string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[state] = time.Now().Add(ttl)
}

// Take removes state and reports whether it was known and not expired.
func (s *StateStore) Take(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiration, ok := s.states[state]
	delete(s.states, state)

	return ok && time.Now().Before(expiration)
}

// Cleanup drops expired states.
func (s *StateStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for state, expiration := range s.states {
		if now.After(expiration) {
			delete(s.states, state)
		}
	}
}

// Len returns the number of pending states.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}

// Service is the OIDC handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	provider   Provider
	stateStore *StateStore
}

// Handler is the OIDC handler.
var Handler = Service{}

// Init discovers the provider and registers the routes. A disabled or unreachable provider
// leaves OIDC off without failing the start.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB) error {
	if router == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	if !cfg.Auth.OIDC.Enabled {
		log.Info().Msg("OIDC authentication is disabled by configuration")
		return nil
	}

	provider, err := auth.NewOIDCProvider(context.Background(), cfg.Auth.OIDC, db)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize OIDC provider - OIDC authentication will be disabled")
		return nil
	}

	s.Register(router, cfg, provider)

	log.Info().Msg("OIDC authentication provider initialized")

	go s.cleanupStates()

	return nil
}

// Register mounts the routes for provider.
func (s *Service) Register(router fiber.Router, cfg *config.Config, provider Provider) {
	s.cfg = cfg
	s.provider = provider
	s.stateStore = NewStateStore()

	router.Get(LoginPath, s.Login)
	router.Get(CallbackPath, s.Callback)
	router.Get(LogoutPath, s.Logout)
}

// Login initiates the OIDC login flow.
func (s *Service) Login(c *fiber.Ctx) error {
	state, err := auth.GenerateStateToken()
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate state token")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	s.stateStore.Add(state, stateTTL)

	return c.Redirect(s.provider.GetAuthURL(state))
}

// Callback handles the OIDC callback.
func (s *Service) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")

	if code == "" || state == "" {
		log.Error().Msg("Missing code or state in OIDC callback")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid callback parameters")
	}

	if !s.stateStore.Take(state) {
		log.Error().Str("state", state).Msg("Invalid or expired state token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state token")
	}

	user, err := s.provider.HandleCallback(c.UserContext(), code)
	if err != nil {
		log.Error().Err(err).Msg("OIDC authentication failed")
		return c.Status(fiber.StatusUnauthorized).SendString("Authentication failed")
	}

	if err = handler.StartSession(c, s.cfg, *user); err != nil {
		log.Error().Err(err).Msg("Failed to start session")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
	}

	log.Info().Str("username", user.Username).Str("shop", user.ShopName).Msg("User logged in successfully via OIDC")

	return c.Redirect(handler.AppPath)
}

// Logout ends the local session and hands over to the provider logout when it has one.
func (s *Service) Logout(c *fiber.Ctx) error {
	handler.EndSession(c, s.cfg)

	if logoutURL := s.provider.GetLogoutURL("", s.cfg.Webserver.URL); logoutURL != "" {
		return c.Redirect(logoutURL)
	}

	return c.Redirect(handler.LoginPath)
}

// cleanupStates periodically removes expired state tokens.
func (s *Service) cleanupStates() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.stateStore.Cleanup()
	}
}
