// Package graphql proxies storefront GraphQL queries of the mobile app.
package graphql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/handler/api"
)

const (
	// Route is the path below the api group.
	Route = "/graphql"

	// Path is the full path of the endpoint.
	Path = handler.APIPath + Route
)

// ErrNoStorefront is returned when no storefront client is configured.
var ErrNoStorefront = errors.New("storefront client is not configured")

// Querier runs a storefront query and returns the raw response body.
type Querier interface {
	StorefrontQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error)
}

// Request is the body of a proxied query.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Service is the graphql proxy handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	storefront Querier
}

// Handler is the graphql proxy handler.
var Handler = Service{}

// Init registers the endpoint on the key-guarded api router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, _ *gorm.DB) error {
	if router == nil || cfg == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg

	router.Post(Route, s.Post)

	return nil
}

// SetStorefront sets the upstream client, nil leaves the proxy answering 500.
func (s *Service) SetStorefront(q Querier) {
	s.storefront = q
}

// Post forwards the query and answers the upstream body unchanged.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)
	if err := api.ParseJSON(c, req); err != nil {
		return api.Unexpected(c, s.cfg.DevMode, "graphql api", err)
	}

	if req.Query == "" {
		return api.Error(c, fiber.StatusBadRequest, "No query provided")
	}

	if req.Variables == nil {
		req.Variables = map[string]any{}
	}

	if s.storefront == nil {
		return api.Unexpected(c, s.cfg.DevMode, "graphql api", ErrNoStorefront)
	}

	data, err := s.storefront.StorefrontQuery(c.UserContext(), req.Query, req.Variables)
	if err != nil {
		return api.Unexpected(c, s.cfg.DevMode, "graphql api", err)
	}

	c.Type("json")

	return c.Send(data)
}
