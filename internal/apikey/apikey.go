// Package apikey guards the external API with an allow-list of keys.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
)

const (
	// Header carries the key on every external API request.
	Header = "X-API-Key"
	// Prefix starts every generated key.
	Prefix = "mob_auth_"
	// keyBytes of randomness, hex encoded after the prefix.
	keyBytes = 24
)

var (
	// ErrKeyNotFound is returned when a named key does not exist.
	ErrKeyNotFound = errors.New("api key not found")
	// ErrKeyNameEmpty is returned when a key is created without a name.
	ErrKeyNameEmpty = errors.New("api key name cannot be empty")
	// ErrKeyNameExists is returned when a key with the name already exists.
	ErrKeyNameExists = errors.New("api key name already exists")
)

// UnauthorizedMessage is the error body of a rejected request.
const UnauthorizedMessage = "Invalid or missing API key"

// Guard decides whether a presented key may use the external API.
type Guard interface {
	IsAuthorized(key string) bool
}

// New returns the guard configured by cfg.API.KeySource.
func New(cfg *config.Config, db *gorm.DB) (Guard, error) {
	switch cfg.API.KeySource {
	case config.KeySourceConfig, "":
		return NewStatic(cfg.API.Keys), nil
	case config.KeySourceDB:
		if db == nil {
			return nil, pkgerrors.Wrap(ErrDBNil, "api key source db")
		}

		return NewDBStore(db), nil
	default:
		return nil, config.ErrUnknownKeySource
	}
}

// Generate returns a new random key.
func Generate() (string, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", pkgerrors.Wrap(err, "failed to generate api key")
	}

	return Prefix + hex.EncodeToString(b), nil
}

// Middleware rejects requests without an authorized key before any handler runs.
func Middleware(g Guard) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(Header)
		if key == "" || !g.IsAuthorized(key) {
			log.Debug().Str("path", c.Path()).Str("ip", c.IP()).Msg("api request rejected")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": UnauthorizedMessage})
		}

		return c.Next()
	}
}
