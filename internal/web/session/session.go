// Package session keeps signed-in admin users and their flash messages in fiber storage.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
)

// CookieName is the cookie carrying the session id.
const CookieName = "session"

// Flash kinds, used as css modifiers by the toast.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = errors.New("no session cookie")

// Store is the global session store instance.
var Store *session.Store

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Data represents the session data structure.
type Data struct {
	User    models.User
	Flashes []Flash
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	byteData, err := Store.Storage.Get(sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	return json.Unmarshal(byteData, s)
}

// Delete removes the session data for the given session ID.
func Delete(sessionID string) error {
	return Store.Storage.Delete(sessionID)
}

// Init initializes the session store. A nil storage keeps sessions in memory.
func Init(storage fiber.Storage) {
	Store = session.New(session.Config{
		Storage: storage,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// FromContext reads the session named by the request cookie.
func FromContext(c *fiber.Ctx) (*Data, string, error) {
	sessionID := c.Cookies(CookieName)
	if sessionID == "" {
		return nil, "", ErrNoSession
	}

	data := new(Data)
	if err := data.Read(sessionID); err != nil {
		return nil, sessionID, err
	}

	return data, sessionID, nil
}

// AddFlash queues a message for the next page of the current session.
func AddFlash(c *fiber.Ctx, exp time.Duration, kind, message string) error {
	data, sessionID, err := FromContext(c)
	if err != nil {
		return err
	}

	data.Flashes = append(data.Flashes, Flash{Kind: kind, Message: message})

	return data.Write(sessionID, exp)
}

// PopFlashes returns and clears the queued messages of the current session.
func PopFlashes(c *fiber.Ctx, exp time.Duration) []Flash {
	data, sessionID, err := FromContext(c)
	if err != nil || len(data.Flashes) == 0 {
		return nil
	}

	flashes := data.Flashes
	data.Flashes = nil

	if err = data.Write(sessionID, exp); err != nil {
		return nil
	}

	return flashes
}
