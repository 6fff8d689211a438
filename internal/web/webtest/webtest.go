// Package webtest has the fakes the handler tests share.
package webtest

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/homepage"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/setup"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/controller/theme"
	"github.com/mobile-app-connector/mobile-app-connector/internal/db/models"
	"github.com/mobile-app-connector/mobile-app-connector/internal/web/session"
)

// Render is one call to Views.Render.
type Render struct {
	Name    string
	Data    fiber.Map
	Layouts []string
}

// Views is a fiber view engine that remembers what it rendered and writes only the template name.
type Views struct {
	mu      sync.Mutex
	renders []Render
}

// Load implements fiber.Views.
func (v *Views) Load() error { return nil }

// Render implements fiber.Views.
func (v *Views) Render(w io.Writer, name string, data interface{}, layouts ...string) error {
	m, _ := data.(fiber.Map)

	v.mu.Lock()
	v.renders = append(v.renders, Render{Name: name, Data: m, Layouts: layouts})
	v.mu.Unlock()

	_, err := io.WriteString(w, name)

	return err
}

// Last returns the latest render, the zero Render if nothing was rendered.
func (v *Views) Last() Render {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.renders) == 0 {
		return Render{}
	}

	return v.renders[len(v.renders)-1]
}

// Config returns a config good enough for handlers.
func Config() *config.Config {
	return &config.Config{
		Title: "Mobile App Connector",
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			LocalDB: config.LocalDBAuth{Enabled: true},
		},
		API: config.API{
			KeySource: config.KeySourceConfig,
			Keys: []config.APIKey{
				{Name: "test", Key: APIKey, Active: true},
			},
		},
	}
}

// APIKey is the active key of Config.
const APIKey = "mob_auth_test_key_0000000000"

// SignIn stores a session for user and returns its cookie. A memory store is set up on first use.
func SignIn(t *testing.T, user models.User) *http.Cookie {
	t.Helper()

	if session.Store == nil {
		session.Init(nil)
	}

	id, err := session.GenerateSessionID()
	require.NoError(t, err)
	require.NoError(t, (&session.Data{User: user}).Write(id, time.Minute))

	return &http.Cookie{Name: session.CookieName, Value: id}
}

// Do runs req against app and returns the response with its body.
func Do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

// JSON decodes body into a map.
func JSON(t *testing.T, body []byte) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))

	return out
}

// SeedShop stores a setup for shop and, when asked, the default theme and a home page.
func SeedShop(t *testing.T, db *gorm.DB, shop string, withTheme, withHomePage bool) {
	t.Helper()

	s := setup.Form{
		CompanyName:                    "Acme",
		CustomerEmail:                  "ops@acme.test",
		CustomerPhoneNumberCountryCode: "+1",
		CustomerPhoneNumber:            "5551234567",
		AppName:                        "Acme Shop",
	}
	_, err := s.Save(db, shop)
	require.NoError(t, err)

	if withTheme {
		th := theme.Default()
		_, err = th.Save(db, shop)
		require.NoError(t, err)
	}

	if withHomePage {
		h := homepage.Form{
			HeroBanners:                 []string{"https://cdn.test/a.png"},
			TopCollections:              []string{"gid://shopify/Collection/1"},
			PrimaryProductList:          "gid://shopify/Collection/1",
			PrimaryProductListSortKey:   models.SortKeyTitle,
			SecondaryProductList:        "gid://shopify/Collection/2",
			SecondaryProductListSortKey: models.SortKeyPrice,
		}
		_, err = h.Save(db, shop)
		require.NoError(t, err)
	}
}
